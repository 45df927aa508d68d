package model

import (
	"time"
)

type JobStatus string

const (
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// Job is one client engagement and the root of everything quoted, invoiced and surveyed for it.
type Job struct {
	ID           string    `gorm:"type:varchar(20);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Organisation string    `gorm:"type:varchar(255)" json:"organisation"`
	Address      string    `gorm:"type:text" json:"address"`
	Area         string    `gorm:"type:varchar(100)" json:"area"`
	Postcode     string    `gorm:"type:varchar(20)" json:"postcode"`
	Status       JobStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	Notes        string    `gorm:"type:text" json:"notes"`

	Contacts    []Contact    `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"contacts"`
	Surveys     []Survey     `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"surveys"`
	Tasks       []Task       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"tasks"`
	Blinds      []Blind      `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"blinds"`
	CostSummary *CostSummary `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"cost_summary"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlindsOf returns the job's blinds of one category in insertion order.
func (j *Job) BlindsOf(category BlindCategory) []Blind {
	var out []Blind
	for _, b := range j.Blinds {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}

func (j *Job) RollerBlinds() []Blind   { return j.BlindsOf(BlindCategoryRoller) }
func (j *Job) VerticalBlinds() []Blind { return j.BlindsOf(BlindCategoryVertical) }
func (j *Job) VenetianBlinds() []Blind { return j.BlindsOf(BlindCategoryVenetian) }
