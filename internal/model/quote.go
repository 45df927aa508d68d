package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// QuoteValidityDays is how long a quote stays open when no valid-until date is given.
const QuoteValidityDays = 30

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// Quote tracks a quote issued for a job. Its value is always the job's cached total,
// so it follows every change to the job until the quote is accepted or rejected.
type Quote struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	JobID      string      `gorm:"type:varchar(20);not null;index" json:"job_id"`
	Status     QuoteStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	ValidUntil time.Time   `gorm:"type:date;not null" json:"valid_until"`
	Notes      string      `gorm:"type:text" json:"notes"`

	Job *Job `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"job,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Expired reports whether an open quote has passed its valid-until date.
func (q *Quote) Expired(now time.Time) bool {
	if q.Status == QuoteStatusAccepted || q.Status == QuoteStatusRejected {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	vy, vm, vd := q.ValidUntil.Date()
	return time.Date(vy, vm, vd, 0, 0, 0, 0, time.UTC).Before(today)
}
