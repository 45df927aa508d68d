package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActionCreateJob        = "CREATE_JOB"
	ActionUpdateJob        = "UPDATE_JOB"
	ActionDuplicateJob     = "DUPLICATE_JOB"
	ActionDeleteJob        = "DELETE_JOB"
	ActionAddBlind         = "ADD_BLIND"
	ActionUpdateBlind      = "UPDATE_BLIND"
	ActionDeleteBlind      = "DELETE_BLIND"
	ActionDuplicateBlind   = "DUPLICATE_BLIND"
	ActionAddTask          = "ADD_TASK"
	ActionUpdateTask       = "UPDATE_TASK"
	ActionDeleteTask       = "DELETE_TASK"
	ActionAddContact       = "ADD_CONTACT"
	ActionUpdateContact    = "UPDATE_CONTACT"
	ActionDeleteContact    = "DELETE_CONTACT"
	ActionAddSurvey        = "ADD_SURVEY"
	ActionUpdateSurvey     = "UPDATE_SURVEY"
	ActionDeleteSurvey     = "DELETE_SURVEY"
	ActionUpdateCosts      = "UPDATE_COSTS"
	ActionGenerateDocument = "GENERATE_DOCUMENT"
	ActionCreateQuote      = "CREATE_QUOTE"
	ActionUpdateQuote      = "UPDATE_QUOTE"
	ActionDeleteQuote      = "DELETE_QUOTE"
)

// ActivityLog records what changed on a job and when.
type ActivityLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID     string    `gorm:"type:varchar(20);not null;index" json:"job_id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID  string    `gorm:"type:varchar(50)" json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"` // JSON payload of the change
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
