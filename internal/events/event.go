// Package events carries job change notifications to Kafka and live clients.
package events

import (
	"time"

	"blinds-backend/internal/model"
)

type EventType string

const (
	JobCreated   EventType = "job_created"
	JobUpdated   EventType = "job_updated"
	JobDeleted   EventType = "job_deleted"
	CostsUpdated EventType = "costs_updated"
)

// JobSummary is the slice of a job that travels with an event.
type JobSummary struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Status model.JobStatus `json:"status"`
	Total  string          `json:"total,omitempty"`
}

type Event struct {
	Type       EventType   `json:"type"`
	JobID      string      `json:"job_id"`
	Job        *JobSummary `json:"job,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewEvent builds an event for job. A nil job yields an event carrying only the id.
func NewEvent(eventType EventType, jobID string, job *model.Job) Event {
	ev := Event{Type: eventType, JobID: jobID, OccurredAt: time.Now().UTC()}
	if job != nil {
		ev.Job = &JobSummary{ID: job.ID, Name: job.Name, Status: job.Status}
		if job.CostSummary != nil {
			ev.Job.Total = job.CostSummary.Total.StringFixed(2)
		}
	}
	return ev
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(event Event)
}

// Multi fans an event out to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(event Event) {
	for _, p := range m {
		p.Publish(event)
	}
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(Event) {}
