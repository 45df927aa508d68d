package service

import (
	"context"
	"encoding/json"
	"fmt"

	"blinds-backend/internal/costing"
	"blinds-backend/internal/events"
	"blinds-backend/internal/model"
	"blinds-backend/internal/repository"
)

// recorder does the bookkeeping every job mutation shares: the activity row and the
// repriced snapshot inside the transaction, the event after commit.
type recorder struct {
	jobRepo      repository.JobRepository
	activityRepo repository.ActivityRepository
	publisher    events.Publisher
}

func newRecorder(jobRepo repository.JobRepository, activityRepo repository.ActivityRepository, publisher events.Publisher) recorder {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return recorder{jobRepo: jobRepo, activityRepo: activityRepo, publisher: publisher}
}

func (r recorder) logActivity(ctx context.Context, jobID, action, entityID string, details interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode activity details: %w", err)
	}
	entry := &model.ActivityLog{
		JobID:    jobID,
		Action:   action,
		EntityID: entityID,
		Details:  string(detailsJSON),
	}
	if err := r.activityRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write activity log: %w", err)
	}
	return nil
}

// reprice reloads the job, recomputes its breakdown and stores the rounded snapshot.
// Jobs created before cost summaries existed get the default configuration.
func (r recorder) reprice(ctx context.Context, jobID string) (*model.Job, costing.Breakdown, error) {
	job, err := r.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, costing.Breakdown{}, err
	}
	if job.CostSummary == nil {
		job.CostSummary = model.NewCostSummary(job.ID)
	}

	breakdown, err := costing.Compute(job)
	if err != nil {
		return nil, costing.Breakdown{}, err
	}
	costing.Snapshot(job.CostSummary, breakdown)
	if err := r.jobRepo.SaveCostSummary(ctx, job.CostSummary); err != nil {
		return nil, costing.Breakdown{}, fmt.Errorf("failed to save cost snapshot: %w", err)
	}
	return job, breakdown, nil
}

func (r recorder) publish(eventType events.EventType, jobID string, job *model.Job) {
	r.publisher.Publish(events.NewEvent(eventType, jobID, job))
}
