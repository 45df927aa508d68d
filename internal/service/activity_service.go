package service

import (
	"context"
	"time"

	"blinds-backend/internal/repository"
)

type ActivityResponse struct {
	ID        string `json:"id"`
	JobID     string `json:"job_id"`
	Action    string `json:"action"`
	EntityID  string `json:"entity_id"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

type ActivityService interface {
	ListByJob(ctx context.Context, jobID string, page, limit int) ([]ActivityResponse, int64, error)
}

type activityService struct {
	jobRepo      repository.JobRepository
	activityRepo repository.ActivityRepository
}

func NewActivityService(jobRepo repository.JobRepository, activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{jobRepo: jobRepo, activityRepo: activityRepo}
}

// ListByJob returns a job's history, newest first. Unknown jobs are not found.
func (s *activityService) ListByJob(ctx context.Context, jobID string, page, limit int) ([]ActivityResponse, int64, error) {
	if _, err := s.jobRepo.FindByID(ctx, jobID); err != nil {
		return nil, 0, err
	}

	logs, total, err := s.activityRepo.ListByJob(ctx, jobID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ActivityResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, ActivityResponse{
			ID:        l.ID.String(),
			JobID:     l.JobID,
			Action:    l.Action,
			EntityID:  l.EntityID,
			Details:   l.Details,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, total, nil
}
