package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blinds-backend/internal/costing"
	e "blinds-backend/internal/errors"
	"blinds-backend/internal/events"
	"blinds-backend/internal/model"
	"blinds-backend/internal/repository"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// --- DTOs ---

type CreateJobRequest struct {
	Name         string `json:"name" binding:"required"`
	Organisation string `json:"organisation"`
	Address      string `json:"address"`
	Area         string `json:"area"`
	Postcode     string `json:"postcode"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

type UpdateJobRequest struct {
	Name         *string `json:"name"`
	Organisation *string `json:"organisation"`
	Address      *string `json:"address"`
	Area         *string `json:"area"`
	Postcode     *string `json:"postcode"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

type JobSummaryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Organisation string    `json:"organisation"`
	Area         string    `json:"area"`
	Postcode     string    `json:"postcode"`
	Status       string    `json:"status"`
	Total        string    `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type BlindsResponse struct {
	Roller   []BlindResponse `json:"roller"`
	Vertical []BlindResponse `json:"vertical"`
	Venetian []BlindResponse `json:"venetian"`
}

type JobResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Organisation string            `json:"organisation"`
	Address      string            `json:"address"`
	Area         string            `json:"area"`
	Postcode     string            `json:"postcode"`
	Status       string            `json:"status"`
	Notes        string            `json:"notes"`
	Contacts     []ContactResponse `json:"contacts"`
	Surveys      []SurveyResponse  `json:"surveys"`
	Tasks        []TaskResponse    `json:"tasks"`
	Blinds       BlindsResponse    `json:"blinds"`
	Costs        CostResponse      `json:"costs"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// --- Interface ---

type JobService interface {
	CreateJob(ctx context.Context, req CreateJobRequest) (JobResponse, error)
	GetJob(ctx context.Context, id string) (JobResponse, error)
	ListJobs(ctx context.Context, status, search string, page, limit int) ([]JobSummaryResponse, int64, error)
	UpdateJob(ctx context.Context, id string, req UpdateJobRequest) (JobResponse, error)
	DeleteJob(ctx context.Context, id string) error
	DuplicateJob(ctx context.Context, id string) (JobResponse, error)
}

// --- Implementation ---

const idAllocationAttempts = 3

type jobService struct {
	jobRepo   repository.JobRepository
	txManager repository.TransactionManager
	recorder  recorder
	idPrefix  string
}

func NewJobService(
	jobRepo repository.JobRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	publisher events.Publisher,
	idPrefix string,
) JobService {
	return &jobService{
		jobRepo:   jobRepo,
		txManager: txManager,
		recorder:  newRecorder(jobRepo, activityRepo, publisher),
		idPrefix:  idPrefix,
	}
}

func parseStatus(raw string) (model.JobStatus, error) {
	status := model.JobStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: status must be one of: active, completed, cancelled", e.ErrInvalidInput)
	}
	return status, nil
}

// insertWithNewID allocates the next job id and runs create inside one transaction.
// Two requests can race for the same id; the loser retries with a fresh one.
func (s *jobService) insertWithNewID(ctx context.Context, create func(txCtx context.Context, id string) error) (string, error) {
	var id string
	op := func() error {
		err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			next, err := s.jobRepo.NextID(txCtx, s.idPrefix)
			if err != nil {
				return fmt.Errorf("failed to allocate job id: %w", err)
			}
			id = next
			return create(txCtx, next)
		})
		if err != nil && !errors.Is(err, e.ErrConflict) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(25*time.Millisecond), idAllocationAttempts), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return id, nil
}

func (s *jobService) CreateJob(ctx context.Context, req CreateJobRequest) (JobResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return JobResponse{}, fmt.Errorf("%w: name is required", e.ErrInvalidInput)
	}
	status := model.JobStatusActive
	if req.Status != "" {
		var err error
		if status, err = parseStatus(req.Status); err != nil {
			return JobResponse{}, err
		}
	}

	id, err := s.insertWithNewID(ctx, func(txCtx context.Context, id string) error {
		job := &model.Job{
			ID:           id,
			Name:         name,
			Organisation: req.Organisation,
			Address:      req.Address,
			Area:         req.Area,
			Postcode:     req.Postcode,
			Status:       status,
			Notes:        req.Notes,
			CostSummary:  model.NewCostSummary(id),
		}
		if err := s.jobRepo.Create(txCtx, job); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		return s.recorder.logActivity(txCtx, id, model.ActionCreateJob, id, req)
	})
	if err != nil {
		return JobResponse{}, err
	}

	resp, job, err := s.load(ctx, id)
	if err != nil {
		return JobResponse{}, err
	}
	s.recorder.publish(events.JobCreated, id, job)
	return resp, nil
}

// load fetches the job and prices it without touching the stored snapshot.
func (s *jobService) load(ctx context.Context, id string) (JobResponse, *model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return JobResponse{}, nil, err
	}
	if job.CostSummary == nil {
		job.CostSummary = model.NewCostSummary(job.ID)
	}
	breakdown, err := costing.Compute(job)
	if err != nil {
		return JobResponse{}, nil, fmt.Errorf("failed to price job %s: %w", id, err)
	}
	return toJobResponse(job, breakdown), job, nil
}

func (s *jobService) GetJob(ctx context.Context, id string) (JobResponse, error) {
	resp, _, err := s.load(ctx, id)
	return resp, err
}

func (s *jobService) ListJobs(ctx context.Context, status, search string, page, limit int) ([]JobSummaryResponse, int64, error) {
	filter := repository.JobFilter{Search: search, Page: page, Limit: limit}
	if status != "" {
		parsed, err := parseStatus(status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = parsed
	}

	jobs, total, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	res := make([]JobSummaryResponse, 0, len(jobs))
	for i := range jobs {
		res = append(res, toJobSummaryResponse(&jobs[i]))
	}
	return res, total, nil
}

func (s *jobService) UpdateJob(ctx context.Context, id string, req UpdateJobRequest) (JobResponse, error) {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		job, err := s.jobRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: name cannot be empty", e.ErrInvalidInput)
			}
			job.Name = name
		}
		if req.Status != nil {
			status, err := parseStatus(*req.Status)
			if err != nil {
				return err
			}
			job.Status = status
		}
		if req.Organisation != nil {
			job.Organisation = *req.Organisation
		}
		if req.Address != nil {
			job.Address = *req.Address
		}
		if req.Area != nil {
			job.Area = *req.Area
		}
		if req.Postcode != nil {
			job.Postcode = *req.Postcode
		}
		if req.Notes != nil {
			job.Notes = *req.Notes
		}

		if err := s.jobRepo.Update(txCtx, job); err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}
		return s.recorder.logActivity(txCtx, id, model.ActionUpdateJob, id, req)
	})
	if err != nil {
		return JobResponse{}, err
	}

	resp, job, err := s.load(ctx, id)
	if err != nil {
		return JobResponse{}, err
	}
	s.recorder.publish(events.JobUpdated, id, job)
	return resp, nil
}

func (s *jobService) DeleteJob(ctx context.Context, id string) error {
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.jobRepo.Delete(txCtx, id); err != nil {
			return err
		}
		return s.recorder.logActivity(txCtx, id, model.ActionDeleteJob, id, nil)
	})
	if err != nil {
		return err
	}
	s.recorder.publish(events.JobDeleted, id, nil)
	return nil
}

// DuplicateJob copies a job and everything it owns under a new id. The copy starts
// active and carries no document dates.
func (s *jobService) DuplicateJob(ctx context.Context, id string) (JobResponse, error) {
	source, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return JobResponse{}, err
	}

	newID, err := s.insertWithNewID(ctx, func(txCtx context.Context, newID string) error {
		clone := cloneJob(source, newID)
		if err := s.jobRepo.Create(txCtx, clone); err != nil {
			return fmt.Errorf("failed to duplicate job: %w", err)
		}
		if _, _, err := s.recorder.reprice(txCtx, newID); err != nil {
			return err
		}
		return s.recorder.logActivity(txCtx, newID, model.ActionDuplicateJob, newID, map[string]string{"source_job_id": id})
	})
	if err != nil {
		return JobResponse{}, err
	}

	resp, job, err := s.load(ctx, newID)
	if err != nil {
		return JobResponse{}, err
	}
	s.recorder.publish(events.JobCreated, newID, job)
	return resp, nil
}

func cloneJob(src *model.Job, id string) *model.Job {
	clone := &model.Job{
		ID:           id,
		Name:         src.Name + " (Copy)",
		Organisation: src.Organisation,
		Address:      src.Address,
		Area:         src.Area,
		Postcode:     src.Postcode,
		Status:       model.JobStatusActive,
		Notes:        src.Notes,
	}

	for _, c := range src.Contacts {
		c.ID, c.JobID, c.CreatedAt, c.UpdatedAt = uuid.Nil, id, time.Time{}, time.Time{}
		clone.Contacts = append(clone.Contacts, c)
	}
	for _, sv := range src.Surveys {
		sv.ID, sv.JobID, sv.CreatedAt, sv.UpdatedAt = uuid.Nil, id, time.Time{}, time.Time{}
		clone.Surveys = append(clone.Surveys, sv)
	}
	for _, t := range src.Tasks {
		t.ID, t.JobID, t.CreatedAt, t.UpdatedAt = uuid.Nil, id, time.Time{}, time.Time{}
		clone.Tasks = append(clone.Tasks, t)
	}
	for _, b := range src.Blinds {
		b.ID, b.JobID, b.CreatedAt, b.UpdatedAt = uuid.Nil, id, time.Time{}, time.Time{}
		clone.Blinds = append(clone.Blinds, b)
	}

	cs := model.NewCostSummary(id)
	if src.CostSummary != nil {
		cs.Carriage = src.CostSummary.Carriage
		cs.FastTrack = src.CostSummary.FastTrack
		cs.VATRate = src.CostSummary.VATRate
		cs.ProfitRate = src.CostSummary.ProfitRate
		for _, ac := range src.CostSummary.AdditionalCosts {
			ac.ID, ac.JobID = uuid.Nil, id
			cs.AdditionalCosts = append(cs.AdditionalCosts, ac)
		}
	}
	clone.CostSummary = cs
	return clone
}

// --- Mappers ---

func toJobSummaryResponse(j *model.Job) JobSummaryResponse {
	total := "0.00"
	if j.CostSummary != nil {
		total = j.CostSummary.Total.StringFixed(2)
	}
	return JobSummaryResponse{
		ID:           j.ID,
		Name:         j.Name,
		Organisation: j.Organisation,
		Area:         j.Area,
		Postcode:     j.Postcode,
		Status:       string(j.Status),
		Total:        total,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func toJobResponse(j *model.Job, b costing.Breakdown) JobResponse {
	resp := JobResponse{
		ID:           j.ID,
		Name:         j.Name,
		Organisation: j.Organisation,
		Address:      j.Address,
		Area:         j.Area,
		Postcode:     j.Postcode,
		Status:       string(j.Status),
		Notes:        j.Notes,
		Contacts:     make([]ContactResponse, 0, len(j.Contacts)),
		Surveys:      make([]SurveyResponse, 0, len(j.Surveys)),
		Tasks:        make([]TaskResponse, 0, len(j.Tasks)),
		Blinds: BlindsResponse{
			Roller:   toBlindResponses(j.RollerBlinds()),
			Vertical: toBlindResponses(j.VerticalBlinds()),
			Venetian: toBlindResponses(j.VenetianBlinds()),
		},
		Costs:     toCostResponse(j.CostSummary, b),
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	for _, c := range j.Contacts {
		resp.Contacts = append(resp.Contacts, toContactResponse(c))
	}
	for _, sv := range j.Surveys {
		resp.Surveys = append(resp.Surveys, toSurveyResponse(sv))
	}
	for _, t := range j.Tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t))
	}
	return resp
}

func toBlindResponses(blinds []model.Blind) []BlindResponse {
	res := make([]BlindResponse, 0, len(blinds))
	for _, b := range blinds {
		res = append(res, toBlindResponse(b))
	}
	return res
}
