package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blinds-backend/internal/model"
	"blinds-backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateQuoteRequest struct {
	JobID      string `json:"job_id" binding:"required"`
	ValidUntil string `json:"valid_until"` // YYYY-MM-DD, defaults to 30 days from today
	Notes      string `json:"notes"`
}

type UpdateQuoteRequest struct {
	Status     *string `json:"status"`
	ValidUntil *string `json:"valid_until"`
	Notes      *string `json:"notes"`
}

type QuoteResponse struct {
	ID         uuid.UUID `json:"id"`
	JobID      string    `json:"job_id"`
	JobName    string    `json:"job_name"`
	Client     string    `json:"client"`
	Status     string    `json:"status"`
	ValidUntil string    `json:"valid_until"`
	Expired    bool      `json:"expired"`
	Total      string    `json:"total"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// --- Interface ---

type QuoteService interface {
	CreateQuote(ctx context.Context, req CreateQuoteRequest) (QuoteResponse, error)
	GetQuote(ctx context.Context, id string) (QuoteResponse, error)
	ListQuotes(ctx context.Context, jobID, status, search string, page, limit int) ([]QuoteResponse, int64, error)
	UpdateQuote(ctx context.Context, id string, req UpdateQuoteRequest) (QuoteResponse, error)
	DeleteQuote(ctx context.Context, id string) error
}

// --- Implementation ---

type quoteService struct {
	quoteRepo repository.QuoteRepository
	jobRepo   repository.JobRepository
	txManager repository.TransactionManager
	recorder  recorder
	now       func() time.Time
}

func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	jobRepo repository.JobRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
) QuoteService {
	return &quoteService{
		quoteRepo: quoteRepo,
		jobRepo:   jobRepo,
		txManager: txManager,
		recorder:  newRecorder(jobRepo, activityRepo, nil),
		now:       time.Now,
	}
}

func parseQuoteStatus(raw string) (model.QuoteStatus, error) {
	status := model.QuoteStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", invalid("status must be one of: draft, sent, accepted, rejected")
	}
	return status, nil
}

func parseQuoteID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid("invalid quote ID")
	}
	return id, nil
}

func (s *quoteService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *quoteService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (QuoteResponse, error) {
	validUntil := s.today().AddDate(0, 0, model.QuoteValidityDays)
	if req.ValidUntil != "" {
		parsed, err := parseDate("valid_until", req.ValidUntil)
		if err != nil {
			return QuoteResponse{}, err
		}
		if parsed.Before(s.today()) {
			return QuoteResponse{}, invalid("valid_until cannot be in the past")
		}
		validUntil = *parsed
	}

	quote := &model.Quote{
		JobID:      req.JobID,
		Status:     model.QuoteStatusDraft,
		ValidUntil: validUntil,
		Notes:      req.Notes,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.jobRepo.FindByID(txCtx, req.JobID); err != nil {
			return err
		}
		if err := s.quoteRepo.Create(txCtx, quote); err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}
		return s.recorder.logActivity(txCtx, req.JobID, model.ActionCreateQuote, quote.ID.String(), req)
	})
	if err != nil {
		return QuoteResponse{}, err
	}

	return s.GetQuote(ctx, quote.ID.String())
}

func (s *quoteService) GetQuote(ctx context.Context, id string) (QuoteResponse, error) {
	quoteID, err := parseQuoteID(id)
	if err != nil {
		return QuoteResponse{}, err
	}
	quote, err := s.quoteRepo.FindByID(ctx, quoteID)
	if err != nil {
		return QuoteResponse{}, err
	}
	return toQuoteResponse(quote, s.now()), nil
}

func (s *quoteService) ListQuotes(ctx context.Context, jobID, status, search string, page, limit int) ([]QuoteResponse, int64, error) {
	filter := repository.QuoteFilter{JobID: jobID, Search: search, Page: page, Limit: limit}
	if status != "" {
		parsed, err := parseQuoteStatus(status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = parsed
	}

	quotes, total, err := s.quoteRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quotes: %w", err)
	}

	now := s.now()
	res := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		res = append(res, toQuoteResponse(&quotes[i], now))
	}
	return res, total, nil
}

// UpdateQuote changes the fields that are sent. Any status may follow any other, so a
// rejected quote can be reopened as a draft.
func (s *quoteService) UpdateQuote(ctx context.Context, id string, req UpdateQuoteRequest) (QuoteResponse, error) {
	quoteID, err := parseQuoteID(id)
	if err != nil {
		return QuoteResponse{}, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quote, err := s.quoteRepo.FindByID(txCtx, quoteID)
		if err != nil {
			return err
		}

		if req.Status != nil {
			status, err := parseQuoteStatus(*req.Status)
			if err != nil {
				return err
			}
			quote.Status = status
		}
		if req.ValidUntil != nil {
			parsed, err := parseDate("valid_until", *req.ValidUntil)
			if err != nil {
				return err
			}
			if parsed == nil {
				return invalid("valid_until cannot be cleared")
			}
			quote.ValidUntil = *parsed
		}
		if req.Notes != nil {
			quote.Notes = *req.Notes
		}

		if err := s.quoteRepo.Update(txCtx, quote); err != nil {
			return fmt.Errorf("failed to update quote: %w", err)
		}
		return s.recorder.logActivity(txCtx, quote.JobID, model.ActionUpdateQuote, quote.ID.String(), req)
	})
	if err != nil {
		return QuoteResponse{}, err
	}

	return s.GetQuote(ctx, id)
}

func (s *quoteService) DeleteQuote(ctx context.Context, id string) error {
	quoteID, err := parseQuoteID(id)
	if err != nil {
		return err
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		quote, err := s.quoteRepo.FindByID(txCtx, quoteID)
		if err != nil {
			return err
		}
		if err := s.quoteRepo.Delete(txCtx, quoteID); err != nil {
			return err
		}
		return s.recorder.logActivity(txCtx, quote.JobID, model.ActionDeleteQuote, quote.ID.String(), nil)
	})
}

// --- Mappers ---

// toQuoteResponse prices the quote from the job's cached snapshot.
func toQuoteResponse(q *model.Quote, now time.Time) QuoteResponse {
	resp := QuoteResponse{
		ID:         q.ID,
		JobID:      q.JobID,
		Status:     string(q.Status),
		ValidUntil: q.ValidUntil.Format(dateLayout),
		Expired:    q.Expired(now),
		Total:      "0.00",
		Notes:      q.Notes,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
	if q.Job != nil {
		resp.JobName = q.Job.Name
		resp.Client = q.Job.Organisation
		if q.Job.CostSummary != nil {
			resp.Total = q.Job.CostSummary.Total.StringFixed(2)
		}
	}
	return resp
}
