package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuoteService struct {
	service.QuoteService
	listFunc   func(ctx context.Context, jobID, status, search string, page, limit int) ([]service.QuoteResponse, int64, error)
	createFunc func(ctx context.Context, req service.CreateQuoteRequest) (service.QuoteResponse, error)
	updateFunc func(ctx context.Context, id string, req service.UpdateQuoteRequest) (service.QuoteResponse, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (f *fakeQuoteService) ListQuotes(ctx context.Context, jobID, status, search string, page, limit int) ([]service.QuoteResponse, int64, error) {
	return f.listFunc(ctx, jobID, status, search, page, limit)
}

func (f *fakeQuoteService) CreateQuote(ctx context.Context, req service.CreateQuoteRequest) (service.QuoteResponse, error) {
	return f.createFunc(ctx, req)
}

func (f *fakeQuoteService) UpdateQuote(ctx context.Context, id string, req service.UpdateQuoteRequest) (service.QuoteResponse, error) {
	return f.updateFunc(ctx, id, req)
}

func (f *fakeQuoteService) DeleteQuote(ctx context.Context, id string) error {
	return f.deleteFunc(ctx, id)
}

func TestQuoteHandler_ListQuotes(t *testing.T) {
	var gotJob, gotStatus, gotSearch string
	var gotPage, gotLimit int
	quotes := &fakeQuoteService{
		listFunc: func(_ context.Context, jobID, status, search string, page, limit int) ([]service.QuoteResponse, int64, error) {
			gotJob, gotStatus, gotSearch, gotPage, gotLimit = jobID, status, search, page, limit
			return []service.QuoteResponse{{JobID: "AAB0001", Status: "sent", Total: "951.20"}}, 12, nil
		},
	}
	r := newRouter(NewQuoteHandler(quotes).RegisterRoutes)

	w := do(t, r, http.MethodGet, "/api/quotes?job_id=AAB0001&status=sent&search=surgery&page=2&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AAB0001", gotJob)
	assert.Equal(t, "sent", gotStatus)
	assert.Equal(t, "surgery", gotSearch)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 5, gotLimit)

	resp := decode(t, w)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(12), resp.Pagination.Total)
	assert.Equal(t, int64(3), resp.Pagination.TotalPages)
	assert.Contains(t, w.Body.String(), `"total":"951.20"`)
}

func TestQuoteHandler_CreateQuote(t *testing.T) {
	quotes := &fakeQuoteService{
		createFunc: func(_ context.Context, req service.CreateQuoteRequest) (service.QuoteResponse, error) {
			if req.JobID == "AAB0099" {
				return service.QuoteResponse{}, fmt.Errorf("job %s: %w", req.JobID, e.ErrNotFound)
			}
			return service.QuoteResponse{ID: uuid.New(), JobID: req.JobID, Status: "draft"}, nil
		},
	}
	r := newRouter(NewQuoteHandler(quotes).RegisterRoutes)

	w := do(t, r, http.MethodPost, "/api/quotes", service.CreateQuoteRequest{JobID: "AAB0001"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"draft"`)

	w = do(t, r, http.MethodPost, "/api/quotes", map[string]string{"notes": "no job"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/quotes", service.CreateQuoteRequest{JobID: "AAB0099"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuoteHandler_UpdateAndDelete(t *testing.T) {
	id := uuid.New()
	var gotID string
	var gotStatus *string
	quotes := &fakeQuoteService{
		updateFunc: func(_ context.Context, quoteID string, req service.UpdateQuoteRequest) (service.QuoteResponse, error) {
			gotID, gotStatus = quoteID, req.Status
			if *req.Status == "lost" {
				return service.QuoteResponse{}, fmt.Errorf("%w: bad status", e.ErrInvalidInput)
			}
			return service.QuoteResponse{ID: id, Status: *req.Status}, nil
		},
		deleteFunc: func(_ context.Context, quoteID string) error {
			return fmt.Errorf("quote %s: %w", quoteID, e.ErrNotFound)
		},
	}
	r := newRouter(NewQuoteHandler(quotes).RegisterRoutes)

	w := do(t, r, http.MethodPut, "/api/quotes/"+id.String(), map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), gotID)
	require.NotNil(t, gotStatus)
	assert.Equal(t, "accepted", *gotStatus)

	w = do(t, r, http.MethodPut, "/api/quotes/"+id.String(), map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodDelete, "/api/quotes/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
