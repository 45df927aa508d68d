package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLineItemService struct {
	service.LineItemService
	calls []string
}

func (f *fakeLineItemService) AddBlind(_ context.Context, jobID, category string, req service.BlindRequest) (service.BlindResponse, error) {
	f.calls = append(f.calls, "add "+jobID+" "+category)
	if category == "roman" {
		return service.BlindResponse{}, fmt.Errorf("%w: category must be one of: roller, vertical, venetian", e.ErrInvalidInput)
	}
	return service.BlindResponse{Category: category, Width: req.Width, Drop: req.Drop, Cost: req.Cost.StringFixed(2)}, nil
}

func (f *fakeLineItemService) DuplicateBlind(_ context.Context, jobID, category, itemID string) (service.BlindResponse, error) {
	f.calls = append(f.calls, "duplicate "+jobID+" "+category+" "+itemID)
	return service.BlindResponse{Category: category}, nil
}

func (f *fakeLineItemService) DeleteTask(_ context.Context, jobID, itemID string) error {
	f.calls = append(f.calls, "delete task "+jobID+" "+itemID)
	return fmt.Errorf("task %s: %w", itemID, e.ErrNotFound)
}

func TestLineItemHandler_Blinds(t *testing.T) {
	items := &fakeLineItemService{}
	r := newRouter(NewLineItemHandler(items).RegisterRoutes)

	w := do(t, r, http.MethodPost, "/api/jobs/AAB0001/blinds/roller", service.BlindRequest{
		Location: "Hall", Width: 1200, Drop: 1500, Cost: decimal.RequireFromString("85.50"),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"cost":"85.50"`)

	w = do(t, r, http.MethodPost, "/api/jobs/AAB0001/blinds/roller", map[string]int{"width": 0, "drop": 1500})
	assert.Equal(t, http.StatusBadRequest, w.Code, "zero width fails binding")

	w = do(t, r, http.MethodPost, "/api/jobs/AAB0001/blinds/roman", service.BlindRequest{Width: 1, Drop: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/jobs/AAB0001/blinds/venetian/7d6c/duplicate", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, []string{
		"add AAB0001 roller",
		"add AAB0001 roman",
		"duplicate AAB0001 venetian 7d6c",
	}, items.calls)
}

func TestLineItemHandler_DeleteMissingTask(t *testing.T) {
	items := &fakeLineItemService{}
	r := newRouter(NewLineItemHandler(items).RegisterRoutes)

	w := do(t, r, http.MethodDelete, "/api/jobs/AAB0001/tasks/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "task nope: not found", decode(t, w).Error)
}
