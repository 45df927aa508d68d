package service

import (
	"context"
	"testing"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/events"
	"blinds-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "  Riverside Surgery "})
	require.NoError(t, err)
	second, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Hillview School", Status: "Completed"})
	require.NoError(t, err)

	assert.Equal(t, "AAB0001", first.ID)
	assert.Equal(t, "AAB0002", second.ID)
	assert.Equal(t, "Riverside Surgery", first.Name)
	assert.Equal(t, "active", first.Status)
	assert.Equal(t, "completed", second.Status)

	assert.Equal(t, "20", first.Costs.VATRate)
	assert.Equal(t, "25", first.Costs.ProfitRate)
	assert.Equal(t, "0.00", first.Costs.GrandTotal)
	assert.Empty(t, first.Blinds.Roller)

	assert.Equal(t, []events.EventType{events.JobCreated, events.JobCreated}, f.published.types())
	assert.Equal(t, int64(1), f.activityCount(t, "AAB0001", model.ActionCreateJob))
}

func TestJobService_CreateJobValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateJobRequest
	}{
		{"blank name", CreateJobRequest{Name: "   "}},
		{"unknown status", CreateJobRequest{Name: "x", Status: "archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.jobs.CreateJob(ctx, tt.req)
			assert.ErrorIs(t, err, e.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.published.types())
}

func TestJobService_GetJob(t *testing.T) {
	f := newFixture(t)

	job := f.pricedJob(t)
	assert.Equal(t, "491.00", job.Costs.BlindsCost)
	assert.Equal(t, "75.00", job.Costs.TasksCost)
	assert.Equal(t, "566.00", job.Costs.Subtotal)
	assert.Equal(t, "90.00", job.Costs.AdditionalFlat)
	assert.Equal(t, "656.00", job.Costs.PreVATTotal)
	assert.Equal(t, "131.20", job.Costs.VATAmount)
	assert.Equal(t, "787.20", job.Costs.PreProfitTotal)
	assert.Equal(t, "164.00", job.Costs.ProfitAmount)
	assert.Equal(t, "951.20", job.Costs.GrandTotal)
	require.Len(t, job.Blinds.Roller, 1)
	assert.Equal(t, "491.00", job.Blinds.Roller[0].LineTotal)

	_, err := f.jobs.GetJob(context.Background(), "AAB0404")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestJobService_ListJobs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pricedJob(t)
	_, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Hillview School", Status: "cancelled"})
	require.NoError(t, err)

	all, total, err := f.jobs.ListJobs(ctx, "", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	active, total, err := f.jobs.ListJobs(ctx, "active", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, active, 1)
	assert.Equal(t, "951.20", active[0].Total, "list shows the stored snapshot")

	_, _, err = f.jobs.ListJobs(ctx, "bogus", "", 1, 20)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestJobService_UpdateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)

	updated, err := f.jobs.UpdateJob(ctx, job.ID, UpdateJobRequest{Status: ptr("completed"), Notes: ptr("Paid by BACS")})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "Paid by BACS", updated.Notes)
	assert.Equal(t, "Riverside Surgery", updated.Name, "unsent fields are kept")
	assert.Len(t, updated.Blinds.Roller, 1, "children survive a job update")

	_, err = f.jobs.UpdateJob(ctx, job.ID, UpdateJobRequest{Name: ptr("")})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = f.jobs.UpdateJob(ctx, "AAB0404", UpdateJobRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.Equal(t, int64(1), f.activityCount(t, job.ID, model.ActionUpdateJob))
}

func TestJobService_DeleteJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)

	require.NoError(t, f.jobs.DeleteJob(ctx, job.ID))
	_, err := f.jobs.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, e.ErrNotFound)
	assert.ErrorIs(t, f.jobs.DeleteJob(ctx, job.ID), e.ErrNotFound)

	types := f.published.types()
	assert.Equal(t, events.JobDeleted, types[len(types)-1])
	assert.Equal(t, int64(1), f.activityCount(t, job.ID, model.ActionDeleteJob))
}

func TestJobService_DuplicateJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	source := f.pricedJob(t)

	_, err := f.items.AddContact(ctx, source.ID, ContactRequest{Name: "Ann Smith", IsMainContact: true})
	require.NoError(t, err)
	_, err = f.jobs.UpdateJob(ctx, source.ID, UpdateJobRequest{Status: ptr("completed")})
	require.NoError(t, err)
	_, err = f.costs.UpdateCostSettings(ctx, source.ID, UpdateCostsRequest{InvoiceDate: ptr("2026-06-01")})
	require.NoError(t, err)

	copyJob, err := f.jobs.DuplicateJob(ctx, source.ID)
	require.NoError(t, err)

	assert.Equal(t, "AAB0002", copyJob.ID)
	assert.Equal(t, "Riverside Surgery (Copy)", copyJob.Name)
	assert.Equal(t, "active", copyJob.Status)
	assert.Equal(t, "NHS Trust", copyJob.Organisation)
	require.Len(t, copyJob.Blinds.Roller, 1)
	require.Len(t, copyJob.Contacts, 1)
	assert.True(t, copyJob.Contacts[0].IsMainContact)
	require.Len(t, copyJob.Tasks, 1)
	assert.Equal(t, "951.20", copyJob.Costs.GrandTotal)
	require.Len(t, copyJob.Costs.AdditionalCosts, 1)
	assert.Nil(t, copyJob.Costs.InvoiceDate)

	orig, err := f.jobs.GetJob(ctx, source.ID)
	require.NoError(t, err)
	assert.NotEqual(t, orig.Blinds.Roller[0].ID, copyJob.Blinds.Roller[0].ID)
	assert.NotNil(t, orig.Costs.InvoiceDate)

	_, err = f.jobs.DuplicateJob(ctx, "AAB0404")
	assert.ErrorIs(t, err, e.ErrNotFound)
}
