package service

import (
	"context"
	"testing"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/events"
	"blinds-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemService_BlindMutationsRefreshSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)
	blindID := job.Blinds.Roller[0].ID.String()

	snapshotTotal := func() string {
		stored, err := f.jobRepo.FindByID(ctx, job.ID)
		require.NoError(t, err)
		return stored.CostSummary.Total.StringFixed(2)
	}
	assert.Equal(t, "951.20", snapshotTotal())

	// one more unit at 245.50 adds 245.50 * 1.45 = 355.975
	updated, err := f.items.UpdateBlind(ctx, job.ID, "roller", blindID, BlindRequest{Location: "Kitchen", Width: 1200, Drop: 1500, Quantity: 3, Cost: d("245.50")})
	require.NoError(t, err)
	assert.Equal(t, "736.50", updated.LineTotal)
	assert.Equal(t, "1307.18", snapshotTotal())

	require.NoError(t, f.items.DeleteBlind(ctx, job.ID, "roller", blindID))
	// 75 + 90 = 165 pre VAT, * 1.45
	assert.Equal(t, "239.25", snapshotTotal())

	assert.Contains(t, f.published.types(), events.CostsUpdated)
	assert.Equal(t, int64(1), f.activityCount(t, job.ID, model.ActionUpdateBlind))
	assert.Equal(t, int64(1), f.activityCount(t, job.ID, model.ActionDeleteBlind))
}

func TestLineItemService_BlindCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Library"})
	require.NoError(t, err)

	vertical, err := f.items.AddBlind(ctx, job.ID, "Vertical", BlindRequest{Location: "Stairs", Width: 900, Drop: 2000, Cost: d("120")})
	require.NoError(t, err)
	assert.Equal(t, "vertical", vertical.Category)
	assert.Equal(t, 1, vertical.Quantity, "quantity defaults to one")

	_, err = f.items.UpdateBlind(ctx, job.ID, "roller", vertical.ID.String(), BlindRequest{Width: 1, Drop: 1, Quantity: 1})
	assert.ErrorIs(t, err, e.ErrNotFound, "a blind is addressed through its own category")

	_, err = f.items.AddBlind(ctx, job.ID, "pleated", BlindRequest{Width: 1, Drop: 1})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	dup, err := f.items.DuplicateBlind(ctx, job.ID, "vertical", vertical.ID.String())
	require.NoError(t, err)
	assert.NotEqual(t, vertical.ID, dup.ID)
	assert.Equal(t, "Stairs", dup.Location)

	got, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got.Blinds.Vertical, 2)
	assert.Equal(t, vertical.ID, got.Blinds.Vertical[0].ID)
	assert.Equal(t, dup.ID, got.Blinds.Vertical[1].ID)
	assert.Equal(t, "240.00", got.Costs.BlindsCost)
}

func TestLineItemService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Validation"})
	require.NoError(t, err)

	blindTests := []struct {
		name string
		req  BlindRequest
	}{
		{"zero width", BlindRequest{Width: 0, Drop: 10}},
		{"zero drop", BlindRequest{Width: 10, Drop: 0}},
		{"negative quantity", BlindRequest{Width: 10, Drop: 10, Quantity: -1}},
		{"negative cost", BlindRequest{Width: 10, Drop: 10, Cost: d("-1")}},
	}
	for _, tt := range blindTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.items.AddBlind(ctx, job.ID, "roller", tt.req)
			assert.ErrorIs(t, err, e.ErrInvalidInput)
		})
	}

	_, err = f.items.AddTask(ctx, job.ID, TaskRequest{Description: " ", Cost: d("1")})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = f.items.AddTask(ctx, job.ID, TaskRequest{Description: "Fit", DueDate: "01/02/2026"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = f.items.AddContact(ctx, job.ID, ContactRequest{Name: "Ann", Email: "not-an-email"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = f.items.AddSurvey(ctx, job.ID, SurveyRequest{Date: "2026-13-01"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = f.items.AddSurvey(ctx, job.ID, SurveyRequest{Time: "9:30"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = f.items.UpdateTask(ctx, job.ID, "not-a-uuid", TaskRequest{Description: "x"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_, err = f.items.AddBlind(ctx, "AAB0404", "roller", BlindRequest{Width: 1, Drop: 1})
	assert.ErrorIs(t, err, e.ErrNotFound)

	assert.Equal(t, []events.EventType{events.JobCreated}, f.published.types())
}

func TestLineItemService_Tasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Tasks"})
	require.NoError(t, err)

	task, err := f.items.AddTask(ctx, job.ID, TaskRequest{Description: "Removal", Cost: d("40"), DueDate: "2026-07-01"})
	require.NoError(t, err)
	assert.Equal(t, "pending", task.Status)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2026-07-01", *task.DueDate)

	task, err = f.items.UpdateTask(ctx, job.ID, task.ID.String(), TaskRequest{Description: "Removal", Cost: d("60"), Status: "done"})
	require.NoError(t, err)
	assert.Equal(t, "done", task.Status)
	assert.Nil(t, task.DueDate)

	costs, err := f.costs.GetBreakdown(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "60.00", costs.TasksCost)

	require.NoError(t, f.items.DeleteTask(ctx, job.ID, task.ID.String()))
	assert.ErrorIs(t, f.items.DeleteTask(ctx, job.ID, task.ID.String()), e.ErrNotFound)
	assert.ErrorIs(t, f.items.DeleteTask(ctx, job.ID, uuid.NewString()), e.ErrNotFound)
}

func TestLineItemService_MainContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Contacts"})
	require.NoError(t, err)

	ann, err := f.items.AddContact(ctx, job.ID, ContactRequest{Name: "Ann", IsMainContact: true})
	require.NoError(t, err)
	bob, err := f.items.AddContact(ctx, job.ID, ContactRequest{Name: "Bob", Email: "bob@example.com", IsMainContact: true})
	require.NoError(t, err)

	got, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got.Contacts, 2)
	assert.False(t, got.Contacts[0].IsMainContact)
	assert.True(t, got.Contacts[1].IsMainContact)

	_, err = f.items.UpdateContact(ctx, job.ID, ann.ID.String(), ContactRequest{Name: "Ann", IsMainContact: true})
	require.NoError(t, err)
	got, err = f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, got.Contacts[0].IsMainContact)
	assert.False(t, got.Contacts[1].IsMainContact)

	require.NoError(t, f.items.DeleteContact(ctx, job.ID, bob.ID.String()))
	assert.Equal(t, events.JobUpdated, f.published.types()[len(f.published.types())-1])
}

func TestLineItemService_Surveys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Surveys"})
	require.NoError(t, err)

	survey, err := f.items.AddSurvey(ctx, job.ID, SurveyRequest{Brief: "Measure up", Date: "2026-08-14", Time: "09:30"})
	require.NoError(t, err)
	require.NotNil(t, survey.Date)
	assert.Equal(t, "2026-08-14", *survey.Date)

	survey, err = f.items.UpdateSurvey(ctx, job.ID, survey.ID.String(), SurveyRequest{Brief: "Measure up", Date: "2026-08-15", Time: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, "14:00", survey.Time)

	require.NoError(t, f.items.DeleteSurvey(ctx, job.ID, survey.ID.String()))
	assert.Equal(t, int64(1), f.activityCount(t, job.ID, model.ActionAddSurvey))
	assert.Equal(t, int64(1), f.activityCount(t, job.ID, model.ActionDeleteSurvey))
}

func TestLineItemService_ContactEmailStoresBareAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Contacts"})
	require.NoError(t, err)

	ann, err := f.items.AddContact(ctx, job.ID, ContactRequest{Name: "Ann", Email: "Ann Smith <ann@example.com>"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", ann.Email)

	var stored model.Contact
	require.NoError(t, f.db.First(&stored, "id = ?", ann.ID).Error)
	assert.Equal(t, "ann@example.com", stored.Email)

	ann, err = f.items.UpdateContact(ctx, job.ID, ann.ID.String(), ContactRequest{Name: "Ann", Email: "\"Smith, Ann\" <a.smith@example.com>"})
	require.NoError(t, err)
	assert.Equal(t, "a.smith@example.com", ann.Email)
}

func TestLineItemService_RejectsSubPennyCosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Precision"})
	require.NoError(t, err)

	_, err = f.items.AddBlind(ctx, job.ID, "roller", BlindRequest{Width: 900, Drop: 1200, Cost: d("85.505")})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
	_, err = f.items.AddTask(ctx, job.ID, TaskRequest{Description: "Fitting", Cost: d("10.001")})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	blind, err := f.items.AddBlind(ctx, job.ID, "roller", BlindRequest{Width: 900, Drop: 1200, Cost: d("85.500")})
	require.NoError(t, err, "trailing zeros are still pennies")
	assert.Equal(t, "85.50", blind.Cost)
}
