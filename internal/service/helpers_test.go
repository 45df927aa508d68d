package service

import (
	"context"
	"sync"
	"testing"

	"blinds-backend/internal/config"
	"blinds-backend/internal/document"
	"blinds-backend/internal/events"
	"blinds-backend/internal/model"
	"blinds-backend/internal/render"
	"blinds-backend/internal/repository"
	"blinds-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	db        *gorm.DB
	jobs      JobService
	items     LineItemService
	costs     CostService
	profiles  ProfileService
	documents DocumentService
	reports   ReportService
	activity  ActivityService
	quotes    QuoteService
	jobRepo   repository.JobRepository
	published *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	jobRepo := repository.NewJobRepository(db)
	itemRepo := repository.NewLineItemRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	tx := repository.NewTransactionManager(db)
	pub := &recordingPublisher{}

	profiles := NewProfileService(repository.NewProfileRepository(db), config.DefaultCompanyProfile())
	return &fixture{
		db:        db,
		jobs:      NewJobService(jobRepo, activityRepo, tx, pub, "AAB"),
		items:     NewLineItemService(jobRepo, itemRepo, activityRepo, tx, pub),
		costs:     NewCostService(jobRepo, activityRepo, tx, pub),
		profiles:  profiles,
		documents: NewDocumentService(jobRepo, activityRepo, profiles, document.NewComposer(), render.NewPDF(zaptest.NewLogger(t)), zaptest.NewLogger(t)),
		reports:   NewReportService(jobRepo, repository.NewReportRepository(db)),
		activity:  NewActivityService(jobRepo, activityRepo),
		quotes:    NewQuoteService(repository.NewQuoteRepository(db), jobRepo, activityRepo, tx),
		jobRepo:   jobRepo,
		published: pub,
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

// pricedJob builds the reference job: blinds 491.00, tasks 75.00, flat extras 90.00
// at 20% VAT and 25% profit, which totals 951.20.
func (f *fixture) pricedJob(t *testing.T) JobResponse {
	ctx := context.Background()
	job, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Riverside Surgery", Organisation: "NHS Trust", Address: "1 River Road\nTownsville", Postcode: "TV1 2AB"})
	require.NoError(t, err)

	_, err = f.items.AddBlind(ctx, job.ID, "roller", BlindRequest{Location: "Kitchen", Width: 1200, Drop: 1500, Quantity: 2, Cost: d("245.50")})
	require.NoError(t, err)
	_, err = f.items.AddTask(ctx, job.ID, TaskRequest{Description: "Fitting", Cost: d("75")})
	require.NoError(t, err)
	_, err = f.costs.UpdateCostSettings(ctx, job.ID, UpdateCostsRequest{
		Carriage:        ptr(d("25")),
		FastTrack:       ptr(d("50")),
		AdditionalCosts: &[]AdditionalCostPayload{{Description: "Parking", Amount: d("15")}},
	})
	require.NoError(t, err)

	got, err := f.jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) activityCount(t *testing.T, jobID, action string) int64 {
	var n int64
	require.NoError(t, f.db.Model(&model.ActivityLog{}).Where("job_id = ? AND action = ?", jobID, action).Count(&n).Error)
	return n
}
