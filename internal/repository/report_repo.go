package repository

import (
	"context"
	"fmt"
	"time"

	"blinds-backend/internal/model"

	"gorm.io/gorm"
)

// StatusTotalsRow is a raw per-status aggregate. Money columns come back as text so
// neither driver rounds them through float64.
type StatusTotalsRow struct {
	Status   model.JobStatus
	JobCount int64
	Total    string
	VAT      string
	Profit   string
}

type ReportRepository interface {
	TotalsByStatus(ctx context.Context, start, end time.Time) ([]StatusTotalsRow, error)
	TopLocations(ctx context.Context, start, end time.Time, limit int) ([]model.BlindLocation, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// TotalsByStatus sums the cached cost snapshots of jobs created in [start, end].
// Jobs without a cost summary still count towards the job total.
func (r *reportRepository) TotalsByStatus(ctx context.Context, start, end time.Time) ([]StatusTotalsRow, error) {
	var rows []StatusTotalsRow
	if err := GetDB(ctx, r.db).Table("jobs").
		Select("jobs.status as status, COUNT(jobs.id) as job_count, " +
			"COALESCE(CAST(SUM(cost_summaries.total) AS TEXT), '0') as total, " +
			"COALESCE(CAST(SUM(cost_summaries.vat) AS TEXT), '0') as vat, " +
			"COALESCE(CAST(SUM(cost_summaries.profit) AS TEXT), '0') as profit").
		Joins("LEFT JOIN cost_summaries ON cost_summaries.job_id = jobs.id").
		Where("jobs.created_at >= ? AND jobs.created_at <= ?", start, end).
		Group("jobs.status").
		Order("jobs.status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query totals by status: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) TopLocations(ctx context.Context, start, end time.Time, limit int) ([]model.BlindLocation, error) {
	var locations []model.BlindLocation
	if err := GetDB(ctx, r.db).Table("blinds").
		Select("blinds.location as location, SUM(blinds.quantity) as total_quantity, " +
			"COALESCE(CAST(SUM(blinds.quantity * blinds.cost) AS TEXT), '0') as total_value").
		Joins("JOIN jobs ON jobs.id = blinds.job_id").
		Where("jobs.created_at >= ? AND jobs.created_at <= ? AND blinds.location <> ''", start, end).
		Group("blinds.location").
		Order("total_quantity DESC").
		Limit(limit).
		Scan(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to query top locations: %w", err)
	}
	return locations, nil
}
