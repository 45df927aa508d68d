package repository

import (
	"context"

	"blinds-backend/internal/model"
	"blinds-backend/pkg/pagination"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Log(ctx context.Context, entry *model.ActivityLog) error
	ListByJob(ctx context.Context, jobID string, page, limit int) ([]model.ActivityLog, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Log(ctx context.Context, entry *model.ActivityLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// ListByJob returns the job's history, newest first.
func (r *activityRepository) ListByJob(ctx context.Context, jobID string, page, limit int) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.ActivityLog{}).Where("job_id = ?", jobID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := pagination.Params{Page: page, Limit: limit}
	if err := db.Where("job_id = ?", jobID).Order("created_at desc").Offset(p.Offset()).Limit(p.Limit).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
