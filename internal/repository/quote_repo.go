package repository

import (
	"context"
	"fmt"
	"strings"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"
	"blinds-backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuoteFilter narrows a quote listing. Search matches the quote id and the job's
// id, name and organisation.
type QuoteFilter struct {
	JobID  string
	Status model.QuoteStatus
	Search string
	Page   int
	Limit  int
}

type QuoteRepository interface {
	Create(ctx context.Context, quote *model.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error)
	List(ctx context.Context, filter QuoteFilter) ([]model.Quote, int64, error)
	Update(ctx context.Context, quote *model.Quote) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func withJob(db *gorm.DB) *gorm.DB {
	return db.Preload("Job").Preload("Job.CostSummary")
}

func (r *quoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(quote).Error
}

func (r *quoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Quote, error) {
	var quote model.Quote
	if err := withJob(GetDB(ctx, r.db)).First(&quote, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("quote %s: %w", id, translate(err))
	}
	return &quote, nil
}

func (r *quoteRepository) applyFilter(ctx context.Context, db *gorm.DB, filter QuoteFilter) *gorm.DB {
	if filter.JobID != "" {
		db = db.Where("job_id = ?", filter.JobID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		jobs := GetDB(ctx, r.db).Model(&model.Job{}).Select("id").
			Where("LOWER(id) LIKE ? OR LOWER(name) LIKE ? OR LOWER(organisation) LIKE ?", like, like, like)
		db = db.Where("LOWER(CAST(id AS TEXT)) LIKE ? OR job_id IN (?)", like, jobs)
	}
	return db
}

// List returns quotes newest first, each with its job and the job's cost summary.
func (r *quoteRepository) List(ctx context.Context, filter QuoteFilter) ([]model.Quote, int64, error) {
	var quotes []model.Quote
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.applyFilter(ctx, db.Model(&model.Quote{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := pagination.Params{Page: filter.Page, Limit: filter.Limit}
	if err := withJob(r.applyFilter(ctx, db.Model(&model.Quote{}), filter)).
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *quoteRepository) Update(ctx context.Context, quote *model.Quote) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(quote).Error
}

func (r *quoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Quote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("quote %s: %w", id, e.ErrNotFound)
	}
	return nil
}
