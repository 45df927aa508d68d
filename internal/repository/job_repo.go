package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"
	"blinds-backend/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobFilter narrows a job listing. Zero values mean "no filter".
type JobFilter struct {
	Status model.JobStatus
	Search string
	Page   int
	Limit  int
}

type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context, filter JobFilter) ([]model.Job, int64, error)
	ListAll(ctx context.Context) ([]model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	NextID(ctx context.Context, prefix string) (string, error)
	SaveCostSummary(ctx context.Context, cs *model.CostSummary) error
	ReplaceAdditionalCosts(ctx context.Context, jobID string, costs []model.AdditionalCost) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// withAggregate preloads everything a job owns, each list in insertion order.
func withAggregate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Contacts", byPosition).
		Preload("Surveys", byPosition).
		Preload("Tasks", byPosition).
		Preload("Blinds", byPosition).
		Preload("CostSummary").
		Preload("CostSummary.AdditionalCosts", byPosition)
}

// Create inserts the job together with any owned records already attached to it.
func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return translate(GetDB(ctx, r.db).Create(job).Error)
}

func (r *jobRepository) FindByID(ctx context.Context, id string) (*model.Job, error) {
	var job model.Job
	if err := withAggregate(GetDB(ctx, r.db)).First(&job, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("job %s: %w", id, translate(err))
	}
	return &job, nil
}

func (r *jobRepository) applyFilter(db *gorm.DB, filter JobFilter) *gorm.DB {
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		db = db.Where("LOWER(id) LIKE ? OR LOWER(name) LIKE ? OR LOWER(organisation) LIKE ?", like, like, like)
	}
	return db
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.applyFilter(db.Model(&model.Job{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := pagination.Params{Page: filter.Page, Limit: filter.Limit}
	if err := r.applyFilter(db.Model(&model.Job{}), filter).
		Preload("CostSummary").
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepository) ListAll(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := withAggregate(GetDB(ctx, r.db)).Order("id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Update writes the job's own columns; owned collections are left alone.
func (r *jobRepository) Update(ctx context.Context, job *model.Job) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(job).Error
}

// Touch bumps updated_at after a change to something the job owns.
func (r *jobRepository) Touch(ctx context.Context, id string) error {
	res := GetDB(ctx, r.db).Model(&model.Job{}).Where("id = ?", id).Update("updated_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job %s: %w", id, e.ErrNotFound)
	}
	return nil
}

// Delete removes the job and everything it owns.
func (r *jobRepository) Delete(ctx context.Context, id string) error {
	db := GetDB(ctx, r.db)
	owned := []interface{}{
		&model.Blind{}, &model.Task{}, &model.Contact{}, &model.Survey{},
		&model.AdditionalCost{}, &model.CostSummary{}, &model.Quote{},
	}
	for _, m := range owned {
		if err := db.Where("job_id = ?", id).Delete(m).Error; err != nil {
			return fmt.Errorf("failed to delete %T of job %s: %w", m, id, err)
		}
	}

	res := db.Where("id = ?", id).Delete(&model.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("job %s: %w", id, e.ErrNotFound)
	}
	return nil
}

// NextID returns prefix followed by the next free sequence number, zero padded to four digits.
func (r *jobRepository) NextID(ctx context.Context, prefix string) (string, error) {
	var ids []string
	if err := GetDB(ctx, r.db).Model(&model.Job{}).Where("id LIKE ?", prefix+"%").Pluck("id", &ids).Error; err != nil {
		return "", err
	}

	highest := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, highest+1), nil
}

func (r *jobRepository) SaveCostSummary(ctx context.Context, cs *model.CostSummary) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(cs).Error
}

// ReplaceAdditionalCosts swaps the job's additional costs for the given list, keeping its order.
func (r *jobRepository) ReplaceAdditionalCosts(ctx context.Context, jobID string, costs []model.AdditionalCost) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("job_id = ?", jobID).Delete(&model.AdditionalCost{}).Error; err != nil {
		return fmt.Errorf("failed to clear additional costs: %w", err)
	}
	if len(costs) == 0 {
		return nil
	}
	for i := range costs {
		costs[i].JobID = jobID
		costs[i].Position = i
	}
	return db.Create(&costs).Error
}
