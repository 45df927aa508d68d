package repository

import (
	"context"
	"fmt"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineItemRepository stores the collections a job owns. Every lookup is scoped to
// the job so an item id from another job is reported as not found.
type LineItemRepository interface {
	CreateBlind(ctx context.Context, blind *model.Blind) error
	FindBlind(ctx context.Context, jobID string, id uuid.UUID) (*model.Blind, error)
	UpdateBlind(ctx context.Context, blind *model.Blind) error
	DeleteBlind(ctx context.Context, jobID string, id uuid.UUID) error

	CreateTask(ctx context.Context, task *model.Task) error
	FindTask(ctx context.Context, jobID string, id uuid.UUID) (*model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, jobID string, id uuid.UUID) error

	CreateContact(ctx context.Context, contact *model.Contact) error
	FindContact(ctx context.Context, jobID string, id uuid.UUID) (*model.Contact, error)
	UpdateContact(ctx context.Context, contact *model.Contact) error
	DeleteContact(ctx context.Context, jobID string, id uuid.UUID) error
	ClearMainContact(ctx context.Context, jobID string, except uuid.UUID) error

	CreateSurvey(ctx context.Context, survey *model.Survey) error
	FindSurvey(ctx context.Context, jobID string, id uuid.UUID) (*model.Survey, error)
	UpdateSurvey(ctx context.Context, survey *model.Survey) error
	DeleteSurvey(ctx context.Context, jobID string, id uuid.UUID) error
}

type lineItemRepository struct {
	db *gorm.DB
}

func NewLineItemRepository(db *gorm.DB) LineItemRepository {
	return &lineItemRepository{db: db}
}

func findOwned[T any](db *gorm.DB, jobID string, id uuid.UUID) (*T, error) {
	var item T
	if err := db.Where("job_id = ? AND id = ?", jobID, id).First(&item).Error; err != nil {
		return nil, fmt.Errorf("%T %s: %w", item, id, translate(err))
	}
	return &item, nil
}

func deleteOwned[T any](db *gorm.DB, jobID string, id uuid.UUID) error {
	res := db.Where("job_id = ? AND id = ?", jobID, id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%T %s: %w", *new(T), id, e.ErrNotFound)
	}
	return nil
}

// nextPosition is one past the highest position used in the job's collection.
func nextPosition[T any](db *gorm.DB, jobID string) (int, error) {
	var highest int
	if err := db.Model(new(T)).Where("job_id = ?", jobID).
		Select("COALESCE(MAX(position), -1)").Scan(&highest).Error; err != nil {
		return 0, err
	}
	return highest + 1, nil
}

// createOwned appends item to the end of its job's collection.
func createOwned[T any](db *gorm.DB, jobID string, item *T, setPosition func(int)) error {
	pos, err := nextPosition[T](db, jobID)
	if err != nil {
		return fmt.Errorf("failed to allocate position: %w", err)
	}
	setPosition(pos)
	return db.Create(item).Error
}

func (r *lineItemRepository) CreateBlind(ctx context.Context, blind *model.Blind) error {
	return createOwned(GetDB(ctx, r.db), blind.JobID, blind, func(p int) { blind.Position = p })
}

func (r *lineItemRepository) FindBlind(ctx context.Context, jobID string, id uuid.UUID) (*model.Blind, error) {
	return findOwned[model.Blind](GetDB(ctx, r.db), jobID, id)
}

func (r *lineItemRepository) UpdateBlind(ctx context.Context, blind *model.Blind) error {
	return GetDB(ctx, r.db).Save(blind).Error
}

func (r *lineItemRepository) DeleteBlind(ctx context.Context, jobID string, id uuid.UUID) error {
	return deleteOwned[model.Blind](GetDB(ctx, r.db), jobID, id)
}

func (r *lineItemRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return createOwned(GetDB(ctx, r.db), task.JobID, task, func(p int) { task.Position = p })
}

func (r *lineItemRepository) FindTask(ctx context.Context, jobID string, id uuid.UUID) (*model.Task, error) {
	return findOwned[model.Task](GetDB(ctx, r.db), jobID, id)
}

func (r *lineItemRepository) UpdateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Save(task).Error
}

func (r *lineItemRepository) DeleteTask(ctx context.Context, jobID string, id uuid.UUID) error {
	return deleteOwned[model.Task](GetDB(ctx, r.db), jobID, id)
}

func (r *lineItemRepository) CreateContact(ctx context.Context, contact *model.Contact) error {
	return createOwned(GetDB(ctx, r.db), contact.JobID, contact, func(p int) { contact.Position = p })
}

func (r *lineItemRepository) FindContact(ctx context.Context, jobID string, id uuid.UUID) (*model.Contact, error) {
	return findOwned[model.Contact](GetDB(ctx, r.db), jobID, id)
}

func (r *lineItemRepository) UpdateContact(ctx context.Context, contact *model.Contact) error {
	return GetDB(ctx, r.db).Save(contact).Error
}

func (r *lineItemRepository) DeleteContact(ctx context.Context, jobID string, id uuid.UUID) error {
	return deleteOwned[model.Contact](GetDB(ctx, r.db), jobID, id)
}

// ClearMainContact unsets the main-contact flag on every contact of the job except one.
func (r *lineItemRepository) ClearMainContact(ctx context.Context, jobID string, except uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Contact{}).
		Where("job_id = ? AND id <> ? AND is_main_contact = ?", jobID, except, true).
		Update("is_main_contact", false).Error
}

func (r *lineItemRepository) CreateSurvey(ctx context.Context, survey *model.Survey) error {
	return createOwned(GetDB(ctx, r.db), survey.JobID, survey, func(p int) { survey.Position = p })
}

func (r *lineItemRepository) FindSurvey(ctx context.Context, jobID string, id uuid.UUID) (*model.Survey, error) {
	return findOwned[model.Survey](GetDB(ctx, r.db), jobID, id)
}

func (r *lineItemRepository) UpdateSurvey(ctx context.Context, survey *model.Survey) error {
	return GetDB(ctx, r.db).Save(survey).Error
}

func (r *lineItemRepository) DeleteSurvey(ctx context.Context, jobID string, id uuid.UUID) error {
	return deleteOwned[model.Survey](GetDB(ctx, r.db), jobID, id)
}
