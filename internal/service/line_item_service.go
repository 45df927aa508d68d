package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/events"
	"blinds-backend/internal/model"
	"blinds-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// --- DTOs ---

type BlindRequest struct {
	Location string          `json:"location"`
	Width    int             `json:"width" binding:"required,gt=0"`
	Drop     int             `json:"drop" binding:"required,gt=0"`
	Quantity int             `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	Notes    string          `json:"notes"`
}

type BlindResponse struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Location  string    `json:"location"`
	Width     int       `json:"width"`
	Drop      int       `json:"drop"`
	Quantity  int       `json:"quantity"`
	Cost      string    `json:"cost"`
	LineTotal string    `json:"line_total"`
	Notes     string    `json:"notes"`
}

type TaskRequest struct {
	Description string          `json:"description" binding:"required"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"`
	DueDate     string          `json:"due_date"` // YYYY-MM-DD
	AssignedTo  string          `json:"assigned_to"`
	Notes       string          `json:"notes"`
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Cost        string    `json:"cost"`
	Status      string    `json:"status"`
	DueDate     *string   `json:"due_date"`
	AssignedTo  string    `json:"assigned_to"`
	Notes       string    `json:"notes"`
}

type ContactRequest struct {
	Name          string `json:"name" binding:"required"`
	Organisation  string `json:"organisation"`
	Address       string `json:"address"`
	Area          string `json:"area"`
	Postcode      string `json:"postcode"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	IsMainContact bool   `json:"is_main_contact"`
	Notes         string `json:"notes"`
}

type ContactResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Organisation  string    `json:"organisation"`
	Address       string    `json:"address"`
	Area          string    `json:"area"`
	Postcode      string    `json:"postcode"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	IsMainContact bool      `json:"is_main_contact"`
	Notes         string    `json:"notes"`
}

type SurveyRequest struct {
	Brief string `json:"brief"`
	Date  string `json:"date"` // YYYY-MM-DD
	Time  string `json:"time"` // HH:MM
	Notes string `json:"notes"`
}

type SurveyResponse struct {
	ID    uuid.UUID `json:"id"`
	Brief string    `json:"brief"`
	Date  *string   `json:"date"`
	Time  string    `json:"time"`
	Notes string    `json:"notes"`
}

// --- Interface ---

type LineItemService interface {
	AddBlind(ctx context.Context, jobID, category string, req BlindRequest) (BlindResponse, error)
	UpdateBlind(ctx context.Context, jobID, category, itemID string, req BlindRequest) (BlindResponse, error)
	DeleteBlind(ctx context.Context, jobID, category, itemID string) error
	DuplicateBlind(ctx context.Context, jobID, category, itemID string) (BlindResponse, error)

	AddTask(ctx context.Context, jobID string, req TaskRequest) (TaskResponse, error)
	UpdateTask(ctx context.Context, jobID, itemID string, req TaskRequest) (TaskResponse, error)
	DeleteTask(ctx context.Context, jobID, itemID string) error

	AddContact(ctx context.Context, jobID string, req ContactRequest) (ContactResponse, error)
	UpdateContact(ctx context.Context, jobID, itemID string, req ContactRequest) (ContactResponse, error)
	DeleteContact(ctx context.Context, jobID, itemID string) error

	AddSurvey(ctx context.Context, jobID string, req SurveyRequest) (SurveyResponse, error)
	UpdateSurvey(ctx context.Context, jobID, itemID string, req SurveyRequest) (SurveyResponse, error)
	DeleteSurvey(ctx context.Context, jobID, itemID string) error
}

// --- Implementation ---

type lineItemService struct {
	jobRepo   repository.JobRepository
	itemRepo  repository.LineItemRepository
	txManager repository.TransactionManager
	recorder  recorder
}

func NewLineItemService(
	jobRepo repository.JobRepository,
	itemRepo repository.LineItemRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	publisher events.Publisher,
) LineItemService {
	return &lineItemService{
		jobRepo:   jobRepo,
		itemRepo:  itemRepo,
		txManager: txManager,
		recorder:  newRecorder(jobRepo, activityRepo, publisher),
	}
}

// mutate runs fn in a transaction on an existing job and records the change. Priced
// changes also refresh the cost snapshot before commit.
func (s *lineItemService) mutate(ctx context.Context, jobID, action string, priced bool, fn func(txCtx context.Context) (entityID string, details interface{}, err error)) error {
	var job *model.Job
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.jobRepo.Touch(txCtx, jobID); err != nil {
			return err
		}
		entityID, details, err := fn(txCtx)
		if err != nil {
			return err
		}
		if err := s.recorder.logActivity(txCtx, jobID, action, entityID, details); err != nil {
			return err
		}
		if priced {
			job, _, err = s.recorder.reprice(txCtx, jobID)
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	if priced {
		s.recorder.publish(events.CostsUpdated, jobID, job)
	} else {
		s.recorder.publish(events.JobUpdated, jobID, nil)
	}
	return nil
}

// --- Validation helpers ---

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", e.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func parseCategory(raw string) (model.BlindCategory, error) {
	category := model.BlindCategory(strings.ToLower(raw))
	if !category.Valid() {
		return "", invalid("category must be one of: roller, vertical, venetian")
	}
	return category, nil
}

func parseItemID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid("invalid item ID")
	}
	return id, nil
}

func parseDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, invalid("%s must be in YYYY-MM-DD format", field)
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func validateBlind(req *BlindRequest) error {
	if req.Width <= 0 {
		return invalid("width must be greater than 0")
	}
	if req.Drop <= 0 {
		return invalid("drop must be greater than 0")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		return invalid("quantity must be at least 1")
	}
	if req.Cost.IsNegative() {
		return invalid("cost cannot be negative")
	}
	return checkPrecision("cost", req.Cost)
}

func validateTask(req TaskRequest) (*time.Time, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, invalid("description is required")
	}
	if req.Cost.IsNegative() {
		return nil, invalid("cost cannot be negative")
	}
	if err := checkPrecision("cost", req.Cost); err != nil {
		return nil, err
	}
	return parseDate("due_date", req.DueDate)
}

// normalizeEmail reduces a display-name form such as "Ann Smith <ann@example.com>"
// to the bare address.
func normalizeEmail(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", invalid("invalid email format")
	}
	return addr.Address, nil
}

// checkPrecision rejects amounts finer than the two decimal places the money and
// rate columns store.
func checkPrecision(field string, v decimal.Decimal) error {
	if v.Exponent() < -2 && !v.Equal(v.Round(2)) {
		return invalid("%s must have at most 2 decimal places", field)
	}
	return nil
}

func validateContact(req *ContactRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return invalid("name is required")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	req.Email = email
	return nil
}

func validateSurvey(req SurveyRequest) (*time.Time, error) {
	if req.Time != "" {
		if _, err := time.Parse(timeLayout, req.Time); err != nil || len(req.Time) != len(timeLayout) {
			return nil, invalid("time must be in HH:MM format")
		}
	}
	return parseDate("date", req.Date)
}

// --- Blinds ---

func applyBlind(b *model.Blind, req BlindRequest) {
	b.Location = req.Location
	b.Width = req.Width
	b.Drop = req.Drop
	b.Quantity = req.Quantity
	b.Cost = req.Cost
	b.Notes = req.Notes
}

func (s *lineItemService) AddBlind(ctx context.Context, jobID, category string, req BlindRequest) (BlindResponse, error) {
	cat, err := parseCategory(category)
	if err != nil {
		return BlindResponse{}, err
	}
	if err := validateBlind(&req); err != nil {
		return BlindResponse{}, err
	}

	blind := &model.Blind{JobID: jobID, Category: cat}
	applyBlind(blind, req)
	err = s.mutate(ctx, jobID, model.ActionAddBlind, true, func(txCtx context.Context) (string, interface{}, error) {
		if err := s.itemRepo.CreateBlind(txCtx, blind); err != nil {
			return "", nil, fmt.Errorf("failed to add blind: %w", err)
		}
		return blind.ID.String(), req, nil
	})
	if err != nil {
		return BlindResponse{}, err
	}
	return toBlindResponse(*blind), nil
}

func (s *lineItemService) findBlind(ctx context.Context, jobID, category, itemID string) (*model.Blind, error) {
	cat, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	id, err := parseItemID(itemID)
	if err != nil {
		return nil, err
	}
	blind, err := s.itemRepo.FindBlind(ctx, jobID, id)
	if err != nil {
		return nil, err
	}
	if blind.Category != cat {
		return nil, fmt.Errorf("%s blind %s: %w", cat, id, e.ErrNotFound)
	}
	return blind, nil
}

func (s *lineItemService) UpdateBlind(ctx context.Context, jobID, category, itemID string, req BlindRequest) (BlindResponse, error) {
	if err := validateBlind(&req); err != nil {
		return BlindResponse{}, err
	}

	var blind *model.Blind
	err := s.mutate(ctx, jobID, model.ActionUpdateBlind, true, func(txCtx context.Context) (string, interface{}, error) {
		var err error
		if blind, err = s.findBlind(txCtx, jobID, category, itemID); err != nil {
			return "", nil, err
		}
		applyBlind(blind, req)
		if err := s.itemRepo.UpdateBlind(txCtx, blind); err != nil {
			return "", nil, fmt.Errorf("failed to update blind: %w", err)
		}
		return blind.ID.String(), req, nil
	})
	if err != nil {
		return BlindResponse{}, err
	}
	return toBlindResponse(*blind), nil
}

func (s *lineItemService) DeleteBlind(ctx context.Context, jobID, category, itemID string) error {
	return s.mutate(ctx, jobID, model.ActionDeleteBlind, true, func(txCtx context.Context) (string, interface{}, error) {
		blind, err := s.findBlind(txCtx, jobID, category, itemID)
		if err != nil {
			return "", nil, err
		}
		if err := s.itemRepo.DeleteBlind(txCtx, jobID, blind.ID); err != nil {
			return "", nil, err
		}
		return blind.ID.String(), blind, nil
	})
}

// DuplicateBlind appends a copy of the blind to the end of the job's blinds.
func (s *lineItemService) DuplicateBlind(ctx context.Context, jobID, category, itemID string) (BlindResponse, error) {
	var clone model.Blind
	err := s.mutate(ctx, jobID, model.ActionDuplicateBlind, true, func(txCtx context.Context) (string, interface{}, error) {
		source, err := s.findBlind(txCtx, jobID, category, itemID)
		if err != nil {
			return "", nil, err
		}
		clone = *source
		clone.ID, clone.CreatedAt, clone.UpdatedAt = uuid.Nil, time.Time{}, time.Time{}
		if err := s.itemRepo.CreateBlind(txCtx, &clone); err != nil {
			return "", nil, fmt.Errorf("failed to duplicate blind: %w", err)
		}
		return clone.ID.String(), map[string]string{"source_id": source.ID.String()}, nil
	})
	if err != nil {
		return BlindResponse{}, err
	}
	return toBlindResponse(clone), nil
}

// --- Tasks ---

func (s *lineItemService) AddTask(ctx context.Context, jobID string, req TaskRequest) (TaskResponse, error) {
	due, err := validateTask(req)
	if err != nil {
		return TaskResponse{}, err
	}
	task := &model.Task{JobID: jobID}
	applyTask(task, req, due)

	err = s.mutate(ctx, jobID, model.ActionAddTask, true, func(txCtx context.Context) (string, interface{}, error) {
		if err := s.itemRepo.CreateTask(txCtx, task); err != nil {
			return "", nil, fmt.Errorf("failed to add task: %w", err)
		}
		return task.ID.String(), req, nil
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(*task), nil
}

func applyTask(t *model.Task, req TaskRequest, due *time.Time) {
	t.Description = strings.TrimSpace(req.Description)
	t.Cost = req.Cost
	t.Status = req.Status
	if t.Status == "" {
		t.Status = "pending"
	}
	t.DueDate = due
	t.AssignedTo = req.AssignedTo
	t.Notes = req.Notes
}

func (s *lineItemService) UpdateTask(ctx context.Context, jobID, itemID string, req TaskRequest) (TaskResponse, error) {
	due, err := validateTask(req)
	if err != nil {
		return TaskResponse{}, err
	}
	id, err := parseItemID(itemID)
	if err != nil {
		return TaskResponse{}, err
	}

	var task *model.Task
	err = s.mutate(ctx, jobID, model.ActionUpdateTask, true, func(txCtx context.Context) (string, interface{}, error) {
		var err error
		if task, err = s.itemRepo.FindTask(txCtx, jobID, id); err != nil {
			return "", nil, err
		}
		applyTask(task, req, due)
		if err := s.itemRepo.UpdateTask(txCtx, task); err != nil {
			return "", nil, fmt.Errorf("failed to update task: %w", err)
		}
		return task.ID.String(), req, nil
	})
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(*task), nil
}

func (s *lineItemService) DeleteTask(ctx context.Context, jobID, itemID string) error {
	id, err := parseItemID(itemID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, jobID, model.ActionDeleteTask, true, func(txCtx context.Context) (string, interface{}, error) {
		return id.String(), nil, s.itemRepo.DeleteTask(txCtx, jobID, id)
	})
}

// --- Contacts ---

func applyContact(c *model.Contact, req ContactRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Organisation = req.Organisation
	c.Address = req.Address
	c.Area = req.Area
	c.Postcode = req.Postcode
	c.Phone = req.Phone
	c.Email = req.Email
	c.IsMainContact = req.IsMainContact
	c.Notes = req.Notes
}

func (s *lineItemService) AddContact(ctx context.Context, jobID string, req ContactRequest) (ContactResponse, error) {
	if err := validateContact(&req); err != nil {
		return ContactResponse{}, err
	}
	contact := &model.Contact{JobID: jobID}
	applyContact(contact, req)

	err := s.mutate(ctx, jobID, model.ActionAddContact, false, func(txCtx context.Context) (string, interface{}, error) {
		if err := s.itemRepo.CreateContact(txCtx, contact); err != nil {
			return "", nil, fmt.Errorf("failed to add contact: %w", err)
		}
		if contact.IsMainContact {
			if err := s.itemRepo.ClearMainContact(txCtx, jobID, contact.ID); err != nil {
				return "", nil, err
			}
		}
		return contact.ID.String(), req, nil
	})
	if err != nil {
		return ContactResponse{}, err
	}
	return toContactResponse(*contact), nil
}

func (s *lineItemService) UpdateContact(ctx context.Context, jobID, itemID string, req ContactRequest) (ContactResponse, error) {
	if err := validateContact(&req); err != nil {
		return ContactResponse{}, err
	}
	id, err := parseItemID(itemID)
	if err != nil {
		return ContactResponse{}, err
	}

	var contact *model.Contact
	err = s.mutate(ctx, jobID, model.ActionUpdateContact, false, func(txCtx context.Context) (string, interface{}, error) {
		var err error
		if contact, err = s.itemRepo.FindContact(txCtx, jobID, id); err != nil {
			return "", nil, err
		}
		applyContact(contact, req)
		if err := s.itemRepo.UpdateContact(txCtx, contact); err != nil {
			return "", nil, fmt.Errorf("failed to update contact: %w", err)
		}
		if contact.IsMainContact {
			if err := s.itemRepo.ClearMainContact(txCtx, jobID, contact.ID); err != nil {
				return "", nil, err
			}
		}
		return contact.ID.String(), req, nil
	})
	if err != nil {
		return ContactResponse{}, err
	}
	return toContactResponse(*contact), nil
}

func (s *lineItemService) DeleteContact(ctx context.Context, jobID, itemID string) error {
	id, err := parseItemID(itemID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, jobID, model.ActionDeleteContact, false, func(txCtx context.Context) (string, interface{}, error) {
		return id.String(), nil, s.itemRepo.DeleteContact(txCtx, jobID, id)
	})
}

// --- Surveys ---

func applySurvey(sv *model.Survey, req SurveyRequest, date *time.Time) {
	sv.Brief = req.Brief
	sv.Date = date
	sv.Time = req.Time
	sv.Notes = req.Notes
}

func (s *lineItemService) AddSurvey(ctx context.Context, jobID string, req SurveyRequest) (SurveyResponse, error) {
	date, err := validateSurvey(req)
	if err != nil {
		return SurveyResponse{}, err
	}
	survey := &model.Survey{JobID: jobID}
	applySurvey(survey, req, date)

	err = s.mutate(ctx, jobID, model.ActionAddSurvey, false, func(txCtx context.Context) (string, interface{}, error) {
		if err := s.itemRepo.CreateSurvey(txCtx, survey); err != nil {
			return "", nil, fmt.Errorf("failed to add survey: %w", err)
		}
		return survey.ID.String(), req, nil
	})
	if err != nil {
		return SurveyResponse{}, err
	}
	return toSurveyResponse(*survey), nil
}

func (s *lineItemService) UpdateSurvey(ctx context.Context, jobID, itemID string, req SurveyRequest) (SurveyResponse, error) {
	date, err := validateSurvey(req)
	if err != nil {
		return SurveyResponse{}, err
	}
	id, err := parseItemID(itemID)
	if err != nil {
		return SurveyResponse{}, err
	}

	var survey *model.Survey
	err = s.mutate(ctx, jobID, model.ActionUpdateSurvey, false, func(txCtx context.Context) (string, interface{}, error) {
		var err error
		if survey, err = s.itemRepo.FindSurvey(txCtx, jobID, id); err != nil {
			return "", nil, err
		}
		applySurvey(survey, req, date)
		if err := s.itemRepo.UpdateSurvey(txCtx, survey); err != nil {
			return "", nil, fmt.Errorf("failed to update survey: %w", err)
		}
		return survey.ID.String(), req, nil
	})
	if err != nil {
		return SurveyResponse{}, err
	}
	return toSurveyResponse(*survey), nil
}

func (s *lineItemService) DeleteSurvey(ctx context.Context, jobID, itemID string) error {
	id, err := parseItemID(itemID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, jobID, model.ActionDeleteSurvey, false, func(txCtx context.Context) (string, interface{}, error) {
		return id.String(), nil, s.itemRepo.DeleteSurvey(txCtx, jobID, id)
	})
}

// --- Mappers ---

func toBlindResponse(b model.Blind) BlindResponse {
	return BlindResponse{
		ID:        b.ID,
		Category:  string(b.Category),
		Location:  b.Location,
		Width:     b.Width,
		Drop:      b.Drop,
		Quantity:  b.Quantity,
		Cost:      b.Cost.StringFixed(2),
		LineTotal: b.LineTotal().StringFixed(2),
		Notes:     b.Notes,
	}
}

func toTaskResponse(t model.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Description: t.Description,
		Cost:        t.Cost.StringFixed(2),
		Status:      t.Status,
		DueDate:     formatDate(t.DueDate),
		AssignedTo:  t.AssignedTo,
		Notes:       t.Notes,
	}
}

func toContactResponse(c model.Contact) ContactResponse {
	return ContactResponse{
		ID:            c.ID,
		Name:          c.Name,
		Organisation:  c.Organisation,
		Address:       c.Address,
		Area:          c.Area,
		Postcode:      c.Postcode,
		Phone:         c.Phone,
		Email:         c.Email,
		IsMainContact: c.IsMainContact,
		Notes:         c.Notes,
	}
}

func toSurveyResponse(sv model.Survey) SurveyResponse {
	return SurveyResponse{
		ID:    sv.ID,
		Brief: sv.Brief,
		Date:  formatDate(sv.Date),
		Time:  sv.Time,
		Notes: sv.Notes,
	}
}
