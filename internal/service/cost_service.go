package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blinds-backend/internal/costing"
	"blinds-backend/internal/events"
	"blinds-backend/internal/model"
	"blinds-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type AdditionalCostPayload struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

type AdditionalCostResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
}

// UpdateCostsRequest changes only the fields that are sent. A date sent as "" is cleared.
type UpdateCostsRequest struct {
	Carriage        *decimal.Decimal         `json:"carriage"`
	FastTrack       *decimal.Decimal         `json:"fast_track"`
	VATRate         *decimal.Decimal         `json:"vat_rate"`
	ProfitRate      *decimal.Decimal         `json:"profit_rate"`
	AdditionalCosts *[]AdditionalCostPayload `json:"additional_costs"` // nil = keep, [] = clear all
	QuoteDate       *string                  `json:"quote_date"`
	InvoiceDate     *string                  `json:"invoice_date"`
	ReceiptDate     *string                  `json:"receipt_date"`
}

// CostResponse is a job's cost configuration together with its live breakdown.
type CostResponse struct {
	Carriage        string                   `json:"carriage"`
	FastTrack       string                   `json:"fast_track"`
	VATRate         string                   `json:"vat_rate"`
	ProfitRate      string                   `json:"profit_rate"`
	AdditionalCosts []AdditionalCostResponse `json:"additional_costs"`
	QuoteDate       *string                  `json:"quote_date"`
	InvoiceDate     *string                  `json:"invoice_date"`
	ReceiptDate     *string                  `json:"receipt_date"`

	BlindsCost           string `json:"blinds_cost"`
	TasksCost            string `json:"tasks_cost"`
	Subtotal             string `json:"subtotal"`
	AdditionalCostsTotal string `json:"additional_costs_total"`
	AdditionalFlat       string `json:"additional_flat"`
	PreVATTotal          string `json:"pre_vat_total"`
	VATAmount            string `json:"vat_amount"`
	PreProfitTotal       string `json:"pre_profit_total"`
	ProfitAmount         string `json:"profit_amount"`
	GrandTotal           string `json:"grand_total"`
}

// --- Interface ---

type CostService interface {
	GetBreakdown(ctx context.Context, jobID string) (CostResponse, error)
	UpdateCostSettings(ctx context.Context, jobID string, req UpdateCostsRequest) (CostResponse, error)
}

// --- Implementation ---

type costService struct {
	jobRepo   repository.JobRepository
	txManager repository.TransactionManager
	recorder  recorder
}

func NewCostService(
	jobRepo repository.JobRepository,
	activityRepo repository.ActivityRepository,
	txManager repository.TransactionManager,
	publisher events.Publisher,
) CostService {
	return &costService{
		jobRepo:   jobRepo,
		txManager: txManager,
		recorder:  newRecorder(jobRepo, activityRepo, publisher),
	}
}

func (s *costService) GetBreakdown(ctx context.Context, jobID string) (CostResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return CostResponse{}, err
	}
	if job.CostSummary == nil {
		job.CostSummary = model.NewCostSummary(job.ID)
	}
	breakdown, err := costing.Compute(job)
	if err != nil {
		return CostResponse{}, err
	}
	return toCostResponse(job.CostSummary, breakdown), nil
}

func applyDate(field string, raw *string, target **time.Time) error {
	if raw == nil {
		return nil
	}
	parsed, err := parseDate(field, *raw)
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

func toAdditionalCostModels(payloads []AdditionalCostPayload) ([]model.AdditionalCost, error) {
	costs := make([]model.AdditionalCost, 0, len(payloads))
	for i, p := range payloads {
		desc := strings.TrimSpace(p.Description)
		if desc == "" {
			return nil, invalid("additional_costs[%d]: description is required", i)
		}
		if err := checkPrecision(fmt.Sprintf("additional_costs[%d].amount", i), p.Amount); err != nil {
			return nil, err
		}
		costs = append(costs, model.AdditionalCost{Description: desc, Amount: p.Amount})
	}
	return costs, nil
}

func (s *costService) UpdateCostSettings(ctx context.Context, jobID string, req UpdateCostsRequest) (CostResponse, error) {
	for _, f := range []struct {
		field string
		value *decimal.Decimal
	}{
		{"carriage", req.Carriage},
		{"fast_track", req.FastTrack},
		{"vat_rate", req.VATRate},
		{"profit_rate", req.ProfitRate},
	} {
		if f.value == nil {
			continue
		}
		if err := checkPrecision(f.field, *f.value); err != nil {
			return CostResponse{}, err
		}
	}

	var (
		job       *model.Job
		breakdown costing.Breakdown
	)
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.jobRepo.FindByID(txCtx, jobID)
		if err != nil {
			return err
		}
		cs := current.CostSummary
		if cs == nil {
			cs = model.NewCostSummary(jobID)
		}

		if req.Carriage != nil {
			cs.Carriage = *req.Carriage
		}
		if req.FastTrack != nil {
			cs.FastTrack = *req.FastTrack
		}
		if req.VATRate != nil {
			cs.VATRate = *req.VATRate
		}
		if req.ProfitRate != nil {
			cs.ProfitRate = *req.ProfitRate
		}
		if req.AdditionalCosts != nil {
			costs, err := toAdditionalCostModels(*req.AdditionalCosts)
			if err != nil {
				return err
			}
			cs.AdditionalCosts = costs
		}
		for _, d := range []struct {
			field  string
			raw    *string
			target **time.Time
		}{
			{"quote_date", req.QuoteDate, &cs.QuoteDate},
			{"invoice_date", req.InvoiceDate, &cs.InvoiceDate},
			{"receipt_date", req.ReceiptDate, &cs.ReceiptDate},
		} {
			if err := applyDate(d.field, d.raw, d.target); err != nil {
				return err
			}
		}

		if err := costing.ValidateSettings(cs); err != nil {
			return err
		}
		if err := s.jobRepo.SaveCostSummary(txCtx, cs); err != nil {
			return fmt.Errorf("failed to save cost settings: %w", err)
		}
		if req.AdditionalCosts != nil {
			if err := s.jobRepo.ReplaceAdditionalCosts(txCtx, jobID, cs.AdditionalCosts); err != nil {
				return err
			}
		}
		if err := s.jobRepo.Touch(txCtx, jobID); err != nil {
			return err
		}
		if err := s.recorder.logActivity(txCtx, jobID, model.ActionUpdateCosts, jobID, req); err != nil {
			return err
		}

		job, breakdown, err = s.recorder.reprice(txCtx, jobID)
		return err
	})
	if err != nil {
		return CostResponse{}, err
	}

	s.recorder.publish(events.CostsUpdated, jobID, job)
	return toCostResponse(job.CostSummary, breakdown), nil
}

// --- Mappers ---

func toCostResponse(cs *model.CostSummary, b costing.Breakdown) CostResponse {
	if cs == nil {
		cs = model.NewCostSummary("")
	}
	resp := CostResponse{
		Carriage:        cs.Carriage.StringFixed(2),
		FastTrack:       cs.FastTrack.StringFixed(2),
		VATRate:         cs.VATRate.String(),
		ProfitRate:      cs.ProfitRate.String(),
		AdditionalCosts: make([]AdditionalCostResponse, 0, len(cs.AdditionalCosts)),
		QuoteDate:       formatDate(cs.QuoteDate),
		InvoiceDate:     formatDate(cs.InvoiceDate),
		ReceiptDate:     formatDate(cs.ReceiptDate),

		BlindsCost:           b.BlindsCost.StringFixed(2),
		TasksCost:            b.TasksCost.StringFixed(2),
		Subtotal:             b.Subtotal.StringFixed(2),
		AdditionalCostsTotal: b.AdditionalCostsTotal.StringFixed(2),
		AdditionalFlat:       b.AdditionalFlat.StringFixed(2),
		PreVATTotal:          b.PreVATTotal.StringFixed(2),
		VATAmount:            b.VATAmount.StringFixed(2),
		PreProfitTotal:       b.PreProfitTotal.StringFixed(2),
		ProfitAmount:         b.ProfitAmount.StringFixed(2),
		GrandTotal:           b.GrandTotal.StringFixed(2),
	}
	for _, ac := range cs.AdditionalCosts {
		resp.AdditionalCosts = append(resp.AdditionalCosts, AdditionalCostResponse{
			ID:          ac.ID,
			Description: ac.Description,
			Amount:      ac.Amount.StringFixed(2),
		})
	}
	return resp
}
