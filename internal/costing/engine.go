// Package costing turns a job's line items and pricing configuration into a cost breakdown.
package costing

import (
	"fmt"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Breakdown is every intermediate value of a job's pricing, in calculation order.
type Breakdown struct {
	BlindsCost           decimal.Decimal `json:"blinds_cost"`
	TasksCost            decimal.Decimal `json:"tasks_cost"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	AdditionalCostsTotal decimal.Decimal `json:"additional_costs_total"`
	Carriage             decimal.Decimal `json:"carriage"`
	FastTrack            decimal.Decimal `json:"fast_track"`
	AdditionalFlat       decimal.Decimal `json:"additional_flat"`
	PreVATTotal          decimal.Decimal `json:"pre_vat_total"`
	VATRate              decimal.Decimal `json:"vat_rate"`
	VATAmount            decimal.Decimal `json:"vat_amount"`
	PreProfitTotal       decimal.Decimal `json:"pre_profit_total"`
	ProfitRate           decimal.Decimal `json:"profit_rate"`
	ProfitAmount         decimal.Decimal `json:"profit_amount"`
	GrandTotal           decimal.Decimal `json:"grand_total"`
}

// Compute prices a job. It has no side effects: the same job always yields the same
// breakdown. Jobs carrying negative money, quantities below one or rates outside
// [0, 100] are rejected rather than priced.
func Compute(job *model.Job) (Breakdown, error) {
	if job == nil || job.CostSummary == nil {
		return Breakdown{}, e.ErrMissingCostSummary
	}
	if err := Validate(job); err != nil {
		return Breakdown{}, err
	}
	cs := job.CostSummary

	var b Breakdown
	b.BlindsCost = decimal.Zero
	for _, blind := range job.Blinds {
		b.BlindsCost = b.BlindsCost.Add(blind.LineTotal())
	}

	b.TasksCost = decimal.Zero
	for _, task := range job.Tasks {
		b.TasksCost = b.TasksCost.Add(task.Cost)
	}

	b.Subtotal = b.BlindsCost.Add(b.TasksCost)

	b.AdditionalCostsTotal = decimal.Zero
	for _, ac := range cs.AdditionalCosts {
		b.AdditionalCostsTotal = b.AdditionalCostsTotal.Add(ac.Amount)
	}
	b.Carriage = cs.Carriage
	b.FastTrack = cs.FastTrack
	b.AdditionalFlat = b.AdditionalCostsTotal.Add(cs.Carriage).Add(cs.FastTrack)

	b.PreVATTotal = b.Subtotal.Add(b.AdditionalFlat)

	b.VATRate = cs.VATRate
	b.VATAmount = percentOf(b.PreVATTotal, cs.VATRate)
	b.PreProfitTotal = b.PreVATTotal.Add(b.VATAmount)

	// Profit is marked up on the pre-VAT total, not the VAT-inclusive one.
	b.ProfitRate = cs.ProfitRate
	b.ProfitAmount = percentOf(b.PreVATTotal, cs.ProfitRate)

	b.GrandTotal = b.PreProfitTotal.Add(b.ProfitAmount)
	return b, nil
}

// Validate checks every priced field of the job.
func Validate(job *model.Job) error {
	if job == nil || job.CostSummary == nil {
		return e.ErrMissingCostSummary
	}
	for _, b := range job.Blinds {
		if b.Quantity < 1 {
			return fmt.Errorf("%w: %s blind %q: quantity must be at least 1", e.ErrInvalidInput, b.Category, b.Location)
		}
		if b.Cost.IsNegative() {
			return fmt.Errorf("%w: %s blind %q: cost cannot be negative", e.ErrInvalidInput, b.Category, b.Location)
		}
	}
	for _, t := range job.Tasks {
		if t.Cost.IsNegative() {
			return fmt.Errorf("%w: task %q: cost cannot be negative", e.ErrInvalidInput, t.Description)
		}
	}
	return ValidateSettings(job.CostSummary)
}

// ValidateSettings checks a cost configuration on its own.
func ValidateSettings(cs *model.CostSummary) error {
	if cs.Carriage.IsNegative() {
		return fmt.Errorf("%w: carriage cannot be negative", e.ErrInvalidInput)
	}
	if cs.FastTrack.IsNegative() {
		return fmt.Errorf("%w: fast track cannot be negative", e.ErrInvalidInput)
	}
	if !isPercentage(cs.VATRate) {
		return fmt.Errorf("%w: VAT rate must be between 0 and 100", e.ErrInvalidInput)
	}
	if !isPercentage(cs.ProfitRate) {
		return fmt.Errorf("%w: profit rate must be between 0 and 100", e.ErrInvalidInput)
	}
	for i, ac := range cs.AdditionalCosts {
		if ac.Amount.IsNegative() {
			return fmt.Errorf("%w: additional_costs[%d]: amount cannot be negative", e.ErrInvalidInput, i)
		}
	}
	return nil
}

// Snapshot copies the rounded headline figures into the job's cached cost fields.
func Snapshot(cs *model.CostSummary, b Breakdown) {
	cs.Subtotal = b.Subtotal.Round(2)
	cs.VAT = b.VATAmount.Round(2)
	cs.Profit = b.ProfitAmount.Round(2)
	cs.Total = b.GrandTotal.Round(2)
}

func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Div(hundred)
}

func isPercentage(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThanOrEqual(hundred)
}
