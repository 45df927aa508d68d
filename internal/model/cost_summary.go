package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	DefaultVATRate    = decimal.NewFromInt(20)
	DefaultProfitRate = decimal.NewFromInt(25)
)

// CostSummary holds a job's pricing configuration. Subtotal, VAT, Profit and Total
// are a cached snapshot of the last computed breakdown, never an input.
type CostSummary struct {
	JobID           string           `gorm:"type:varchar(20);primaryKey" json:"job_id"`
	Carriage        decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"carriage"`
	FastTrack       decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"fast_track"`
	VATRate         decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"vat_rate"`
	ProfitRate      decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"profit_rate"`
	AdditionalCosts []AdditionalCost `gorm:"foreignKey:JobID;references:JobID;constraint:OnDelete:CASCADE" json:"additional_costs"`

	QuoteDate   *time.Time `json:"quote_date"`
	InvoiceDate *time.Time `json:"invoice_date"`
	ReceiptDate *time.Time `json:"receipt_date"`

	Subtotal decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"subtotal"`
	VAT      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"vat"`
	Profit   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"profit"`
	Total    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewCostSummary returns the configuration every new job starts with.
func NewCostSummary(jobID string) *CostSummary {
	return &CostSummary{
		JobID:      jobID,
		Carriage:   decimal.Zero,
		FastTrack:  decimal.Zero,
		VATRate:    DefaultVATRate,
		ProfitRate: DefaultProfitRate,
	}
}

type AdditionalCost struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       string          `gorm:"type:varchar(20);not null;index" json:"job_id"`
	Position    int             `gorm:"not null" json:"-"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

func (a *AdditionalCost) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
