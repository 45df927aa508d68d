package model

import (
	"time"
)

// CompanyProfileID is the key of the single stored profile row.
const CompanyProfileID = 1

// CompanyProfile is the branding and banking detail printed on every document.
type CompanyProfile struct {
	ID                 uint   `gorm:"primaryKey" json:"-"`
	Name               string `gorm:"type:varchar(255)" json:"name" yaml:"name"`
	Address            string `gorm:"type:varchar(255)" json:"address" yaml:"address"`
	City               string `gorm:"type:varchar(100)" json:"city" yaml:"city"`
	Postcode           string `gorm:"type:varchar(20)" json:"postcode" yaml:"postcode"`
	Phone              string `gorm:"type:varchar(50)" json:"phone" yaml:"phone"`
	Email              string `gorm:"type:varchar(255)" json:"email" yaml:"email"`
	Website            string `gorm:"type:varchar(255)" json:"website" yaml:"website"`
	VATNumber          string `gorm:"type:varchar(50)" json:"vat_number" yaml:"vat_number"`
	RegistrationNumber string `gorm:"type:varchar(50)" json:"registration_number" yaml:"registration_number"`
	BankName           string `gorm:"type:varchar(100)" json:"bank_name" yaml:"bank_name"`
	AccountName        string `gorm:"type:varchar(255)" json:"account_name" yaml:"account_name"`
	AccountNumber      string `gorm:"type:varchar(20)" json:"account_number" yaml:"account_number"`
	SortCode           string `gorm:"type:varchar(10)" json:"sort_code" yaml:"sort_code"`
	PaymentTerms       string `gorm:"type:varchar(255)" json:"payment_terms" yaml:"payment_terms"`

	Logo     []byte `json:"-" yaml:"-"`
	LogoType string `gorm:"type:varchar(30)" json:"logo_type,omitempty" yaml:"-"`

	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// HasLogo reports whether an image has been uploaded.
func (p *CompanyProfile) HasLogo() bool {
	return p != nil && len(p.Logo) > 0
}
