package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BlindCategory string

const (
	BlindCategoryRoller   BlindCategory = "roller"
	BlindCategoryVertical BlindCategory = "vertical"
	BlindCategoryVenetian BlindCategory = "venetian"
)

// BlindCategories lists the categories in the order they appear on documents.
var BlindCategories = []BlindCategory{BlindCategoryRoller, BlindCategoryVertical, BlindCategoryVenetian}

func (c BlindCategory) Valid() bool {
	switch c {
	case BlindCategoryRoller, BlindCategoryVertical, BlindCategoryVenetian:
		return true
	}
	return false
}

// Blind is a measured blind line item. Width and drop are in millimetres, Cost is the unit price.
type Blind struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	JobID    string          `gorm:"type:varchar(20);not null;index" json:"job_id"`
	Position int             `gorm:"not null" json:"-"`
	Category BlindCategory   `gorm:"type:varchar(20);not null;index" json:"category"`
	Location string          `gorm:"type:varchar(255)" json:"location"`
	Width    int             `gorm:"not null" json:"width"`
	Drop     int             `gorm:"not null" json:"drop"`
	Quantity int             `gorm:"not null;default:1" json:"quantity"`
	Cost     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	Notes    string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Blind) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// LineTotal is the unit cost scaled by quantity.
func (b Blind) LineTotal() decimal.Decimal {
	return b.Cost.Mul(decimal.NewFromInt(int64(b.Quantity)))
}

// Task is a priced service (fitting, removal, ...). Its cost is counted once.
type Task struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	JobID       string          `gorm:"type:varchar(20);not null;index" json:"job_id"`
	Position    int             `gorm:"not null" json:"-"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	Status      string          `gorm:"type:varchar(30)" json:"status"`
	DueDate     *time.Time      `json:"due_date"`
	AssignedTo  string          `gorm:"type:varchar(100)" json:"assigned_to"`
	Notes       string          `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Contact struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID         string    `gorm:"type:varchar(20);not null;index" json:"job_id"`
	Position      int       `gorm:"not null" json:"-"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Organisation  string    `gorm:"type:varchar(255)" json:"organisation"`
	Address       string    `gorm:"type:text" json:"address"`
	Area          string    `gorm:"type:varchar(100)" json:"area"`
	Postcode      string    `gorm:"type:varchar(20)" json:"postcode"`
	Phone         string    `gorm:"type:varchar(50)" json:"phone"`
	Email         string    `gorm:"type:varchar(255)" json:"email"`
	IsMainContact bool      `gorm:"not null;default:false" json:"is_main_contact"`
	Notes         string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Survey is a site visit booked against a job. Time is kept as "HH:MM".
type Survey struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobID    string     `gorm:"type:varchar(20);not null;index" json:"job_id"`
	Position int        `gorm:"not null" json:"-"`
	Brief    string     `gorm:"type:text" json:"brief"`
	Date     *time.Time `json:"date"`
	Time     string     `gorm:"type:varchar(5)" json:"time"`
	Notes    string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
