// Package document assembles printable quotes, invoices, receipts and envelopes
// from a job, its cost breakdown and the company profile. It produces a layout-free
// description; drawing it is left to a renderer.
package document

import (
	"fmt"
	"strings"
	"time"

	e "blinds-backend/internal/errors"
)

type Kind string

const (
	KindQuote    Kind = "quote"
	KindInvoice  Kind = "invoice"
	KindReceipt  Kind = "receipt"
	KindEnvelope Kind = "envelope"
)

// Kinds lists every document kind the composer understands.
var Kinds = []Kind{KindQuote, KindInvoice, KindReceipt, KindEnvelope}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", e.ErrUnknownDocumentKind, s)
}

// PageFormat is a page size in millimetres.
type PageFormat struct {
	Name      string
	WidthMM   float64
	HeightMM  float64
	Landscape bool
}

var (
	A4Portrait  = PageFormat{Name: "A4", WidthMM: 210, HeightMM: 297}
	A5Landscape = PageFormat{Name: "A5", WidthMM: 210, HeightMM: 148, Landscape: true}
)

type Image struct {
	Data []byte
	Type string // "PNG" or "JPG"
}

// Branding is the header identity. Logo is nil when only text branding is available.
type Branding struct {
	Name string
	Logo *Image
}

type Line struct {
	Label string
	Value string
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

type Column struct {
	Header string
	Align  Align
	// Weight is the column's share of the table width.
	Weight float64
}

type Table struct {
	Columns []Column
	Rows    [][]string
}

type SectionID string

const (
	SectionBlinds              SectionID = "blinds"
	SectionServices            SectionID = "services"
	SectionPaymentDetails      SectionID = "payment_details"
	SectionPaymentConfirmation SectionID = "payment_confirmation"
)

// Section is a titled block holding either a table or label/value lines.
type Section struct {
	ID    SectionID
	Title string
	Table *Table
	Lines []Line
}

type SummaryLine struct {
	Label     string
	Amount    string
	Highlight bool
}

type Summary struct {
	Title string
	Lines []SummaryLine
}

// Envelope is the address layout of an envelope document.
type Envelope struct {
	Sender    []string
	Recipient []string
	Reference string
}

// Document is a composed, render-ready description of one output file.
type Document struct {
	Kind     Kind
	Page     PageFormat
	Branding Branding
	Title    string

	Reference      string
	ReferenceLabel string
	Date           time.Time
	DueDate        *time.Time
	// Meta holds the reference and date lines in print order.
	Meta []Line

	Recipient      []Line
	RecipientTitle string
	Sections       []Section
	Summary        *Summary
	Footer         string

	Envelope *Envelope
}

// Section returns the section with the given id, if the document has one.
func (d *Document) Section(id SectionID) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
