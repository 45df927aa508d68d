package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"blinds-backend/internal/costing"
	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"
)

const (
	PaymentDueDays      = 30
	DefaultPaymentTerms = "Payment due within 30 days of invoice date"
	PaymentMethod       = "Bank Transfer"
	PaidInFull          = "PAID IN FULL"
)

var blindLabels = map[model.BlindCategory]string{
	model.BlindCategoryRoller:   "Roller Blind",
	model.BlindCategoryVertical: "Vertical Blind",
	model.BlindCategoryVenetian: "Venetian Blind",
}

var logoTypes = map[string]string{
	"image/png":  "PNG",
	"image/jpeg": "JPG",
	"image/jpg":  "JPG",
}

// kindSpec is what varies between the priced document kinds.
type kindSpec struct {
	title          string
	referenceLabel string
	prefix         string
	date           func(cs *model.CostSummary) *time.Time
	dueAfterDays   int
}

var kindSpecs = map[Kind]kindSpec{
	KindQuote: {
		title:          "QUOTATION",
		referenceLabel: "Quote Reference",
		date:           func(cs *model.CostSummary) *time.Time { return cs.QuoteDate },
	},
	KindInvoice: {
		title:          "INVOICE",
		referenceLabel: "Invoice Reference",
		prefix:         "INV-",
		date:           func(cs *model.CostSummary) *time.Time { return cs.InvoiceDate },
		dueAfterDays:   PaymentDueDays,
	},
	KindReceipt: {
		title:          "RECEIPT",
		referenceLabel: "Receipt Reference",
		prefix:         "REC-",
		date:           func(cs *model.CostSummary) *time.Time { return cs.ReceiptDate },
	},
}

// input is everything a section predicate or builder may look at.
type input struct {
	kind      Kind
	job       *model.Job
	breakdown *costing.Breakdown
	profile   *model.CompanyProfile
	date      time.Time
	reference string
}

type sectionDescriptor struct {
	id      SectionID
	kinds   []Kind
	include func(in *input) bool
	build   func(in *input) Section
}

func (s sectionDescriptor) appliesTo(k Kind) bool {
	for _, kind := range s.kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// sections is evaluated top to bottom; a section appears only when it applies to the
// document kind and its predicate holds.
var sections = []sectionDescriptor{
	{
		id:      SectionBlinds,
		kinds:   []Kind{KindQuote, KindInvoice},
		include: func(in *input) bool { return len(in.job.Blinds) > 0 },
		build:   blindsSection,
	},
	{
		id:      SectionServices,
		kinds:   []Kind{KindQuote, KindInvoice},
		include: func(in *input) bool { return len(in.job.Tasks) > 0 },
		build:   servicesSection,
	},
	{
		id:      SectionPaymentDetails,
		kinds:   []Kind{KindInvoice},
		include: always,
		build:   paymentDetailsSection,
	},
	{
		id:      SectionPaymentConfirmation,
		kinds:   []Kind{KindReceipt},
		include: always,
		build:   paymentConfirmationSection,
	},
}

func always(*input) bool { return true }

type Option func(*Composer)

// WithClock replaces the wall clock used for undated documents.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

// Composer builds Documents. It is safe for concurrent use.
type Composer struct {
	now func() time.Time
}

func NewComposer(opts ...Option) *Composer {
	c := &Composer{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose assembles a document of the given kind. Priced kinds need the job's cost
// summary and its breakdown; an envelope needs neither. A nil profile is treated as
// an empty one.
func (c *Composer) Compose(kind Kind, job *model.Job, breakdown *costing.Breakdown, profile *model.CompanyProfile) (*Document, error) {
	if job == nil {
		return nil, fmt.Errorf("compose %s: %w: job is required", kind, e.ErrMissingCostSummary)
	}
	if profile == nil {
		profile = &model.CompanyProfile{}
	}
	if kind == KindEnvelope {
		return composeEnvelope(job, profile), nil
	}

	spec, ok := kindSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("compose %q: %w", kind, e.ErrUnknownDocumentKind)
	}
	if job.CostSummary == nil || breakdown == nil {
		return nil, fmt.Errorf("compose %s for job %s: %w", kind, job.ID, e.ErrMissingCostSummary)
	}

	in := &input{
		kind:      kind,
		job:       job,
		breakdown: breakdown,
		profile:   profile,
		date:      c.now(),
		reference: Reference(kind, job.ID),
	}
	if d := spec.date(job.CostSummary); d != nil {
		in.date = *d
	}

	doc := &Document{
		Kind:           kind,
		Page:           A4Portrait,
		Branding:       branding(profile),
		Title:          spec.title,
		Reference:      in.reference,
		ReferenceLabel: spec.referenceLabel,
		Date:           in.date,
		RecipientTitle: "CLIENT DETAILS",
		Recipient:      recipientLines(job),
		Footer:         FooterLine(profile),
	}
	doc.Meta = []Line{
		{Label: spec.referenceLabel, Value: in.reference},
		{Label: "Date", Value: FormatDate(in.date)},
	}
	if spec.dueAfterDays > 0 {
		due := in.date.AddDate(0, 0, spec.dueAfterDays)
		doc.DueDate = &due
		doc.Meta = append(doc.Meta, Line{Label: "Due Date", Value: FormatDate(due)})
	}

	for _, s := range sections {
		if s.appliesTo(kind) && s.include(in) {
			doc.Sections = append(doc.Sections, s.build(in))
		}
	}
	doc.Summary = costSummary(job.CostSummary, breakdown)

	return doc, nil
}

// Reference derives the document reference from the job id. Quotes use the id as is;
// a legacy "JOB" prefix is dropped from prefixed references.
func Reference(kind Kind, jobID string) string {
	spec, ok := kindSpecs[kind]
	if !ok || spec.prefix == "" {
		return jobID
	}
	return spec.prefix + strings.TrimPrefix(jobID, "JOB")
}

func branding(p *model.CompanyProfile) Branding {
	b := Branding{Name: p.Name}
	if t, ok := logoTypes[strings.ToLower(p.LogoType)]; ok && p.HasLogo() {
		b.Logo = &Image{Data: p.Logo, Type: t}
	}
	return b
}

func recipientLines(job *model.Job) []Line {
	lines := []Line{{Label: "Name", Value: job.Name}}
	if org := strings.TrimSpace(job.Organisation); org != "" {
		lines = append(lines, Line{Label: "Organisation", Value: org})
	}
	return append(lines,
		Line{Label: "Address", Value: job.Address},
		Line{Label: "Postcode", Value: job.Postcode},
	)
}

func blindsSection(in *input) Section {
	table := &Table{
		Columns: []Column{
			{Header: "Type", Weight: 1.3},
			{Header: "Location", Weight: 1.5},
			{Header: "Dimensions", Weight: 1.6},
			{Header: "Qty", Align: AlignCenter, Weight: 0.6},
			{Header: "Unit Price", Align: AlignRight, Weight: 1},
			{Header: "Total", Align: AlignRight, Weight: 1},
		},
	}
	for _, category := range model.BlindCategories {
		for _, b := range in.job.BlindsOf(category) {
			table.Rows = append(table.Rows, []string{
				blindLabels[category],
				b.Location,
				fmt.Sprintf("%dmm × %dmm", b.Width, b.Drop),
				strconv.Itoa(b.Quantity),
				FormatMoney(b.Cost),
				FormatMoney(b.LineTotal()),
			})
		}
	}
	return Section{ID: SectionBlinds, Title: "BLINDS", Table: table}
}

func servicesSection(in *input) Section {
	table := &Table{
		Columns: []Column{
			{Header: "Description", Weight: 3},
			{Header: "Cost", Align: AlignRight, Weight: 1},
		},
	}
	for _, t := range in.job.Tasks {
		table.Rows = append(table.Rows, []string{t.Description, FormatMoney(t.Cost)})
	}
	return Section{ID: SectionServices, Title: "ADDITIONAL SERVICES", Table: table}
}

func paymentDetailsSection(in *input) Section {
	p := in.profile
	terms := p.PaymentTerms
	if strings.TrimSpace(terms) == "" {
		terms = DefaultPaymentTerms
	}
	return Section{
		ID:    SectionPaymentDetails,
		Title: "PAYMENT DETAILS",
		Lines: nonBlank([]Line{
			{Label: "Bank", Value: p.BankName},
			{Label: "Account Name", Value: p.AccountName},
			{Label: "Account Number", Value: p.AccountNumber},
			{Label: "Sort Code", Value: p.SortCode},
			{Label: "Payment Reference", Value: in.reference},
			{Label: "Payment Terms", Value: terms},
		}),
	}
}

func paymentConfirmationSection(in *input) Section {
	return Section{
		ID:    SectionPaymentConfirmation,
		Title: "PAYMENT CONFIRMATION",
		Table: &Table{
			Columns: []Column{
				{Header: "Description", Weight: 1},
				{Header: "Details", Weight: 1.5},
			},
			Rows: [][]string{
				{"Payment Method", PaymentMethod},
				{"Receipt Reference", in.reference},
				{"Amount Paid", FormatMoney(in.breakdown.GrandTotal)},
				{"Payment Date", FormatDate(in.date)},
				{"Status", PaidInFull},
			},
		},
	}
}

func costSummary(cs *model.CostSummary, b *costing.Breakdown) *Summary {
	s := &Summary{Title: "COST SUMMARY"}
	s.Lines = append(s.Lines, SummaryLine{Label: "Subtotal", Amount: FormatMoney(b.Subtotal)})
	if b.Carriage.IsPositive() {
		s.Lines = append(s.Lines, SummaryLine{Label: "Carriage", Amount: FormatMoney(b.Carriage)})
	}
	if b.FastTrack.IsPositive() {
		s.Lines = append(s.Lines, SummaryLine{Label: "Fast Track", Amount: FormatMoney(b.FastTrack)})
	}
	for _, ac := range cs.AdditionalCosts {
		label := strings.TrimSpace(ac.Description)
		if label == "" && ac.Amount.IsZero() {
			continue
		}
		if label == "" {
			label = "Additional cost"
		}
		s.Lines = append(s.Lines, SummaryLine{Label: label, Amount: FormatMoney(ac.Amount)})
	}
	s.Lines = append(s.Lines,
		SummaryLine{Label: fmt.Sprintf("VAT (%s%%)", FormatRate(b.VATRate)), Amount: FormatMoney(b.VATAmount)},
		SummaryLine{Label: "TOTAL", Amount: FormatMoney(b.GrandTotal), Highlight: true},
	)
	return s
}

// FooterLine is the company contact line printed at the bottom of every page.
func FooterLine(p *model.CompanyProfile) string {
	locality := strings.TrimSpace(p.City + " " + p.Postcode)
	address := joinNonBlank(", ", p.Address, locality)
	return joinNonBlank(" | ", p.Name, address, p.Phone, p.Email)
}

func composeEnvelope(job *model.Job, p *model.CompanyProfile) *Document {
	env := &Envelope{
		Sender:    nonBlankStrings(p.Name, p.Address, p.City, p.Postcode),
		Reference: job.ID,
	}
	env.Recipient = nonBlankStrings(job.Name, job.Organisation)
	env.Recipient = append(env.Recipient, SplitAddress(job.Address)...)
	env.Recipient = append(env.Recipient, nonBlankStrings(job.Postcode)...)

	return &Document{
		Kind:      KindEnvelope,
		Page:      A5Landscape,
		Branding:  branding(p),
		Reference: job.ID,
		Envelope:  env,
	}
}

// SplitAddress breaks a free-text address into printable lines on commas and newlines.
func SplitAddress(address string) []string {
	parts := strings.FieldsFunc(address, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	return nonBlankStrings(parts...)
}

func nonBlank(lines []Line) []Line {
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l.Value) != "" {
			out = append(out, l)
		}
	}
	return out
}

func nonBlankStrings(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonBlank(sep string, values ...string) string {
	return strings.Join(nonBlankStrings(values...), sep)
}
