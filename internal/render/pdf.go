// Package render draws composed documents as PDF files.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"blinds-backend/internal/document"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

const (
	ContentType = "application/pdf"

	marginX      = 20.0
	bottomMargin = 25.0
	lineHeight   = 7.0
	rowHeight    = 8.0
	logoName     = "company-logo"
)

type rgb struct{ r, g, b int }

var (
	navy      = rgb{0, 23, 85}
	pink      = rgb{255, 0, 127}
	white     = rgb{255, 255, 255}
	panelGrey = rgb{240, 240, 240}
	gridGrey  = rgb{200, 200, 200}
	mutedGrey = rgb{128, 128, 128}
)

// Filename is the download name of a rendered document: {kind}-{lowercase job id}.pdf.
func Filename(kind document.Kind, jobID string) string {
	return fmt.Sprintf("%s-%s.pdf", kind, strings.ToLower(jobID))
}

// PDF renders documents with gofpdf core fonts.
type PDF struct {
	logger *zap.Logger
}

func NewPDF(logger *zap.Logger) *PDF {
	return &PDF{logger: logger.Named("pdf_renderer")}
}

// Render writes doc to w as a PDF.
func (r *PDF) Render(w io.Writer, doc *document.Document) error {
	if doc == nil {
		return fmt.Errorf("render: nil document")
	}

	format := doc.Page
	if format.WidthMM <= 0 || format.HeightMM <= 0 {
		format = document.A4Portrait
	}

	p := r.newPage(doc, format)
	if doc.Kind == document.KindEnvelope {
		p.drawEnvelope(doc)
	} else {
		p.drawPriced(doc)
	}

	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("render %s %s: %w", doc.Kind, doc.Reference, err)
	}
	return nil
}

// RenderBytes is Render into a fresh buffer.
func (r *PDF) RenderBytes(doc *document.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type page struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	logger  *zap.Logger
	width   float64
	height  float64
	content float64
	hasLogo bool
}

func (r *PDF) newPage(doc *document.Document, format document.PageFormat) *page {
	// gofpdf takes the portrait size and swaps it for landscape pages.
	orientation := "P"
	size := gofpdf.SizeType{Wd: format.WidthMM, Ht: format.HeightMM}
	if format.Landscape {
		orientation = "L"
		size = gofpdf.SizeType{Wd: format.HeightMM, Ht: format.WidthMM}
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           size,
	})
	pdf.SetTitle(strings.TrimSpace(doc.Title+" "+doc.Reference), true)
	pdf.SetAuthor(doc.Branding.Name, true)
	pdf.SetMargins(marginX, marginX, marginX)

	w, h := pdf.GetPageSize()
	p := &page{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		logger:  r.logger.With(zap.String("kind", string(doc.Kind)), zap.String("reference", doc.Reference)),
		width:   w,
		height:  h,
		content: w - 2*marginX,
	}
	p.hasLogo = p.registerLogo(doc.Branding.Logo)
	return p
}

// registerLogo loads the logo image. An undecodable image is logged and dropped so
// the document falls back to text branding.
func (p *page) registerLogo(img *document.Image) bool {
	if img == nil || len(img.Data) == 0 {
		return false
	}
	info := p.pdf.RegisterImageOptionsReader(logoName, gofpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
	if p.pdf.Err() || info == nil {
		p.logger.Warn("logo could not be decoded, using text branding", zap.Error(p.pdf.Error()))
		p.pdf.ClearError()
		return false
	}
	return true
}

func (p *page) fill(c rgb)   { p.pdf.SetFillColor(c.r, c.g, c.b) }
func (p *page) text(c rgb)   { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *page) stroke(c rgb) { p.pdf.SetDrawColor(c.r, c.g, c.b) }

// ensure starts a new page when less than h millimetres remain above the footer.
func (p *page) ensure(h float64) bool {
	if p.pdf.GetY()+h > p.height-bottomMargin {
		p.pdf.AddPage()
		p.pdf.SetY(marginX)
		return true
	}
	return false
}

func (p *page) drawPriced(doc *document.Document) {
	pdf := p.pdf
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(p.height - 12)
		pdf.SetFont("Helvetica", "", 8)
		p.text(mutedGrey)
		pdf.CellFormat(0, 5, p.tr(doc.Footer), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	p.drawHeaderBand(doc.Branding)

	pdf.SetFont("Helvetica", "B", 22)
	p.text(navy)
	pdf.SetXY(marginX, 52)
	pdf.CellFormat(p.content, 10, p.tr(doc.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetY(66)
	for _, l := range doc.Meta {
		pdf.SetX(marginX)
		pdf.CellFormat(p.content, lineHeight, p.tr(l.Label+": "+l.Value), "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	p.drawPanel(doc.RecipientTitle, doc.Recipient)

	for _, s := range doc.Sections {
		pdf.Ln(6)
		p.drawSection(s)
	}

	if doc.Summary != nil {
		pdf.Ln(8)
		p.drawSummary(doc.Summary)
	}
}

func (p *page) drawHeaderBand(b document.Branding) {
	pdf := p.pdf
	p.fill(navy)
	pdf.Rect(0, 0, p.width, 40, "F")

	if p.hasLogo {
		pdf.ImageOptions(logoName, marginX, 5, 0, 30, false, gofpdf.ImageOptions{}, 0, "")
		return
	}
	if b.Name == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 24)
	p.text(white)
	pdf.Text(marginX, 26, p.tr(b.Name))
}

// drawPanel prints a grey box with a bold title and label/value lines.
func (p *page) drawPanel(title string, lines []document.Line) {
	pdf := p.pdf
	h := 12 + lineHeight*float64(len(lines))
	p.ensure(h)

	y := pdf.GetY()
	p.fill(panelGrey)
	pdf.Rect(marginX, y, p.content, h, "F")

	p.text(navy)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginX+5, y+3)
	pdf.CellFormat(p.content-10, lineHeight, p.tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		pdf.SetX(marginX + 5)
		pdf.CellFormat(p.content-10, lineHeight, p.tr(l.Label+": "+l.Value), "", 1, "L", false, 0, "")
	}
	pdf.SetY(y + h)
}

func (p *page) drawSection(s document.Section) {
	pdf := p.pdf
	p.ensure(lineHeight + 2*rowHeight)

	p.text(navy)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetX(marginX)
	pdf.CellFormat(p.content, lineHeight, p.tr(s.Title), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	if s.Table != nil {
		p.drawTable(s.Table)
		return
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range s.Lines {
		p.ensure(lineHeight)
		pdf.SetX(marginX)
		pdf.CellFormat(p.content, lineHeight, p.tr(l.Label+": "+l.Value), "", 1, "L", false, 0, "")
	}
}

func (p *page) drawTable(t *document.Table) {
	widths := columnWidths(t.Columns, p.content)

	p.drawTableHeader(t.Columns, widths)
	p.pdf.SetFont("Helvetica", "", 10)
	p.text(rgb{0, 0, 0})
	for _, row := range t.Rows {
		if p.ensure(rowHeight) {
			p.drawTableHeader(t.Columns, widths)
			p.pdf.SetFont("Helvetica", "", 10)
			p.text(rgb{0, 0, 0})
		}
		p.pdf.SetX(marginX)
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			p.pdf.CellFormat(widths[i], rowHeight, p.tr(cell), "1", 0, alignStr(t.Columns[i].Align), false, 0, "")
		}
		p.pdf.Ln(rowHeight)
	}
}

func (p *page) drawTableHeader(cols []document.Column, widths []float64) {
	pdf := p.pdf
	p.fill(navy)
	p.text(white)
	p.stroke(gridGrey)
	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(marginX)
	for i, c := range cols {
		pdf.CellFormat(widths[i], rowHeight, p.tr(c.Header), "1", 0, alignStr(c.Align), true, 0, "")
	}
	pdf.Ln(rowHeight)
}

func (p *page) drawSummary(s *document.Summary) {
	pdf := p.pdf
	const (
		boxX = 100.0
		boxW = 90.0
	)
	h := 15 + lineHeight*float64(len(s.Lines)) + 3
	p.ensure(h)

	y := pdf.GetY()
	p.fill(panelGrey)
	pdf.Rect(boxX, y, boxW, h, "F")

	p.text(navy)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(boxX+5, y+3)
	pdf.CellFormat(boxW-10, lineHeight, p.tr(s.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, l := range s.Lines {
		pdf.SetX(boxX + 5)
		if l.Highlight {
			pdf.Ln(2)
			pdf.SetX(boxX + 5)
			pdf.SetFont("Helvetica", "B", 12)
			p.text(navy)
			pdf.CellFormat(40, lineHeight, p.tr(l.Label+":"), "", 0, "L", false, 0, "")
			p.text(pink)
			pdf.CellFormat(boxW-50, lineHeight, p.tr(l.Amount), "", 1, "R", false, 0, "")
			continue
		}
		pdf.SetFont("Helvetica", "", 11)
		p.text(rgb{0, 0, 0})
		pdf.CellFormat(50, lineHeight, p.tr(l.Label+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(boxW-60, lineHeight, p.tr(l.Amount), "", 1, "R", false, 0, "")
	}
}

func (p *page) drawEnvelope(doc *document.Document) {
	pdf := p.pdf
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	env := doc.Envelope
	if env == nil {
		env = &document.Envelope{}
	}

	p.text(mutedGrey)
	pdf.SetFont("Helvetica", "", 9)
	y := 12.0
	if p.hasLogo {
		pdf.ImageOptions(logoName, 10, 6, 0, 12, false, gofpdf.ImageOptions{}, 0, "")
		y = 22
	}
	for _, line := range env.Sender {
		pdf.Text(10, y, p.tr(line))
		y += 4.5
	}

	p.text(rgb{0, 0, 0})
	pdf.SetFont("Helvetica", "", 14)
	const recipientLine = 7.0
	y = (p.height - recipientLine*float64(len(env.Recipient))) / 2
	for _, line := range env.Recipient {
		pdf.SetXY(0, y)
		pdf.CellFormat(p.width, recipientLine, p.tr(line), "", 0, "C", false, 0, "")
		y += recipientLine
	}

	if env.Reference != "" {
		pdf.SetFont("Helvetica", "", 7)
		p.text(mutedGrey)
		ref := p.tr("Ref: " + env.Reference)
		pdf.Text(p.width-10-pdf.GetStringWidth(ref), p.height-6, ref)
	}
}

func columnWidths(cols []document.Column, total float64) []float64 {
	var sum float64
	for _, c := range cols {
		sum += c.Weight
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		if sum == 0 {
			widths[i] = total / float64(len(cols))
			continue
		}
		widths[i] = total * c.Weight / sum
	}
	return widths
}

func alignStr(a document.Align) string {
	switch a {
	case document.AlignCenter:
		return "C"
	case document.AlignRight:
		return "R"
	}
	return "L"
}
