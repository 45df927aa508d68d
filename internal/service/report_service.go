package service

import (
	"context"
	"fmt"
	"time"

	"blinds-backend/internal/model"
	"blinds-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	jobsSheet         = "Jobs"
	blindsSheet       = "Blinds"
	topLocationsLimit = 5
	// excelize built-in number format "#,##0.00"
	moneyNumFmt = 4
)

var (
	jobsHeader   = []interface{}{"Job ID", "Name", "Organisation", "Status", "Postcode", "Subtotal", "VAT", "Profit", "Total", "Created"}
	blindsHeader = []interface{}{"Job ID", "Category", "Location", "Width (mm)", "Drop (mm)", "Quantity", "Unit Cost", "Line Total"}
)

type ReportService interface {
	// JobSummaryWorkbook exports every job and every blind as an XLSX workbook.
	JobSummaryWorkbook(ctx context.Context) ([]byte, error)
	SalesReport(ctx context.Context, start, end time.Time) (model.SalesReport, error)
}

type reportService struct {
	jobRepo    repository.JobRepository
	reportRepo repository.ReportRepository
}

func NewReportService(jobRepo repository.JobRepository, reportRepo repository.ReportRepository) ReportService {
	return &reportService{jobRepo: jobRepo, reportRepo: reportRepo}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func (s *reportService) JobSummaryWorkbook(ctx context.Context) ([]byte, error) {
	jobs, err := s.jobRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), jobsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(blindsSheet); err != nil {
		return nil, err
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, jobsSheet, 1, jobsHeader); err != nil {
		return nil, err
	}
	if err := writeRow(f, blindsSheet, 1, blindsHeader); err != nil {
		return nil, err
	}

	jobRow, blindRow := 2, 2
	for i := range jobs {
		j := &jobs[i]
		cs := j.CostSummary
		if cs == nil {
			cs = model.NewCostSummary(j.ID)
		}
		if err := writeRow(f, jobsSheet, jobRow, []interface{}{
			j.ID, j.Name, j.Organisation, string(j.Status), j.Postcode,
			money(cs.Subtotal), money(cs.VAT), money(cs.Profit), money(cs.Total),
			j.CreatedAt.Format("2006-01-02"),
		}); err != nil {
			return nil, err
		}
		jobRow++

		for _, b := range j.Blinds {
			if err := writeRow(f, blindsSheet, blindRow, []interface{}{
				j.ID, string(b.Category), b.Location, b.Width, b.Drop, b.Quantity,
				money(b.Cost), money(b.LineTotal()),
			}); err != nil {
				return nil, err
			}
			blindRow++
		}
	}

	styles := []struct {
		sheet      string
		start, end string
		rows       int
		style      int
	}{
		{jobsSheet, "A1", "J1", 1, headerStyle},
		{blindsSheet, "A1", "H1", 1, headerStyle},
		{jobsSheet, "F2", fmt.Sprintf("I%d", jobRow-1), jobRow - 2, moneyStyle},
		{blindsSheet, "G2", fmt.Sprintf("H%d", blindRow-1), blindRow - 2, moneyStyle},
	}
	for _, st := range styles {
		if st.rows < 1 {
			continue
		}
		if err := f.SetCellStyle(st.sheet, st.start, st.end, st.style); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(jobsSheet, "B", "C", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(blindsSheet, "C", "C", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func parseSum(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// SalesReport sums the stored cost snapshots of jobs created between start and end.
func (s *reportService) SalesReport(ctx context.Context, start, end time.Time) (model.SalesReport, error) {
	if end.Before(start) {
		return model.SalesReport{}, invalid("end date must not be before start date")
	}

	rows, err := s.reportRepo.TotalsByStatus(ctx, start, end)
	if err != nil {
		return model.SalesReport{}, err
	}
	locations, err := s.reportRepo.TopLocations(ctx, start, end, topLocationsLimit)
	if err != nil {
		return model.SalesReport{}, err
	}

	report := model.SalesReport{
		ByStatus:           make([]model.StatusTotals, 0, len(rows)),
		TopLocations:       locations,
		TimeRangeStartDate: start,
		TimeRangeEndDate:   end,
	}
	total, vat, profit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range rows {
		rowTotal, rowVAT, rowProfit := parseSum(r.Total), parseSum(r.VAT), parseSum(r.Profit)
		report.TotalJobs += r.JobCount
		total = total.Add(rowTotal)
		vat = vat.Add(rowVAT)
		profit = profit.Add(rowProfit)
		report.ByStatus = append(report.ByStatus, model.StatusTotals{
			Status:     r.Status,
			JobCount:   r.JobCount,
			TotalValue: rowTotal.StringFixed(2),
			VAT:        rowVAT.StringFixed(2),
			Profit:     rowProfit.StringFixed(2),
		})
	}
	report.TotalValue = total.StringFixed(2)
	report.TotalVAT = vat.StringFixed(2)
	report.TotalProfit = profit.StringFixed(2)

	for i := range report.TopLocations {
		report.TopLocations[i].TotalValue = parseSum(report.TopLocations[i].TotalValue).StringFixed(2)
	}
	if report.TopLocations == nil {
		report.TopLocations = []model.BlindLocation{}
	}
	return report, nil
}
