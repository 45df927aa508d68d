package handler

import (
	"fmt"
	"net/http"
	"time"

	"blinds-backend/internal/service"
	"blinds-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService service.ReportService
	now           func() time.Time
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/jobs.xlsx", h.ExportJobs)
		reports.GET("/sales", h.GetSales)
	}
}

// ExportJobs downloads every job and its blinds as a spreadsheet
// @Summary      Export jobs
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      500  {object}  response.Response
// @Router       /api/reports/jobs.xlsx [get]
func (h *ReportHandler) ExportJobs(c *gin.Context) {
	data, err := h.reportService.JobSummaryWorkbook(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("jobs-%s.xlsx", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetSales totals job value, VAT and profit over a date range
// @Summary      Sales report
// @Description  Defaults to the current month. Dates may be RFC3339 or YYYY-MM-DD.
// @Tags         reports
// @Produce      json
// @Param        start_date  query  string  false  "Start date"
// @Param        end_date    query  string  false  "End date, inclusive"
// @Success      200  {object}  response.Response{data=model.SalesReport}
// @Failure      400  {object}  response.Response
// @Router       /api/reports/sales [get]
func (h *ReportHandler) GetSales(c *gin.Context) {
	now := h.now()

	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if raw := c.Query("start_date"); raw != "" {
		t, _, err := parseQueryDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start_date format, expected RFC3339 or YYYY-MM-DD"))
			return
		}
		startDate = t
	}

	endDate := now
	if raw := c.Query("end_date"); raw != "" {
		t, dateOnly, err := parseQueryDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end_date format, expected RFC3339 or YYYY-MM-DD"))
			return
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		endDate = t
	}

	report, err := h.reportService.SalesReport(c.Request.Context(), startDate, endDate)
	respond(c, http.StatusOK, report, err)
}

// parseQueryDate reports whether raw carried only a calendar date.
func parseQueryDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	return t, true, err
}
