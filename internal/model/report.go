package model

import (
	"time"
)

// SalesReport aggregates cached job totals over a creation-date window.
type SalesReport struct {
	TotalJobs          int64           `json:"total_jobs"`
	TotalValue         string          `json:"total_value"`
	TotalVAT           string          `json:"total_vat"`
	TotalProfit        string          `json:"total_profit"`
	ByStatus           []StatusTotals  `json:"by_status"`
	TopLocations       []BlindLocation `json:"top_locations"`
	TimeRangeStartDate time.Time       `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time       `json:"time_range_end_date"`
}

// StatusTotals is one row of the per-status breakdown.
type StatusTotals struct {
	Status     JobStatus `json:"status"`
	JobCount   int64     `json:"job_count"`
	TotalValue string    `json:"total_value"`
	VAT        string    `json:"vat"`
	Profit     string    `json:"profit"`
}

// BlindLocation ranks locations by the number of blinds fitted there
type BlindLocation struct {
	Location      string `json:"location"`
	TotalQuantity int    `json:"total_quantity"`
	TotalValue    string `json:"total_value"`
}
