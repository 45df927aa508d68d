package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReportService_JobSummaryWorkbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)
	_, err := f.items.AddBlind(ctx, job.ID, "venetian", BlindRequest{Location: "Office", Width: 600, Drop: 800, Cost: d("55")})
	require.NoError(t, err)
	_, err = f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Empty job"})
	require.NoError(t, err)

	data, err := f.reports.JobSummaryWorkbook(ctx)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Jobs", "Blinds"}, wb.GetSheetList())

	jobs, err := wb.GetRows("Jobs")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "Job ID", jobs[0][0])
	assert.Equal(t, "AAB0001", jobs[1][0])
	assert.Equal(t, "active", jobs[1][3])

	total, err := wb.GetCellValue("Jobs", "I2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1030.95", total)

	blinds, err := wb.GetRows("Blinds")
	require.NoError(t, err)
	require.Len(t, blinds, 3)
	assert.Equal(t, "roller", blinds[1][1])
	assert.Equal(t, "venetian", blinds[2][1])
	assert.Equal(t, "Office", blinds[2][2])
}

func TestReportService_SalesReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)
	other, err := f.jobs.CreateJob(ctx, CreateJobRequest{Name: "Done", Status: "completed"})
	require.NoError(t, err)
	_, err = f.items.AddTask(ctx, other.ID, TaskRequest{Description: "Repair", Cost: d("100")})
	require.NoError(t, err)

	now := time.Now()
	report, err := f.reports.SalesReport(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.TotalJobs)
	// 951.20 + 100 * 1.45
	assert.Equal(t, "1096.20", report.TotalValue)
	assert.Equal(t, "151.20", report.TotalVAT)
	require.Len(t, report.ByStatus, 2)
	assert.Equal(t, model.JobStatusActive, report.ByStatus[0].Status)
	assert.Equal(t, "951.20", report.ByStatus[0].TotalValue)
	require.Len(t, report.TopLocations, 1)
	assert.Equal(t, "Kitchen", report.TopLocations[0].Location)
	assert.Equal(t, "491.00", report.TopLocations[0].TotalValue)

	empty, err := f.reports.SalesReport(ctx, now.Add(24*time.Hour), now.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalJobs)
	assert.Equal(t, "0.00", empty.TotalValue)
	assert.NotNil(t, empty.TopLocations)

	_, err = f.reports.SalesReport(ctx, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	_ = job
}

func TestActivityService_ListByJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	job := f.pricedJob(t)

	logs, total, err := f.activity.ListByJob(ctx, job.ID, 1, 10)
	require.NoError(t, err)
	// create, add blind, add task, update costs
	assert.Equal(t, int64(4), total)
	require.Len(t, logs, 4)
	assert.Equal(t, job.ID, logs[0].JobID)

	_, _, err = f.activity.ListByJob(ctx, "AAB0404", 1, 10)
	assert.ErrorIs(t, err, e.ErrNotFound)
}
