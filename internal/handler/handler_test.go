package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	e "blinds-backend/internal/errors"
	"blinds-backend/internal/model"
	"blinds-backend/internal/service"
	"blinds-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes embed the service interface and override only what a test needs;
// calling anything else panics on the nil embedded value.

type fakeJobService struct {
	service.JobService
	listFunc   func(ctx context.Context, status, search string, page, limit int) ([]service.JobSummaryResponse, int64, error)
	createFunc func(ctx context.Context, req service.CreateJobRequest) (service.JobResponse, error)
	getFunc    func(ctx context.Context, id string) (service.JobResponse, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (f *fakeJobService) ListJobs(ctx context.Context, status, search string, page, limit int) ([]service.JobSummaryResponse, int64, error) {
	return f.listFunc(ctx, status, search, page, limit)
}

func (f *fakeJobService) CreateJob(ctx context.Context, req service.CreateJobRequest) (service.JobResponse, error) {
	return f.createFunc(ctx, req)
}

func (f *fakeJobService) GetJob(ctx context.Context, id string) (service.JobResponse, error) {
	return f.getFunc(ctx, id)
}

func (f *fakeJobService) DeleteJob(ctx context.Context, id string) error {
	return f.deleteFunc(ctx, id)
}

type fakeDocumentService struct {
	generateFunc func(ctx context.Context, jobID, kind string) (service.DocumentFile, error)
}

func (f *fakeDocumentService) Generate(ctx context.Context, jobID, kind string) (service.DocumentFile, error) {
	return f.generateFunc(ctx, jobID, kind)
}

type fakeReportService struct {
	service.ReportService
	salesFunc func(ctx context.Context, start, end time.Time) (model.SalesReport, error)
}

func (f *fakeReportService) SalesReport(ctx context.Context, start, end time.Time) (model.SalesReport, error) {
	return f.salesFunc(ctx, start, end)
}

type fakeProfileService struct {
	service.ProfileService
	uploaded []byte
}

func (f *fakeProfileService) UploadLogo(_ context.Context, data []byte) (service.ProfileResponse, error) {
	f.uploaded = data
	if len(data) > service.MaxLogoSize {
		return service.ProfileResponse{}, fmt.Errorf("%w: logo too large", e.ErrInvalidInput)
	}
	return service.ProfileResponse{HasLogo: true, LogoType: "image/png"}, nil
}

func newRouter(register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(&r.RouterGroup)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("job AAB0001: %w", e.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: width must be positive", e.ErrInvalidInput), http.StatusBadRequest},
		{e.ErrUnknownDocumentKind, http.StatusBadRequest},
		{fmt.Errorf("%w: duplicate key", e.ErrConflict), http.StatusConflict},
		{e.ErrMissingCostSummary, http.StatusUnprocessableEntity},
		{fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestJobHandler_ListJobs(t *testing.T) {
	var gotStatus, gotSearch string
	var gotPage, gotLimit int
	jobs := &fakeJobService{
		listFunc: func(_ context.Context, status, search string, page, limit int) ([]service.JobSummaryResponse, int64, error) {
			gotStatus, gotSearch, gotPage, gotLimit = status, search, page, limit
			return []service.JobSummaryResponse{{ID: "AAB0001", Total: "951.20"}}, 41, nil
		},
	}
	r := newRouter(NewJobHandler(jobs, nil).RegisterRoutes)

	w := do(t, r, http.MethodGet, "/api/jobs?status=active&search=school&page=2&limit=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", gotStatus)
	assert.Equal(t, "school", gotSearch)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 20, gotLimit)

	resp := decode(t, w)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, int64(41), resp.Pagination.Total)
	assert.Equal(t, int64(3), resp.Pagination.TotalPages)
}

func TestJobHandler_CreateJob(t *testing.T) {
	jobs := &fakeJobService{
		createFunc: func(_ context.Context, req service.CreateJobRequest) (service.JobResponse, error) {
			return service.JobResponse{ID: "AAB0001", Name: req.Name}, nil
		},
	}
	r := newRouter(NewJobHandler(jobs, nil).RegisterRoutes)

	t.Run("created", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/jobs", service.CreateJobRequest{Name: "St Mary's"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"AAB0001"`)
	})

	t.Run("missing name", func(t *testing.T) {
		w := do(t, r, http.MethodPost, "/api/jobs", map[string]string{"organisation": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w).Error, "Invalid request payload")
	})
}

func TestJobHandler_Errors(t *testing.T) {
	jobs := &fakeJobService{
		getFunc: func(_ context.Context, id string) (service.JobResponse, error) {
			return service.JobResponse{}, fmt.Errorf("job %s: %w", id, e.ErrNotFound)
		},
		deleteFunc: func(context.Context, string) error {
			return fmt.Errorf("disk full")
		},
	}
	r := newRouter(NewJobHandler(jobs, nil).RegisterRoutes)

	w := do(t, r, http.MethodGet, "/api/jobs/AAB0099", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "job AAB0099: not found", decode(t, w).Error)

	w = do(t, r, http.MethodDelete, "/api/jobs/AAB0001", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDocumentHandler_Download(t *testing.T) {
	docs := &fakeDocumentService{
		generateFunc: func(_ context.Context, jobID, kind string) (service.DocumentFile, error) {
			switch kind {
			case "quote":
				return service.DocumentFile{Filename: "quote-" + jobID + ".pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.3")}, nil
			case "invoice":
				return service.DocumentFile{}, e.ErrMissingCostSummary
			default:
				return service.DocumentFile{}, fmt.Errorf("%w: %s", e.ErrUnknownDocumentKind, kind)
			}
		},
	}
	r := newRouter(NewDocumentHandler(docs).RegisterRoutes)

	w := do(t, r, http.MethodGet, "/api/jobs/AAB0001/documents/quote", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="quote-AAB0001.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, r, http.MethodGet, "/api/jobs/AAB0001/documents/invoice", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/api/jobs/AAB0001/documents/letter", nil).Code)
}

func TestReportHandler_GetSales(t *testing.T) {
	var gotStart, gotEnd time.Time
	reports := &fakeReportService{
		salesFunc: func(_ context.Context, start, end time.Time) (model.SalesReport, error) {
			gotStart, gotEnd = start, end
			if end.Before(start) {
				return model.SalesReport{}, fmt.Errorf("%w: end date must not be before start date", e.ErrInvalidInput)
			}
			return model.SalesReport{TotalJobs: 2}, nil
		},
	}
	h := NewReportHandler(reports)
	h.now = func() time.Time { return time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC) }
	r := newRouter(h.RegisterRoutes)

	t.Run("defaults to current month", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/reports/sales", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), gotStart)
		assert.Equal(t, time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC), gotEnd)
	})

	t.Run("date only end is inclusive", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/reports/sales?start_date=2026-01-01&end_date=2026-01-31", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), gotStart)
		assert.Equal(t, time.Date(2026, 1, 31, 23, 59, 59, 999999999, time.UTC), gotEnd)
	})

	t.Run("rfc3339", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/reports/sales?start_date=2026-02-01T09:00:00Z", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), gotStart)
	})

	t.Run("bad format", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/reports/sales?end_date=31/01/2026", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reversed range", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/reports/sales?start_date=2026-02-01&end_date=2026-01-01", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSettingsHandler_UploadLogo(t *testing.T) {
	profiles := &fakeProfileService{}
	r := newRouter(NewSettingsHandler(profiles).RegisterRoutes)

	upload := func(field string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile(field, "logo.png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/api/settings/company/logo", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("stored", func(t *testing.T) {
		w := upload("logo", []byte("\x89PNG\r\n\x1a\n"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), profiles.uploaded)
	})

	t.Run("oversized is cut one byte past the limit", func(t *testing.T) {
		w := upload("logo", make([]byte, service.MaxLogoSize+500))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, profiles.uploaded, service.MaxLogoSize+1)
	})

	t.Run("missing field", func(t *testing.T) {
		w := upload("image", []byte("x"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w).Error, "Missing logo file")
	})
}
