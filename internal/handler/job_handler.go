package handler

import (
	"net/http"

	"blinds-backend/internal/service"
	"blinds-backend/pkg/pagination"
	"blinds-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService      service.JobService
	activityService service.ActivityService
}

func NewJobHandler(jobService service.JobService, activityService service.ActivityService) *JobHandler {
	return &JobHandler{jobService: jobService, activityService: activityService}
}

func (h *JobHandler) RegisterRoutes(router *gin.RouterGroup) {
	jobs := router.Group("/api/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.POST("", h.CreateJob)
		jobs.GET("/:id", h.GetJob)
		jobs.PUT("/:id", h.UpdateJob)
		jobs.DELETE("/:id", h.DeleteJob)
		jobs.POST("/:id/duplicate", h.DuplicateJob)
		jobs.GET("/:id/activity", h.ListActivity)
	}
}

// ListJobs returns paginated jobs, newest first
// @Summary      List jobs
// @Tags         jobs
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        status  query     string  false  "Filter by status: active, completed, cancelled"
// @Param        search  query     string  false  "Search by job ID, name or organisation"
// @Success      200     {object}  response.Response{data=[]service.JobSummaryResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	p := pagination.Parse(c)

	jobs, total, err := h.jobService.ListJobs(c.Request.Context(), c.Query("status"), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, jobs, p.Page, p.Limit, total))
}

// CreateJob creates a job with the default cost configuration
// @Summary      Create job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateJobRequest  true  "Job payload"
// @Success      201  {object}  response.Response{data=service.JobResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/jobs [post]
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req service.CreateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, job))
}

// GetJob returns a job with everything it owns and its live cost breakdown
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path  string  true  "Job ID"
// @Success      200  {object}  response.Response{data=service.JobResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// UpdateJob changes the fields that are sent
// @Summary      Update job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "Job ID"
// @Param        payload  body  service.UpdateJobRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.JobResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) UpdateJob(c *gin.Context) {
	var req service.UpdateJobRequest
	if !bindJSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, job))
}

// DeleteJob removes a job and everything it owns
// @Summary      Delete job
// @Tags         jobs
// @Produce      json
// @Param        id  path  string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id} [delete]
func (h *JobHandler) DeleteJob(c *gin.Context) {
	if err := h.jobService.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Job deleted successfully"}))
}

// DuplicateJob copies a job under a new ID
// @Summary      Duplicate job
// @Tags         jobs
// @Produce      json
// @Param        id  path  string  true  "Job ID to copy"
// @Success      201  {object}  response.Response{data=service.JobResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/duplicate [post]
func (h *JobHandler) DuplicateJob(c *gin.Context) {
	job, err := h.jobService.DuplicateJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, job))
}

// ListActivity returns a job's change history
// @Summary      Job activity log
// @Tags         jobs
// @Produce      json
// @Param        id     path   string  true   "Job ID"
// @Param        page   query  int     false  "Page number (default: 1)"
// @Param        limit  query  int     false  "Items per page (default: 20)"
// @Success      200  {object}  response.Response{data=[]service.ActivityResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/activity [get]
func (h *JobHandler) ListActivity(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.activityService.ListByJob(c.Request.Context(), c.Param("id"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, logs, p.Page, p.Limit, total))
}
