package handler

import (
	"net/http"

	"blinds-backend/internal/service"
	"blinds-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// LineItemHandler serves the collections owned by a job: blinds, tasks, contacts and surveys.
type LineItemHandler struct {
	service service.LineItemService
}

func NewLineItemHandler(s service.LineItemService) *LineItemHandler {
	return &LineItemHandler{service: s}
}

func (h *LineItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	job := router.Group("/api/jobs/:id")
	{
		job.POST("/blinds/:category", h.AddBlind)
		job.PUT("/blinds/:category/:itemId", h.UpdateBlind)
		job.DELETE("/blinds/:category/:itemId", h.DeleteBlind)
		job.POST("/blinds/:category/:itemId/duplicate", h.DuplicateBlind)

		job.POST("/tasks", h.AddTask)
		job.PUT("/tasks/:itemId", h.UpdateTask)
		job.DELETE("/tasks/:itemId", h.DeleteTask)

		job.POST("/contacts", h.AddContact)
		job.PUT("/contacts/:itemId", h.UpdateContact)
		job.DELETE("/contacts/:itemId", h.DeleteContact)

		job.POST("/surveys", h.AddSurvey)
		job.PUT("/surveys/:itemId", h.UpdateSurvey)
		job.DELETE("/surveys/:itemId", h.DeleteSurvey)
	}
}

func deleted(c *gin.Context, what string, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": what + " deleted successfully"}))
}

func respond[T any](c *gin.Context, status int, data T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, response.Success(status, data))
}

// AddBlind adds a blind to one of the job's categories
// @Summary      Add blind
// @Tags         blinds
// @Accept       json
// @Produce      json
// @Param        id        path  string                true  "Job ID"
// @Param        category  path  string                true  "roller, vertical or venetian"
// @Param        payload   body  service.BlindRequest  true  "Blind payload"
// @Success      201  {object}  response.Response{data=service.BlindResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/blinds/{category} [post]
func (h *LineItemHandler) AddBlind(c *gin.Context) {
	var req service.BlindRequest
	if !bindJSON(c, &req) {
		return
	}
	blind, err := h.service.AddBlind(c.Request.Context(), c.Param("id"), c.Param("category"), req)
	respond(c, http.StatusCreated, blind, err)
}

// UpdateBlind replaces a blind's fields
// @Summary      Update blind
// @Tags         blinds
// @Accept       json
// @Produce      json
// @Param        id        path  string                true  "Job ID"
// @Param        category  path  string                true  "roller, vertical or venetian"
// @Param        itemId    path  string                true  "Blind ID"
// @Param        payload   body  service.BlindRequest  true  "Blind payload"
// @Success      200  {object}  response.Response{data=service.BlindResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/blinds/{category}/{itemId} [put]
func (h *LineItemHandler) UpdateBlind(c *gin.Context) {
	var req service.BlindRequest
	if !bindJSON(c, &req) {
		return
	}
	blind, err := h.service.UpdateBlind(c.Request.Context(), c.Param("id"), c.Param("category"), c.Param("itemId"), req)
	respond(c, http.StatusOK, blind, err)
}

// DeleteBlind removes a blind
// @Summary      Delete blind
// @Tags         blinds
// @Produce      json
// @Param        id        path  string  true  "Job ID"
// @Param        category  path  string  true  "roller, vertical or venetian"
// @Param        itemId    path  string  true  "Blind ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/blinds/{category}/{itemId} [delete]
func (h *LineItemHandler) DeleteBlind(c *gin.Context) {
	err := h.service.DeleteBlind(c.Request.Context(), c.Param("id"), c.Param("category"), c.Param("itemId"))
	deleted(c, "Blind", err)
}

// DuplicateBlind copies a blind to the end of its category
// @Summary      Duplicate blind
// @Tags         blinds
// @Produce      json
// @Param        id        path  string  true  "Job ID"
// @Param        category  path  string  true  "roller, vertical or venetian"
// @Param        itemId    path  string  true  "Blind ID"
// @Success      201  {object}  response.Response{data=service.BlindResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/blinds/{category}/{itemId}/duplicate [post]
func (h *LineItemHandler) DuplicateBlind(c *gin.Context) {
	blind, err := h.service.DuplicateBlind(c.Request.Context(), c.Param("id"), c.Param("category"), c.Param("itemId"))
	respond(c, http.StatusCreated, blind, err)
}

// AddTask
// @Summary      Add task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Job ID"
// @Param        payload  body  service.TaskRequest  true  "Task payload"
// @Success      201  {object}  response.Response{data=service.TaskResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/tasks [post]
func (h *LineItemHandler) AddTask(c *gin.Context) {
	var req service.TaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.service.AddTask(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusCreated, task, err)
}

// UpdateTask
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Job ID"
// @Param        itemId   path  string               true  "Task ID"
// @Param        payload  body  service.TaskRequest  true  "Task payload"
// @Success      200  {object}  response.Response{data=service.TaskResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/tasks/{itemId} [put]
func (h *LineItemHandler) UpdateTask(c *gin.Context) {
	var req service.TaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.service.UpdateTask(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	respond(c, http.StatusOK, task, err)
}

// DeleteTask
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Param        id      path  string  true  "Job ID"
// @Param        itemId  path  string  true  "Task ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/tasks/{itemId} [delete]
func (h *LineItemHandler) DeleteTask(c *gin.Context) {
	deleted(c, "Task", h.service.DeleteTask(c.Request.Context(), c.Param("id"), c.Param("itemId")))
}

// AddContact
// @Summary      Add contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "Job ID"
// @Param        payload  body  service.ContactRequest  true  "Contact payload"
// @Success      201  {object}  response.Response{data=service.ContactResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/contacts [post]
func (h *LineItemHandler) AddContact(c *gin.Context) {
	var req service.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	contact, err := h.service.AddContact(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusCreated, contact, err)
}

// UpdateContact
// @Summary      Update contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "Job ID"
// @Param        itemId   path  string                  true  "Contact ID"
// @Param        payload  body  service.ContactRequest  true  "Contact payload"
// @Success      200  {object}  response.Response{data=service.ContactResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/contacts/{itemId} [put]
func (h *LineItemHandler) UpdateContact(c *gin.Context) {
	var req service.ContactRequest
	if !bindJSON(c, &req) {
		return
	}
	contact, err := h.service.UpdateContact(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	respond(c, http.StatusOK, contact, err)
}

// DeleteContact
// @Summary      Delete contact
// @Tags         contacts
// @Produce      json
// @Param        id      path  string  true  "Job ID"
// @Param        itemId  path  string  true  "Contact ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/contacts/{itemId} [delete]
func (h *LineItemHandler) DeleteContact(c *gin.Context) {
	deleted(c, "Contact", h.service.DeleteContact(c.Request.Context(), c.Param("id"), c.Param("itemId")))
}

// AddSurvey
// @Summary      Add survey
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "Job ID"
// @Param        payload  body  service.SurveyRequest  true  "Survey payload"
// @Success      201  {object}  response.Response{data=service.SurveyResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/surveys [post]
func (h *LineItemHandler) AddSurvey(c *gin.Context) {
	var req service.SurveyRequest
	if !bindJSON(c, &req) {
		return
	}
	survey, err := h.service.AddSurvey(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusCreated, survey, err)
}

// UpdateSurvey
// @Summary      Update survey
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "Job ID"
// @Param        itemId   path  string                 true  "Survey ID"
// @Param        payload  body  service.SurveyRequest  true  "Survey payload"
// @Success      200  {object}  response.Response{data=service.SurveyResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/surveys/{itemId} [put]
func (h *LineItemHandler) UpdateSurvey(c *gin.Context) {
	var req service.SurveyRequest
	if !bindJSON(c, &req) {
		return
	}
	survey, err := h.service.UpdateSurvey(c.Request.Context(), c.Param("id"), c.Param("itemId"), req)
	respond(c, http.StatusOK, survey, err)
}

// DeleteSurvey
// @Summary      Delete survey
// @Tags         surveys
// @Produce      json
// @Param        id      path  string  true  "Job ID"
// @Param        itemId  path  string  true  "Survey ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/surveys/{itemId} [delete]
func (h *LineItemHandler) DeleteSurvey(c *gin.Context) {
	deleted(c, "Survey", h.service.DeleteSurvey(c.Request.Context(), c.Param("id"), c.Param("itemId")))
}
