package handler

import (
	"net/http"

	"blinds-backend/internal/service"
	"blinds-backend/pkg/pagination"
	"blinds-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuoteHandler struct {
	quoteService service.QuoteService
}

func NewQuoteHandler(quoteService service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

func (h *QuoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	quotes := router.Group("/api/quotes")
	{
		quotes.GET("", h.ListQuotes)
		quotes.POST("", h.CreateQuote)
		quotes.GET("/:quoteId", h.GetQuote)
		quotes.PUT("/:quoteId", h.UpdateQuote)
		quotes.DELETE("/:quoteId", h.DeleteQuote)
	}
}

// ListQuotes returns paginated quotes, newest first
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        job_id  query     string  false  "Only quotes for this job"
// @Param        status  query     string  false  "Filter by status: draft, sent, accepted, rejected"
// @Param        search  query     string  false  "Search by quote ID, job ID, job name or client"
// @Success      200     {object}  response.Response{data=[]service.QuoteResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	p := pagination.Parse(c)

	quotes, total, err := h.quoteService.ListQuotes(c.Request.Context(), c.Query("job_id"), c.Query("status"), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, quotes, p.Page, p.Limit, total))
}

// CreateQuote opens a draft quote for a job
// @Summary      Create quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateQuoteRequest  true  "Quote payload"
// @Success      201  {object}  response.Response{data=service.QuoteResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req service.CreateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), req)
	respond(c, http.StatusCreated, quote, err)
}

// @Summary      Get quote
// @Tags         quotes
// @Produce      json
// @Param        quoteId  path  string  true  "Quote ID"
// @Success      200  {object}  response.Response{data=service.QuoteResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/quotes/{quoteId} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.GetQuote(c.Request.Context(), c.Param("quoteId"))
	respond(c, http.StatusOK, quote, err)
}

// UpdateQuote changes the status, valid-until date or notes
// @Summary      Update quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        quoteId  path  string                      true  "Quote ID"
// @Param        payload  body  service.UpdateQuoteRequest  true  "Update payload"
// @Success      200  {object}  response.Response{data=service.QuoteResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/quotes/{quoteId} [put]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	var req service.UpdateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), c.Param("quoteId"), req)
	respond(c, http.StatusOK, quote, err)
}

// @Summary      Delete quote
// @Tags         quotes
// @Produce      json
// @Param        quoteId  path  string  true  "Quote ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/quotes/{quoteId} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	deleted(c, "Quote", h.quoteService.DeleteQuote(c.Request.Context(), c.Param("quoteId")))
}
