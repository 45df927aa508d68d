package handler

import (
	"net/http"

	"blinds-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CostHandler struct {
	costService service.CostService
}

func NewCostHandler(costService service.CostService) *CostHandler {
	return &CostHandler{costService: costService}
}

func (h *CostHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/jobs/:id/costs", h.GetCosts)
	router.PUT("/api/jobs/:id/costs", h.UpdateCosts)
}

// GetCosts returns the job's cost settings and a freshly computed breakdown
// @Summary      Get job costs
// @Tags         costs
// @Produce      json
// @Param        id  path  string  true  "Job ID"
// @Success      200  {object}  response.Response{data=service.CostResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/costs [get]
func (h *CostHandler) GetCosts(c *gin.Context) {
	costs, err := h.costService.GetBreakdown(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, costs, err)
}

// UpdateCosts changes the carriage, fast track, VAT and profit rates, the additional
// costs and the document dates
// @Summary      Update job costs
// @Description  Only the fields that are sent change. additional_costs, when sent, replaces the whole list.
// @Tags         costs
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Job ID"
// @Param        payload  body  service.UpdateCostsRequest  true  "Cost settings"
// @Success      200  {object}  response.Response{data=service.CostResponse}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/jobs/{id}/costs [put]
func (h *CostHandler) UpdateCosts(c *gin.Context) {
	var req service.UpdateCostsRequest
	if !bindJSON(c, &req) {
		return
	}
	costs, err := h.costService.UpdateCostSettings(c.Request.Context(), c.Param("id"), req)
	respond(c, http.StatusOK, costs, err)
}
