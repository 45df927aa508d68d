package handler

import (
	"fmt"
	"net/http"

	"blinds-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/jobs/:id/documents/:kind", h.Download)
}

// Download renders one of the job's documents as a PDF
// @Summary      Download document
// @Tags         documents
// @Produce      application/pdf
// @Param        id    path  string  true  "Job ID"
// @Param        kind  path  string  true  "quote, invoice, receipt or envelope"
// @Success      200  {file}    binary
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /api/jobs/{id}/documents/{kind} [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.documentService.Generate(c.Request.Context(), c.Param("id"), c.Param("kind"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
