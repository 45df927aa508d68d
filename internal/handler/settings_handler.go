package handler

import (
	"io"
	"net/http"

	"blinds-backend/internal/service"
	"blinds-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	profileService service.ProfileService
}

func NewSettingsHandler(profileService service.ProfileService) *SettingsHandler {
	return &SettingsHandler{profileService: profileService}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/settings")
	{
		settings.GET("/company", h.GetCompany)
		settings.PUT("/company", h.UpdateCompany)
		settings.GET("/company/logo", h.GetLogo)
		settings.PUT("/company/logo", h.UploadLogo)
		settings.DELETE("/company/logo", h.DeleteLogo)
	}
}

// GetCompany
// @Summary      Get company profile
// @Tags         settings
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Router       /api/settings/company [get]
func (h *SettingsHandler) GetCompany(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context())
	respond(c, http.StatusOK, profile, err)
}

// UpdateCompany replaces the company details printed on documents
// @Summary      Update company profile
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        payload  body  service.ProfileRequest  true  "Company details"
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/settings/company [put]
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	var req service.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), req)
	respond(c, http.StatusOK, profile, err)
}

// GetLogo
// @Summary      Get company logo
// @Tags         settings
// @Produce      image/png
// @Produce      image/jpeg
// @Success      200  {file}    binary
// @Failure      404  {object}  response.Response
// @Router       /api/settings/company/logo [get]
func (h *SettingsHandler) GetLogo(c *gin.Context) {
	data, contentType, err := h.profileService.Logo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// UploadLogo stores a PNG or JPEG logo
// @Summary      Upload company logo
// @Tags         settings
// @Accept       multipart/form-data
// @Produce      json
// @Param        logo  formData  file  true  "PNG or JPEG, at most 2 MB"
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/settings/company/logo [put]
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	header, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing logo file: "+err.Error()))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read logo: "+err.Error()))
		return
	}
	defer file.Close()

	// one byte over the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(file, service.MaxLogoSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read logo: "+err.Error()))
		return
	}

	profile, err := h.profileService.UploadLogo(c.Request.Context(), data)
	respond(c, http.StatusOK, profile, err)
}

// DeleteLogo
// @Summary      Remove company logo
// @Tags         settings
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ProfileResponse}
// @Router       /api/settings/company/logo [delete]
func (h *SettingsHandler) DeleteLogo(c *gin.Context) {
	profile, err := h.profileService.DeleteLogo(c.Request.Context())
	respond(c, http.StatusOK, profile, err)
}
