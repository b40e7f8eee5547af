package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/idcard-api/internal/dto"
	"github.com/campushq/idcard-api/internal/service"
	"github.com/campushq/idcard-api/pkg/response"
)

// ApplicationHandler serves the public read-only archive listing.
type ApplicationHandler struct {
	archive *service.ArchiveService
}

// NewApplicationHandler constructs ApplicationHandler.
func NewApplicationHandler(archive *service.ArchiveService) *ApplicationHandler {
	return &ApplicationHandler{archive: archive}
}

// List godoc
// @Summary List approved applications
// @Description Public listing of the approved archive in approval order
// @Tags Applications
// @Produce json
// @Success 200 {object} dto.ApplicationsResponse
// @Failure 500 {object} response.ErrorBody
// @Router /api/applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	apps, cached, err := h.archive.ListApproved(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if cached {
		c.Header("X-Cache", "HIT")
	}
	response.JSON(c, http.StatusOK, dto.ApplicationsResponse{Applications: apps})
}
