package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campushq/idcard-api/internal/dto"
	"github.com/campushq/idcard-api/internal/models"
	"github.com/campushq/idcard-api/internal/service"
	appErrors "github.com/campushq/idcard-api/pkg/errors"
	"github.com/campushq/idcard-api/pkg/response"
	"github.com/campushq/idcard-api/pkg/storage"
)

// AdminHandler serves the authenticated review surface: dashboard, request
// decisions, archive export and signed document downloads.
type AdminHandler struct {
	review  *service.ReviewService
	archive *service.ArchiveService
	signer  *storage.SignedURLSigner
	files   *storage.LocalStorage
	logger  *zap.Logger
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(review *service.ReviewService, archive *service.ArchiveService, signer *storage.SignedURLSigner, files *storage.LocalStorage, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{review: review, archive: archive, signer: signer, files: files, logger: logger}
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Pending applications with signed document links plus recent approvals
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} response.ErrorBody
// @Router /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	res, err := h.review.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// ListRequests godoc
// @Summary List student requests
// @Description Active requests, optionally filtered by status (pending or rejected)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Success 200 {array} models.StudentRequest
// @Failure 401 {object} response.ErrorBody
// @Router /api/admin/requests [get]
func (h *AdminHandler) ListRequests(c *gin.Context) {
	var status *models.RequestStatus
	if raw := c.Query("status"); raw != "" {
		st := models.RequestStatus(raw)
		if st != models.StatusPending && st != models.StatusRejected {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", raw)))
			return
		}
		status = &st
	}

	requests, err := h.review.ListRequests(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests)
}

// Decide godoc
// @Summary Decide on a request
// @Description Approve (migrates to archive) or reject (marks in place) a pending request
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} dto.ActionResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/admin/application/{id}/action [post]
func (h *AdminHandler) Decide(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "request id required"))
		return
	}

	var decision dto.DecisionRequest
	if err := c.ShouldBindJSON(&decision); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims != nil {
		h.logger.Info("decision received",
			zap.String("request_id", id),
			zap.String("action", decision.Action),
			zap.String("admin", claims.Username),
		)
	}

	res, err := h.review.Decide(c.Request.Context(), id, decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Export godoc
// @Summary Export approved applications
// @Description Download the approved archive as a CSV or PDF attachment
// @Tags Admin
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorBody
// @Router /api/admin/applications/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	result, err := h.archive.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// DownloadDocument godoc
// @Summary Download a request document
// @Description Streams a stored document referenced by a signed token
// @Tags Admin
// @Produce octet-stream
// @Security BearerAuth
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/admin/documents/download [get]
func (h *AdminHandler) DownloadDocument(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}

	requestID, relPath, _, err := h.signer.Parse(token)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, "invalid download token"))
		return
	}

	file, err := h.files.Open(relPath)
	if err != nil {
		h.logger.Warn("document not found on disk",
			zap.String("request_id", requestID),
			zap.String("path", relPath),
		)
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "document not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	contentType := mime.TypeByExtension(filepath.Ext(relPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(relPath)))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.logger.Warn("document stream interrupted", zap.Error(err))
	}
}
