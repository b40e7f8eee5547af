package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/idcard-api/internal/service"
	appErrors "github.com/campushq/idcard-api/pkg/errors"
	"github.com/campushq/idcard-api/pkg/response"
)

// IntakeHandler exposes the public student submission endpoint.
type IntakeHandler struct {
	service *service.IntakeService
}

// NewIntakeHandler constructs IntakeHandler.
func NewIntakeHandler(svc *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{service: svc}
}

// Submit godoc
// @Summary Submit an ID card request
// @Description Multipart form with identity fields and up to three documents
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param email formData string true "Email"
// @Param program formData string true "Program"
// @Param photo formData file false "Photo"
// @Param gdCopy formData file false "GD copy"
// @Param oldIdImage formData file false "Old ID image"
// @Success 201 {object} models.StudentRequest
// @Failure 400 {object} response.ErrorBody
// @Router /api/students [post]
func (h *IntakeHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	var uploads []service.DocumentUpload
	for _, slot := range []string{service.SlotPhoto, service.SlotGDCopy, service.SlotOldIDImage} {
		fileHeader, err := c.FormFile(slot)
		if err != nil {
			continue
		}
		upload, err := openUpload(slot, fileHeader)
		if err != nil {
			response.Error(c, err)
			return
		}
		uploads = append(uploads, *upload)
	}

	request, err := h.service.Submit(c.Request.Context(), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}

func openUpload(slot string, fileHeader *multipart.FileHeader) (*service.DocumentUpload, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file")
	}
	defer src.Close() //nolint:errcheck

	// Buffered so the part stays readable after the multipart body is closed.
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer uploaded file")
	}

	return &service.DocumentUpload{
		Slot:     slot,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  bytes.NewReader(buf),
	}, nil
}
