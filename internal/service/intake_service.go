package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/idcard-api/internal/models"
	appErrors "github.com/campushq/idcard-api/pkg/errors"
)

// Document slots accepted by the intake form, one file each.
const (
	SlotPhoto      = "photo"
	SlotGDCopy     = "gdCopy"
	SlotOldIDImage = "oldIdImage"
)

type requestCreator interface {
	Create(ctx context.Context, req *models.StudentRequest) error
}

type uploadStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// SubmitRequest carries the applicant identity fields.
type SubmitRequest struct {
	StudentID   string `json:"studentId" form:"studentId"`
	CardType    string `json:"cardType" form:"cardType"`
	FirstName   string `json:"firstName" form:"firstName" validate:"required"`
	LastName    string `json:"lastName" form:"lastName"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Program     string `json:"program" form:"program" validate:"required"`
	RequestType string `json:"requestType" form:"requestType"`
}

// DocumentUpload carries one uploaded document stream and its metadata.
type DocumentUpload struct {
	Slot     string
	Filename string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
}

// IntakeConfig holds upload validation parameters.
type IntakeConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
}

// IntakeService accepts applicant submissions and creates pending requests.
type IntakeService struct {
	repo      requestCreator
	storage   uploadStorage
	validator *validator.Validate
	logger    *zap.Logger
	cfg       IntakeConfig
	mimeSet   map[string]struct{}
}

// NewIntakeService constructs the service with defaults.
func NewIntakeService(repo requestCreator, storage uploadStorage, validate *validator.Validate, logger *zap.Logger, cfg IntakeConfig) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &IntakeService{
		repo:      repo,
		storage:   storage,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		mimeSet:   mimeSet,
	}
}

// Submit validates the payload, persists the uploaded documents and creates
// a pending student request.
func (s *IntakeService) Submit(ctx context.Context, req SubmitRequest, uploads []DocumentUpload) (*models.StudentRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	record := &models.StudentRequest{
		StudentID:   req.StudentID,
		CardType:    req.CardType,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Program:     req.Program,
		RequestType: req.RequestType,
		Status:      models.StatusPending,
		Documents:   []string{},
	}

	for _, upload := range uploads {
		ref, err := s.storeDocument(upload)
		if err != nil {
			return nil, err
		}
		switch upload.Slot {
		case SlotPhoto:
			record.Photo = &ref
		case SlotGDCopy:
			record.GDCopy = &ref
		case SlotOldIDImage:
			record.OldIDImage = &ref
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown document field %q", upload.Slot))
		}
		record.Documents = append(record.Documents, ref)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store request")
	}

	s.logger.Info("student request submitted",
		zap.String("request_id", record.ID),
		zap.Int("documents", len(record.Documents)),
	)
	return record, nil
}

func (s *IntakeService) storeDocument(upload DocumentUpload) (string, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s file is empty", upload.Slot))
	}
	if upload.Size > s.cfg.MaxFileSize {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds %d bytes limit", upload.Slot, s.cfg.MaxFileSize))
	}

	mimeType, err := s.detectMime(upload)
	if err != nil {
		return "", err
	}
	if _, allowed := s.mimeSet[strings.ToLower(mimeType)]; !allowed {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s mime type not allowed", upload.Slot))
	}

	// Stored under a generated name so applicant-chosen filenames cannot
	// collide or traverse outside the upload directory.
	ext := strings.ToLower(filepath.Ext(filepath.Base(upload.Filename)))
	filename := filepath.Join("documents", uuid.NewString()+ext)

	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if _, err := s.storage.SaveStream(filename, upload.Content); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist document")
	}
	return filename, nil
}

func (s *IntakeService) detectMime(upload DocumentUpload) (string, error) {
	if upload.MimeType != "" && upload.MimeType != "application/octet-stream" {
		return upload.MimeType, nil
	}
	head := make([]byte, 512)
	n, err := upload.Content.Read(head)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sniff document type")
	}
	detected := http.DetectContentType(head[:n])
	if idx := strings.Index(detected, ";"); idx > 0 {
		detected = detected[:idx]
	}
	return detected, nil
}
