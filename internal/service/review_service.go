package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/idcard-api/internal/dto"
	"github.com/campushq/idcard-api/internal/models"
	appErrors "github.com/campushq/idcard-api/pkg/errors"
)

// Decision actions accepted by Decide.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type reviewRequestStore interface {
	GetByID(ctx context.Context, id string) (*models.StudentRequest, error)
	ListPending(ctx context.Context) ([]models.StudentRequest, error)
	List(ctx context.Context, status *models.RequestStatus) ([]models.StudentRequest, error)
	MarkRejected(ctx context.Context, id string, reason *string, ts time.Time) error
}

type reviewArchiveStore interface {
	Archive(ctx context.Context, app *models.ApprovedApplication) error
	Recent(ctx context.Context, limit int) ([]models.ApprovedApplication, error)
}

type documentSigner interface {
	Generate(requestID, relPath string) (string, time.Time, error)
}

type listingInvalidator interface {
	InvalidateApplications(ctx context.Context)
}

// ReviewConfig tunes dashboard assembly.
type ReviewConfig struct {
	RecentApprovedLimit int
	DownloadPath        string
}

// ReviewService is the request lifecycle state machine: pending requests are
// either migrated to the approved archive or rejected in place.
type ReviewService struct {
	requests reviewRequestStore
	archive  reviewArchiveStore
	signer   documentSigner
	cache    listingInvalidator
	logger   *zap.Logger
	cfg      ReviewConfig
}

// NewReviewService constructs the service.
func NewReviewService(requests reviewRequestStore, archive reviewArchiveStore, signer documentSigner, cache listingInvalidator, logger *zap.Logger, cfg ReviewConfig) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RecentApprovedLimit <= 0 {
		cfg.RecentApprovedLimit = 5
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/api/admin/documents/download"
	}
	return &ReviewService{
		requests: requests,
		archive:  archive,
		signer:   signer,
		cache:    cache,
		logger:   logger,
		cfg:      cfg,
	}
}

// Dashboard returns pending applications decorated with signed document
// links plus the most recent approvals.
func (s *ReviewService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	pending, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending requests")
	}

	applications := make([]dto.PendingApplication, 0, len(pending))
	for _, req := range pending {
		applications = append(applications, dto.PendingApplication{
			StudentRequest: req,
			DocumentLinks:  s.documentLinks(req),
		})
	}

	recent, err := s.archive.Recent(ctx, s.cfg.RecentApprovedLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent approvals")
	}
	if recent == nil {
		recent = []models.ApprovedApplication{}
	}

	return &dto.DashboardResponse{
		PendingApplications: applications,
		RecentApproved:      recent,
	}, nil
}

// ListRequests returns active requests, optionally filtered by status.
func (s *ReviewService) ListRequests(ctx context.Context, status *models.RequestStatus) ([]models.StudentRequest, error) {
	requests, err := s.requests.List(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	if requests == nil {
		requests = []models.StudentRequest{}
	}
	return requests, nil
}

// Decide applies an administrator decision to a pending request. Approval
// migrates the record to the archive atomically; rejection mutates it in
// place. Rejected requests have no transition back to pending or approved.
func (s *ReviewService) Decide(ctx context.Context, requestID string, decision dto.DecisionRequest) (*dto.ActionResponse, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}

	switch decision.Action {
	case ActionApprove:
		return s.approve(ctx, req)
	case ActionReject:
		return s.reject(ctx, req, decision.Reason)
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidAction, fmt.Sprintf("invalid action %q", decision.Action))
	}
}

func (s *ReviewService) approve(ctx context.Context, req *models.StudentRequest) (*dto.ActionResponse, error) {
	app := &models.ApprovedApplication{
		SourceRequestID: req.ID,
		StudentID:       req.StudentID,
		CardType:        req.CardType,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Program:         req.Program,
		RequestType:     req.RequestType,
		Photo:           req.Photo,
		GDCopy:          req.GDCopy,
		OldIDImage:      req.OldIDImage,
		Documents:       req.Documents,
		ApprovedAt:      time.Now().UTC(),
	}

	if err := s.archive.Archive(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive request")
	}

	if s.cache != nil {
		s.cache.InvalidateApplications(ctx)
	}

	s.logger.Info("application approved",
		zap.String("request_id", req.ID),
		zap.String("application_id", app.ID),
	)
	return &dto.ActionResponse{Message: "Application approved"}, nil
}

func (s *ReviewService) reject(ctx context.Context, req *models.StudentRequest, reason string) (*dto.ActionResponse, error) {
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	if err := s.requests.MarkRejected(ctx, req.ID, reasonPtr, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject request")
	}

	s.logger.Info("application rejected",
		zap.String("request_id", req.ID),
		zap.Bool("reason_given", reasonPtr != nil),
	)
	return &dto.ActionResponse{Message: "Application rejected"}, nil
}

func (s *ReviewService) documentLinks(req models.StudentRequest) []dto.DocumentLink {
	if s.signer == nil {
		return nil
	}
	slots := []struct {
		name string
		ref  *string
	}{
		{SlotPhoto, req.Photo},
		{SlotGDCopy, req.GDCopy},
		{SlotOldIDImage, req.OldIDImage},
	}

	var links []dto.DocumentLink
	for _, slot := range slots {
		if slot.ref == nil || *slot.ref == "" {
			continue
		}
		token, _, err := s.signer.Generate(req.ID, *slot.ref)
		if err != nil {
			s.logger.Warn("failed to sign document link",
				zap.String("request_id", req.ID),
				zap.String("slot", slot.name),
				zap.Error(err),
			)
			continue
		}
		links = append(links, dto.DocumentLink{
			Slot:      slot.name,
			Reference: *slot.ref,
			URL:       fmt.Sprintf("%s?token=%s", s.cfg.DownloadPath, token),
		})
	}
	return links
}
