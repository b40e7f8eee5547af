package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/idcard-api/internal/models"
	appErrors "github.com/campushq/idcard-api/pkg/errors"
	"github.com/campushq/idcard-api/pkg/export"
)

const applicationsCacheKey = "applications:approved"

// Export formats accepted by Export.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type approvedLister interface {
	List(ctx context.Context) ([]models.ApprovedApplication, error)
}

type datasetExporter interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfExporter interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult bundles rendered bytes with download metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ArchiveService serves the read-only approved archive: the public listing
// and the admin export.
type ArchiveService struct {
	repo   approvedLister
	cache  *CacheService
	csv    datasetExporter
	pdf    pdfExporter
	logger *zap.Logger
}

// NewArchiveService constructs the service.
func NewArchiveService(repo approvedLister, cache *CacheService, csv datasetExporter, pdf pdfExporter, logger *zap.Logger) *ArchiveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchiveService{repo: repo, cache: cache, csv: csv, pdf: pdf, logger: logger}
}

// ListApproved returns the full archive, served from cache when possible.
// The second return reports whether the cache was hit.
func (s *ArchiveService) ListApproved(ctx context.Context) ([]models.ApprovedApplication, bool, error) {
	var cached []models.ApprovedApplication
	if hit, err := s.cache.Get(ctx, applicationsCacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	apps, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approved applications")
	}
	if apps == nil {
		apps = []models.ApprovedApplication{}
	}

	_ = s.cache.Set(ctx, applicationsCacheKey, apps, 0)
	return apps, false, nil
}

// InvalidateApplications drops the cached public listing. Called after an
// approval migrates a new record into the archive.
func (s *ArchiveService) InvalidateApplications(ctx context.Context) {
	s.cache.Invalidate(ctx, applicationsCacheKey)
}

// Export renders the archive as a CSV or PDF attachment.
func (s *ArchiveService) Export(ctx context.Context, format string) (*ExportResult, error) {
	apps, _, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	dataset := buildApplicationsDataset(apps)
	stamp := time.Now().UTC().Format("20060102")

	switch format {
	case ExportFormatCSV, "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("approved-applications-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, "Approved ID Card Applications")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("approved-applications-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func buildApplicationsDataset(apps []models.ApprovedApplication) export.Dataset {
	headers := []string{"Student ID", "Name", "Email", "Program", "Card Type", "Request Type", "Approved At"}
	rows := make([]map[string]string, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, map[string]string{
			"Student ID":   app.StudentID,
			"Name":         fmt.Sprintf("%s %s", app.FirstName, app.LastName),
			"Email":        app.Email,
			"Program":      app.Program,
			"Card Type":    app.CardType,
			"Request Type": app.RequestType,
			"Approved At":  app.ApprovedAt.UTC().Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
