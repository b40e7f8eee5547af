package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushq/idcard-api/internal/models"
)

const applicationColumns = `id, source_request_id, student_id, card_type, first_name, last_name, email, program, request_type, photo, gd_copy, old_id_image, documents, approved_at`

// ApplicationRepository provides database access for the approved archive.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Archive inserts the approved copy and deletes the source request inside a
// single transaction. The UNIQUE constraint on source_request_id plus ON
// CONFLICT DO NOTHING makes a concurrent duplicate approval a no-op instead
// of a second archive row.
func (r *ApplicationRepository) Archive(ctx context.Context, app *models.ApprovedApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.ApprovedAt.IsZero() {
		app.ApprovedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertQuery = `INSERT INTO approved_applications (id, source_request_id, student_id, card_type, first_name, last_name, email, program, request_type, photo, gd_copy, old_id_image, documents, approved_at) VALUES (:id, :source_request_id, :student_id, :card_type, :first_name, :last_name, :email, :program, :request_type, :photo, :gd_copy, :old_id_image, :documents, :approved_at) ON CONFLICT (source_request_id) DO NOTHING`
	if _, err := tx.NamedExecContext(ctx, insertQuery, app); err != nil {
		return fmt.Errorf("insert approved application: %w", err)
	}

	const deleteQuery = `DELETE FROM student_requests WHERE id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, app.SourceRequestID); err != nil {
		return fmt.Errorf("delete source request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive transaction: %w", err)
	}
	return nil
}

// List returns the full archive in insertion order.
func (r *ApplicationRepository) List(ctx context.Context) ([]models.ApprovedApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM approved_applications ORDER BY approved_at ASC, id ASC`, applicationColumns)
	var apps []models.ApprovedApplication
	if err := r.db.SelectContext(ctx, &apps, query); err != nil {
		return nil, fmt.Errorf("list approved applications: %w", err)
	}
	return apps, nil
}

// Recent returns the most recently approved applications, newest first.
func (r *ApplicationRepository) Recent(ctx context.Context, limit int) ([]models.ApprovedApplication, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM approved_applications ORDER BY approved_at DESC, id DESC LIMIT $1`, applicationColumns)
	var apps []models.ApprovedApplication
	if err := r.db.SelectContext(ctx, &apps, query, limit); err != nil {
		return nil, fmt.Errorf("list recent approved applications: %w", err)
	}
	return apps, nil
}

// GetBySourceRequestID returns the archive entry migrated from a request.
func (r *ApplicationRepository) GetBySourceRequestID(ctx context.Context, requestID string) (*models.ApprovedApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM approved_applications WHERE source_request_id = $1 LIMIT 1`, applicationColumns)
	var app models.ApprovedApplication
	if err := r.db.GetContext(ctx, &app, query, requestID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find approved application by source request: %w", err)
	}
	return &app, nil
}
