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

const requestColumns = `id, student_id, card_type, first_name, last_name, email, program, request_type, photo, gd_copy, old_id_image, documents, status, rejection_reason, created_at, updated_at`

// RequestRepository provides database access for the active request collection.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new instance of RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a new student request.
func (r *RequestRepository) Create(ctx context.Context, req *models.StudentRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	if req.Status == "" {
		req.Status = models.StatusPending
	}

	const query = `INSERT INTO student_requests (id, student_id, card_type, first_name, last_name, email, program, request_type, photo, gd_copy, old_id_image, documents, status, rejection_reason, created_at, updated_at) VALUES (:id, :student_id, :card_type, :first_name, :last_name, :email, :program, :request_type, :photo, :gd_copy, :old_id_image, :documents, :status, :rejection_reason, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create student request: %w", err)
	}
	return nil
}

// GetByID returns a student request by identifier.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.StudentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_requests WHERE id = $1 LIMIT 1`, requestColumns)
	var req models.StudentRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student request by id: %w", err)
	}
	return &req, nil
}

// ListPending returns all pending requests in deterministic submission order.
func (r *RequestRepository) ListPending(ctx context.Context) ([]models.StudentRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_requests WHERE status = $1 ORDER BY created_at ASC, id ASC`, requestColumns)
	var requests []models.StudentRequest
	if err := r.db.SelectContext(ctx, &requests, query, models.StatusPending); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return requests, nil
}

// List returns active requests, optionally filtered by status.
func (r *RequestRepository) List(ctx context.Context, status *models.RequestStatus) ([]models.StudentRequest, error) {
	var requests []models.StudentRequest
	if status != nil {
		query := fmt.Sprintf(`SELECT %s FROM student_requests WHERE status = $1 ORDER BY created_at ASC, id ASC`, requestColumns)
		if err := r.db.SelectContext(ctx, &requests, query, *status); err != nil {
			return nil, fmt.Errorf("list requests by status: %w", err)
		}
		return requests, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM student_requests ORDER BY created_at ASC, id ASC`, requestColumns)
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// MarkRejected transitions a request to rejected in place, keeping the row.
func (r *RequestRepository) MarkRejected(ctx context.Context, id string, reason *string, ts time.Time) error {
	const query = `UPDATE student_requests SET status = $2, rejection_reason = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, models.StatusRejected, reason, ts)
	if err != nil {
		return fmt.Errorf("mark request rejected: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
