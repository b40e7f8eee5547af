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

// AdminRepository provides database access for administrator accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername returns an administrator by username.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.AdminAccount, error) {
	const query = `SELECT id, username, password_hash, role, created_at FROM admins WHERE username = $1 LIMIT 1`
	var admin models.AdminAccount
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find admin by username: %w", err)
	}
	return &admin, nil
}

// Create inserts a new administrator account.
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminAccount) error {
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	if admin.Role == "" {
		admin.Role = "admin"
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO admins (id, username, password_hash, role, created_at) VALUES (:id, :username, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
