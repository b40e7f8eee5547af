package models

import "time"

// AdminAccount represents an administrator stored in the admins table.
// Accounts are seeded at startup and never mutated afterwards.
type AdminAccount struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
