package models

import (
	"time"

	"github.com/lib/pq"
)

// ApprovedApplication is the archived copy of an approved student request.
// Immutable once created; the source request row is deleted in the same
// transaction. SourceRequestID carries a UNIQUE constraint so a request can
// be archived at most once.
type ApprovedApplication struct {
	ID              string         `db:"id" json:"id"`
	SourceRequestID string         `db:"source_request_id" json:"-"`
	StudentID       string         `db:"student_id" json:"studentId"`
	CardType        string         `db:"card_type" json:"cardType"`
	FirstName       string         `db:"first_name" json:"firstName"`
	LastName        string         `db:"last_name" json:"lastName"`
	Email           string         `db:"email" json:"email"`
	Program         string         `db:"program" json:"program"`
	RequestType     string         `db:"request_type" json:"requestType"`
	Photo           *string        `db:"photo" json:"photo,omitempty"`
	GDCopy          *string        `db:"gd_copy" json:"gdCopy,omitempty"`
	OldIDImage      *string        `db:"old_id_image" json:"oldIdImage,omitempty"`
	Documents       pq.StringArray `db:"documents" json:"documents"`
	ApprovedAt      time.Time      `db:"approved_at" json:"approvedAt"`
}
