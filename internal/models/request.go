package models

import (
	"time"

	"github.com/lib/pq"
)

// RequestStatus enumerates the lifecycle states of a student request while
// it resides in the active collection. Approval is modeled as migration to
// the approved_applications table, not as an in-place status.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusRejected RequestStatus = "rejected"
)

// StudentRequest is one applicant submission awaiting review.
type StudentRequest struct {
	ID              string         `db:"id" json:"id"`
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
	Status          RequestStatus  `db:"status" json:"status"`
	RejectionReason *string        `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}
