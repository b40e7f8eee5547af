package dto

import "github.com/campushq/idcard-api/internal/models"

// DocumentLink pairs a stored document reference with a signed download URL
// so reviewers can inspect uploads without the files being public.
type DocumentLink struct {
	Slot      string `json:"slot"`
	Reference string `json:"reference"`
	URL       string `json:"url"`
}

// PendingApplication decorates a pending request with document links.
type PendingApplication struct {
	models.StudentRequest
	DocumentLinks []DocumentLink `json:"documentLinks,omitempty"`
}

// DashboardResponse is the admin review dashboard payload.
type DashboardResponse struct {
	PendingApplications []PendingApplication         `json:"pendingApplications"`
	RecentApproved      []models.ApprovedApplication `json:"recentApproved"`
}
