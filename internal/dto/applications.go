package dto

import "github.com/campushq/idcard-api/internal/models"

// ApplicationsResponse is the public listing of approved applications.
type ApplicationsResponse struct {
	Applications []models.ApprovedApplication `json:"applications"`
}
