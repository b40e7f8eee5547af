package dto

// DecisionRequest is the admin approve/reject payload.
type DecisionRequest struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason"`
}

// ActionResponse acknowledges a processed decision.
type ActionResponse struct {
	Message string `json:"message"`
}
