package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a requester's score for a completed request. One per request.
type Rating struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	ProviderID       uuid.UUID `json:"provider_id"`
	ServiceRequestID uuid.UUID `json:"service_request_id"`
	Score            int       `json:"score"` // 1..5
	Comment          *string   `json:"comment,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
