package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory is a bookable service kind with its base price.
type ServiceCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	BasePrice   int64     `json:"base_price"` // Smallest currency unit; the wallet hold at creation
	Icon        *string   `json:"icon,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
