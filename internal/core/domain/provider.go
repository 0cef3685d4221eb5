package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceProvider is a provider profile attached to a user account.
// WalletBalance mirrors the APPROVED ledger net effect for the provider,
// written only by the wallet ledger.
type ServiceProvider struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	ServiceCategoryID  uuid.UUID `json:"service_category_id"`
	IsActive           bool      `json:"is_active"`
	Latitude           *float64  `json:"latitude,omitempty"`  // Fixed service point
	Longitude          *float64  `json:"longitude,omitempty"` // Fixed service point
	AddressLine        *string   `json:"address_line,omitempty"`
	ServiceRadiusKm    *float64  `json:"service_radius_km,omitempty"`
	ExperienceYears    *int      `json:"experience_years,omitempty"`
	Bio                *string   `json:"bio,omitempty"`
	WalletBalance      int64     `json:"wallet_balance"`
	AverageRating      float64   `json:"average_rating"`
	TotalCompletedJobs int64     `json:"total_completed_jobs"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HasCoordinates reports whether the provider set a fixed service location.
func (p *ServiceProvider) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
