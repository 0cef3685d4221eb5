package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserLocation is a saved address a requester can attach to service requests.
type UserLocation struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	LocationName    *string   `json:"location_name,omitempty"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Street          *string   `json:"street,omitempty"`
	BuildingFloor   *string   `json:"building_floor,omitempty"`
	AdditionalNotes *string   `json:"additional_notes,omitempty"`
	IsDefault       bool      `json:"is_default"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
