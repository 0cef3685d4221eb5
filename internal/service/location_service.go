package service

import (
	"context"
	"fmt"
	"time"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocationServiceImpl implements ports.LocationService.
type LocationServiceImpl struct {
	locationRepo ports.LocationRepository
	log          zerolog.Logger
}

// NewLocationService creates a new LocationServiceImpl.
func NewLocationService(locationRepo ports.LocationRepository, log zerolog.Logger) *LocationServiceImpl {
	return &LocationServiceImpl{locationRepo: locationRepo, log: log}
}

// Create saves a new location for the acting user.
func (s *LocationServiceImpl) Create(ctx context.Context, principal domain.Principal, req ports.LocationInput) (*domain.UserLocation, error) {
	now := time.Now().UTC()
	location := &domain.UserLocation{
		ID:              uuid.New(),
		UserID:          principal.UserID,
		LocationName:    req.LocationName,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		Street:          req.Street,
		BuildingFloor:   req.BuildingFloor,
		AdditionalNotes: req.AdditionalNotes,
		IsDefault:       req.IsDefault,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create location: %w", err))
	}
	return location, nil
}

// Update rewrites a location the acting user owns.
func (s *LocationServiceImpl) Update(ctx context.Context, principal domain.Principal, id uuid.UUID, req ports.LocationInput) (*domain.UserLocation, error) {
	location, err := s.locationRepo.GetByIDAndUser(ctx, id, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get location: %w", err))
	}
	if location == nil {
		return nil, apperror.ErrNotFound("location")
	}

	location.LocationName = req.LocationName
	location.Latitude = req.Latitude
	location.Longitude = req.Longitude
	location.Street = req.Street
	location.BuildingFloor = req.BuildingFloor
	location.AdditionalNotes = req.AdditionalNotes
	location.IsDefault = req.IsDefault
	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update location: %w", err))
	}
	return location, nil
}

// Delete removes a location the acting user owns. Existing requests keep
// their location reference.
func (s *LocationServiceImpl) Delete(ctx context.Context, principal domain.Principal, id uuid.UUID) error {
	location, err := s.locationRepo.GetByIDAndUser(ctx, id, principal.UserID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get location: %w", err))
	}
	if location == nil {
		return apperror.ErrNotFound("location")
	}
	if err := s.locationRepo.Delete(ctx, id, principal.UserID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete location: %w", err))
	}
	return nil
}

// ListMine returns the acting user's saved locations.
func (s *LocationServiceImpl) ListMine(ctx context.Context, principal domain.Principal) ([]domain.UserLocation, error) {
	locations, err := s.locationRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list locations: %w", err))
	}
	return locations, nil
}
