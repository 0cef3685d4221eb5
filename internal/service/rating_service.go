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

// RatingServiceImpl implements ports.RatingService.
type RatingServiceImpl struct {
	ratingRepo   ports.RatingRepository
	requestRepo  ports.RequestRepository
	providerRepo ports.ProviderRepository
	log          zerolog.Logger
}

// NewRatingService creates a new RatingServiceImpl.
func NewRatingService(
	ratingRepo ports.RatingRepository,
	requestRepo ports.RequestRepository,
	providerRepo ports.ProviderRepository,
	log zerolog.Logger,
) *RatingServiceImpl {
	return &RatingServiceImpl{
		ratingRepo:   ratingRepo,
		requestRepo:  requestRepo,
		providerRepo: providerRepo,
		log:          log,
	}
}

// Rate scores a completed request once, then refreshes the provider's
// denormalized average.
func (s *RatingServiceImpl) Rate(ctx context.Context, principal domain.Principal, req ports.RateInput) (*domain.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, apperror.Validation("Score must be between 1 and 5")
	}

	sr, err := s.requestRepo.GetByIDAndRequester(ctx, req.ServiceRequestID, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get request: %w", err))
	}
	if sr == nil {
		return nil, apperror.ErrNotFound("service request")
	}
	if sr.Status != domain.RequestStatusCompleted || sr.ProviderID == nil {
		return nil, apperror.ErrNotCompleted()
	}

	exists, err := s.ratingRepo.ExistsForRequest(ctx, sr.ID, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check rating: %w", err))
	}
	if exists {
		return nil, apperror.ErrAlreadyRated()
	}

	rating := &domain.Rating{
		ID:               uuid.New(),
		UserID:           principal.UserID,
		ProviderID:       *sr.ProviderID,
		ServiceRequestID: sr.ID,
		Score:            req.Score,
		Comment:          req.Comment,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create rating: %w", err))
	}

	// Refresh the denormalized average. Best effort: the rating row is the
	// source of truth and a later rating recomputes the same aggregate.
	avg, _, err := s.ratingRepo.AggregateForProvider(ctx, *sr.ProviderID)
	if err != nil {
		s.log.Warn().Err(err).Str("provider_id", sr.ProviderID.String()).Msg("rating aggregate failed")
		return rating, nil
	}
	if err := s.providerRepo.UpdateAverageRating(ctx, *sr.ProviderID, avg); err != nil {
		s.log.Warn().Err(err).Str("provider_id", sr.ProviderID.String()).Msg("average rating update failed")
	}

	return rating, nil
}

// ListForProvider returns a provider's ratings.
func (s *RatingServiceImpl) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Rating, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrNotFound("provider")
	}
	ratings, err := s.ratingRepo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list ratings: %w", err))
	}
	return ratings, nil
}
