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

// ProviderServiceImpl implements ports.ProviderService.
type ProviderServiceImpl struct {
	providerRepo ports.ProviderRepository
	userRepo     ports.UserRepository
	categoryRepo ports.CategoryRepository
	log          zerolog.Logger
}

// NewProviderService creates a new ProviderServiceImpl.
func NewProviderService(
	providerRepo ports.ProviderRepository,
	userRepo ports.UserRepository,
	categoryRepo ports.CategoryRepository,
	log zerolog.Logger,
) *ProviderServiceImpl {
	return &ProviderServiceImpl{
		providerRepo: providerRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		log:          log,
	}
}

// Register creates a provider profile for the acting user and promotes their
// role to PROVIDER. Registering again overwrites the profile fields.
func (s *ProviderServiceImpl) Register(ctx context.Context, principal domain.Principal, req ports.ProviderRegisterInput) (*domain.ServiceProvider, error) {
	category, err := s.categoryRepo.GetActiveByID(ctx, req.ServiceCategoryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get category: %w", err))
	}
	if category == nil {
		return nil, apperror.ErrNotFound("service category")
	}

	now := time.Now().UTC()
	provider := &domain.ServiceProvider{
		ID:                uuid.New(),
		UserID:            principal.UserID,
		ServiceCategoryID: category.ID,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		AddressLine:       req.AddressLine,
		ServiceRadiusKm:   req.ServiceRadiusKm,
		ExperienceYears:   req.ExperienceYears,
		Bio:               req.Bio,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.providerRepo.Upsert(ctx, provider); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("upsert provider: %w", err))
	}

	// Re-read: an upsert over an existing profile keeps its original ID,
	// balance, and stats.
	stored, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if stored == nil {
		return nil, apperror.InternalError(fmt.Errorf("provider missing after upsert"))
	}

	if principal.Role == domain.RoleUser {
		if err := s.userRepo.UpdateRole(ctx, principal.UserID, domain.RoleProvider); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update role: %w", err))
		}
	}

	s.log.Info().
		Str("provider_id", stored.ID.String()).
		Str("user_id", principal.UserID.String()).
		Msg("provider registered")

	return stored, nil
}

// Me returns the acting user's provider profile.
func (s *ProviderServiceImpl) Me(ctx context.Context, principal domain.Principal) (*domain.ServiceProvider, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}
	return provider, nil
}

// UpdateMe applies partial updates to the acting user's provider profile.
func (s *ProviderServiceImpl) UpdateMe(ctx context.Context, principal domain.Principal, req ports.ProviderUpdateInput) (*domain.ServiceProvider, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}

	if req.ServiceCategoryID != nil {
		category, err := s.categoryRepo.GetActiveByID(ctx, *req.ServiceCategoryID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get category: %w", err))
		}
		if category == nil {
			return nil, apperror.ErrNotFound("service category")
		}
		provider.ServiceCategoryID = category.ID
	}
	if req.Latitude != nil {
		provider.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		provider.Longitude = req.Longitude
	}
	if req.AddressLine != nil {
		provider.AddressLine = req.AddressLine
	}
	if req.ServiceRadiusKm != nil {
		provider.ServiceRadiusKm = req.ServiceRadiusKm
	}
	if req.ExperienceYears != nil {
		provider.ExperienceYears = req.ExperienceYears
	}
	if req.Bio != nil {
		provider.Bio = req.Bio
	}

	if err := s.providerRepo.Upsert(ctx, provider); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("upsert provider: %w", err))
	}
	return provider, nil
}

// List returns the provider directory.
func (s *ProviderServiceImpl) List(ctx context.Context, params ports.ProviderListParams) ([]domain.ServiceProvider, error) {
	providers, err := s.providerRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list providers: %w", err))
	}
	return providers, nil
}
