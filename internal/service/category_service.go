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

const categoryCacheTTL = 5 * time.Minute

// CategoryServiceImpl implements ports.CategoryService with a best-effort
// Redis cache in front of the active listing.
type CategoryServiceImpl struct {
	categoryRepo ports.CategoryRepository
	cache        ports.CategoryCache
	log          zerolog.Logger
}

// NewCategoryService creates a new CategoryServiceImpl.
func NewCategoryService(categoryRepo ports.CategoryRepository, cache ports.CategoryCache, log zerolog.Logger) *CategoryServiceImpl {
	return &CategoryServiceImpl{
		categoryRepo: categoryRepo,
		cache:        cache,
		log:          log,
	}
}

// Create adds a new active category (admin operation).
func (s *CategoryServiceImpl) Create(ctx context.Context, req ports.CategoryInput) (*domain.ServiceCategory, error) {
	if req.BasePrice <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	now := time.Now().UTC()
	category := &domain.ServiceCategory{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		BasePrice:   req.BasePrice,
		Icon:        req.Icon,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create category: %w", err))
	}
	s.invalidateCache(ctx)
	return category, nil
}

// Update rewrites a category's editable fields (admin operation).
func (s *CategoryServiceImpl) Update(ctx context.Context, id uuid.UUID, req ports.CategoryInput) (*domain.ServiceCategory, error) {
	if req.BasePrice <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get category: %w", err))
	}
	if category == nil {
		return nil, apperror.ErrNotFound("service category")
	}

	category.Name = req.Name
	category.Description = req.Description
	category.BasePrice = req.BasePrice
	category.Icon = req.Icon
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update category: %w", err))
	}
	s.invalidateCache(ctx)
	return category, nil
}

// SetActive toggles a category's visibility (admin operation). Existing
// requests keep their creation-time price either way.
func (s *CategoryServiceImpl) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get category: %w", err))
	}
	if category == nil {
		return apperror.ErrNotFound("service category")
	}
	if err := s.categoryRepo.SetActive(ctx, id, active); err != nil {
		return apperror.InternalError(fmt.Errorf("set category active: %w", err))
	}
	s.invalidateCache(ctx)
	return nil
}

// ListActive returns active categories, serving from cache when possible.
func (s *CategoryServiceImpl) ListActive(ctx context.Context) ([]domain.ServiceCategory, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("category cache read failed, falling through to DB")
		}
		if cached != nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx, false)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list categories: %w", err))
	}

	if s.cache != nil && len(categories) > 0 {
		if err := s.cache.Set(ctx, categories, categoryCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

// ListAll returns every category including inactive ones (admin operation).
func (s *CategoryServiceImpl) ListAll(ctx context.Context) ([]domain.ServiceCategory, error) {
	categories, err := s.categoryRepo.List(ctx, true)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list categories: %w", err))
	}
	return categories, nil
}

func (s *CategoryServiceImpl) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("category cache invalidation failed")
	}
}
