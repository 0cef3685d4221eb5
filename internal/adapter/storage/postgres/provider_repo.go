package postgres

import (
	"context"
	"errors"
	"fmt"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const providerColumns = `id, user_id, service_category_id, latitude, longitude, address_line,
	service_radius_km, experience_years, bio, wallet_balance, average_rating,
	total_completed_jobs, created_at, updated_at`

// ProviderRepo implements ports.ProviderRepository.
type ProviderRepo struct {
	pool Pool
}

// NewProviderRepo creates a new ProviderRepo.
func NewProviderRepo(pool Pool) *ProviderRepo {
	return &ProviderRepo{pool: pool}
}

func scanProvider(row pgx.Row) (*domain.ServiceProvider, error) {
	p := &domain.ServiceProvider{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.ServiceCategoryID, &p.Latitude, &p.Longitude,
		&p.AddressLine, &p.ServiceRadiusKm, &p.ExperienceYears, &p.Bio,
		&p.WalletBalance, &p.AverageRating, &p.TotalCompletedJobs,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Upsert inserts a provider profile or updates the existing one for the user.
// Balance and rating stats are never touched by an upsert.
func (r *ProviderRepo) Upsert(ctx context.Context, p *domain.ServiceProvider) error {
	query := `INSERT INTO service_providers
		(id, user_id, service_category_id, latitude, longitude, address_line,
		 service_radius_km, experience_years, bio, wallet_balance, average_rating,
		 total_completed_jobs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
			service_category_id = EXCLUDED.service_category_id,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			address_line = EXCLUDED.address_line,
			service_radius_km = EXCLUDED.service_radius_km,
			experience_years = EXCLUDED.experience_years,
			bio = EXCLUDED.bio,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.ServiceCategoryID, p.Latitude, p.Longitude, p.AddressLine,
		p.ServiceRadiusKm, p.ExperienceYears, p.Bio, p.WalletBalance, p.AverageRating,
		p.TotalCompletedJobs, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert provider: %w", err)
	}
	return nil
}

// GetByID fetches a provider profile by its UUID (without locking).
func (r *ProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE id = $1`

	p, err := scanProvider(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider by id: %w", err)
	}
	return p, nil
}

// GetByUserID fetches the provider profile owned by a user.
func (r *ProviderRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE user_id = $1`

	p, err := scanProvider(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider by user id: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate fetches a provider by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *ProviderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers WHERE id = $1 FOR UPDATE`

	p, err := scanProvider(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider for update: %w", err)
	}
	return p, nil
}

// UpdateBalance updates a provider's cached earnings balance within a transaction.
func (r *ProviderRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance int64) error {
	query := `UPDATE service_providers SET wallet_balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update provider balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}
	return nil
}

// UpdateAverageRating rewrites the denormalized rating aggregate.
func (r *ProviderRepo) UpdateAverageRating(ctx context.Context, id uuid.UUID, averageRating float64) error {
	query := `UPDATE service_providers SET average_rating = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, averageRating, id)
	if err != nil {
		return fmt.Errorf("update provider rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}
	return nil
}

// IncrementCompletedJobs bumps the completed-job counter within a transaction.
func (r *ProviderRepo) IncrementCompletedJobs(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `UPDATE service_providers SET total_completed_jobs = total_completed_jobs + 1, updated_at = NOW() WHERE id = $1`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment completed jobs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}
	return nil
}

// List returns provider profiles, optionally filtered by category.
func (r *ProviderRepo) List(ctx context.Context, params ports.ProviderListParams) ([]domain.ServiceProvider, error) {
	query := `SELECT ` + providerColumns + ` FROM service_providers`
	args := []any{}

	if params.ServiceCategoryID != nil {
		query += ` WHERE service_category_id = $1`
		args = append(args, *params.ServiceCategoryID)
	}
	query += fmt.Sprintf(` ORDER BY average_rating DESC, created_at DESC LIMIT $%d`, len(args)+1)
	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	var providers []domain.ServiceProvider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, *p)
	}
	return providers, rows.Err()
}
