package postgres

import (
	"context"
	"errors"
	"fmt"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ratingColumns = `id, user_id, provider_id, service_request_id, score, comment, created_at`

// RatingRepo implements ports.RatingRepository.
type RatingRepo struct {
	pool Pool
}

// NewRatingRepo creates a new RatingRepo.
func NewRatingRepo(pool Pool) *RatingRepo {
	return &RatingRepo{pool: pool}
}

func scanRating(row pgx.Row) (*domain.Rating, error) {
	rt := &domain.Rating{}
	err := row.Scan(
		&rt.ID, &rt.UserID, &rt.ProviderID, &rt.ServiceRequestID,
		&rt.Score, &rt.Comment, &rt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// Create inserts a new rating. The unique index on service_request_id backs
// the one-rating-per-request rule.
func (r *RatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	query := `INSERT INTO ratings (id, user_id, provider_id, service_request_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		rating.ID, rating.UserID, rating.ProviderID, rating.ServiceRequestID,
		rating.Score, rating.Comment, rating.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

// ExistsForRequest reports whether the user already rated the request.
func (r *RatingRepo) ExistsForRequest(ctx context.Context, requestID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE service_request_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, requestID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("rating exists: %w", err)
	}
	return exists, nil
}

// RatedRequestIDs returns which of the given requests the user has rated.
func (r *RatingRepo) RatedRequestIDs(ctx context.Context, userID uuid.UUID, requestIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	rated := make(map[uuid.UUID]bool)
	if len(requestIDs) == 0 {
		return rated, nil
	}

	query := `SELECT service_request_id FROM ratings WHERE user_id = $1 AND service_request_id = ANY($2)`

	rows, err := r.pool.Query(ctx, query, userID, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("rated request ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan rated request id: %w", err)
		}
		rated[id] = true
	}
	return rated, rows.Err()
}

// ListByProvider returns a provider's ratings, newest first.
func (r *RatingRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings
		WHERE provider_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, *rt)
	}
	return ratings, rows.Err()
}

// AggregateForProvider returns the average score and rating count.
func (r *RatingRepo) AggregateForProvider(ctx context.Context, providerID uuid.UUID) (float64, int64, error) {
	query := `SELECT COALESCE(AVG(score), 0), COUNT(*) FROM ratings WHERE provider_id = $1`

	var avg float64
	var count int64
	err := r.pool.QueryRow(ctx, query, providerID).Scan(&avg, &count)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}
	return avg, count, nil
}
