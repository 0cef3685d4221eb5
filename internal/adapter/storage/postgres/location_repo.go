package postgres

import (
	"context"
	"errors"
	"fmt"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const locationColumns = `id, user_id, location_name, latitude, longitude, street,
	building_floor, additional_notes, is_default, created_at, updated_at`

// LocationRepo implements ports.LocationRepository.
type LocationRepo struct {
	pool Pool
}

// NewLocationRepo creates a new LocationRepo.
func NewLocationRepo(pool Pool) *LocationRepo {
	return &LocationRepo{pool: pool}
}

func scanLocation(row pgx.Row) (*domain.UserLocation, error) {
	l := &domain.UserLocation{}
	err := row.Scan(
		&l.ID, &l.UserID, &l.LocationName, &l.Latitude, &l.Longitude,
		&l.Street, &l.BuildingFloor, &l.AdditionalNotes, &l.IsDefault,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts a new saved location.
func (r *LocationRepo) Create(ctx context.Context, l *domain.UserLocation) error {
	query := `INSERT INTO user_locations
		(id, user_id, location_name, latitude, longitude, street, building_floor,
		 additional_notes, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		l.ID, l.UserID, l.LocationName, l.Latitude, l.Longitude, l.Street,
		l.BuildingFloor, l.AdditionalNotes, l.IsDefault, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID fetches a location by its UUID.
func (r *LocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserLocation, error) {
	query := `SELECT ` + locationColumns + ` FROM user_locations WHERE id = $1`

	l, err := scanLocation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by id: %w", err)
	}
	return l, nil
}

// GetByIDAndUser fetches a location only if the user owns it.
func (r *LocationRepo) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.UserLocation, error) {
	query := `SELECT ` + locationColumns + ` FROM user_locations WHERE id = $1 AND user_id = $2`

	l, err := scanLocation(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location by id and user: %w", err)
	}
	return l, nil
}

// GetByIDs batch-fetches locations keyed by ID.
func (r *LocationRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserLocation, error) {
	locations := make(map[uuid.UUID]domain.UserLocation, len(ids))
	if len(ids) == 0 {
		return locations, nil
	}

	query := `SELECT ` + locationColumns + ` FROM user_locations WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get locations by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations[l.ID] = *l
	}
	return locations, rows.Err()
}

// ListByUser returns all of a user's saved locations, default first.
func (r *LocationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserLocation, error) {
	query := `SELECT ` + locationColumns + ` FROM user_locations
		WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.UserLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, *l)
	}
	return locations, rows.Err()
}

// Update rewrites the editable fields of a location.
func (r *LocationRepo) Update(ctx context.Context, l *domain.UserLocation) error {
	query := `UPDATE user_locations
		SET location_name = $1, latitude = $2, longitude = $3, street = $4,
			building_floor = $5, additional_notes = $6, is_default = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9`

	tag, err := r.pool.Exec(ctx, query,
		l.LocationName, l.Latitude, l.Longitude, l.Street,
		l.BuildingFloor, l.AdditionalNotes, l.IsDefault, l.ID, l.UserID,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location not found: %s", l.ID)
	}
	return nil
}

// Delete removes a location owned by the user.
func (r *LocationRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM user_locations WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("location not found: %s", id)
	}
	return nil
}
