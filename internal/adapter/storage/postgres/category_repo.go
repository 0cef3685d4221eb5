package postgres

import (
	"context"
	"errors"
	"fmt"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, name, description, base_price, icon, is_active, created_at, updated_at`

// CategoryRepo implements ports.CategoryRepository.
type CategoryRepo struct {
	pool Pool
}

// NewCategoryRepo creates a new CategoryRepo.
func NewCategoryRepo(pool Pool) *CategoryRepo {
	return &CategoryRepo{pool: pool}
}

func scanCategory(row pgx.Row) (*domain.ServiceCategory, error) {
	c := &domain.ServiceCategory{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.BasePrice, &c.Icon,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new service category.
func (r *CategoryRepo) Create(ctx context.Context, c *domain.ServiceCategory) error {
	query := `INSERT INTO service_categories (id, name, description, base_price, icon, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Description, c.BasePrice, c.Icon,
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID fetches a category by its UUID regardless of active flag.
func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM service_categories WHERE id = $1`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return c, nil
}

// GetActiveByID fetches a category only if it is active.
func (r *CategoryRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM service_categories WHERE id = $1 AND is_active = TRUE`

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active category by id: %w", err)
	}
	return c, nil
}

// List returns categories ordered by name, active only unless includeInactive.
func (r *CategoryRepo) List(ctx context.Context, includeInactive bool) ([]domain.ServiceCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM service_categories`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.ServiceCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// Update rewrites the editable fields of a category.
func (r *CategoryRepo) Update(ctx context.Context, c *domain.ServiceCategory) error {
	query := `UPDATE service_categories
		SET name = $1, description = $2, base_price = $3, icon = $4, updated_at = NOW()
		WHERE id = $5`

	tag, err := r.pool.Exec(ctx, query, c.Name, c.Description, c.BasePrice, c.Icon, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category not found: %s", c.ID)
	}
	return nil
}

// SetActive toggles a category's visibility.
func (r *CategoryRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE service_categories SET is_active = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category not found: %s", id)
	}
	return nil
}
