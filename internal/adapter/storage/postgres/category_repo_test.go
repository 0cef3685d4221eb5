package postgres

import (
	"context"
	"testing"
	"time"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCategory() *domain.ServiceCategory {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.ServiceCategory{
		ID:        uuid.New(),
		Name:      "Plumbing",
		BasePrice: 150,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func categoryTestColumns() []string {
	return []string{"id", "name", "description", "base_price", "icon", "is_active", "created_at", "updated_at"}
}

func categoryRow(c *domain.ServiceCategory) *pgxmock.Rows {
	return pgxmock.NewRows(categoryTestColumns()).AddRow(
		c.ID, c.Name, c.Description, c.BasePrice, c.Icon,
		c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
}

func TestCategoryRepo_GetActiveByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCategoryRepo(mock)
	c := newTestCategory()

	mock.ExpectQuery("SELECT .+ FROM service_categories WHERE id .+ AND is_active = TRUE").
		WithArgs(c.ID).
		WillReturnRows(categoryRow(c))

	result, err := repo.GetActiveByID(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, c.BasePrice, result.BasePrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepo_GetActiveByID_Inactive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCategoryRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM service_categories WHERE id .+ AND is_active = TRUE").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(categoryTestColumns()))

	result, err := repo.GetActiveByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepo_List_ActiveOnly(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCategoryRepo(mock)
	c := newTestCategory()

	mock.ExpectQuery("SELECT .+ FROM service_categories WHERE is_active = TRUE ORDER BY name").
		WillReturnRows(categoryRow(c))

	categories, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepo_SetActive_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCategoryRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE service_categories SET is_active").
		WithArgs(false, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.SetActive(context.Background(), id, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "category not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
