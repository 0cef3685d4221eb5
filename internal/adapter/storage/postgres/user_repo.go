package postgres

import (
	"context"
	"errors"
	"fmt"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, phone, password_hash, role, wallet_balance, created_at, updated_at`

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.WalletBalance, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, email, phone, password_hash, role, wallet_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash,
		user.Role, user.WalletBalance, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by its UUID (without locking).
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmailOrPhone fetches a user matching either identifier.
func (r *UserRepo) GetByEmailOrPhone(ctx context.Context, email, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR phone = $2`

	u, err := scanUser(r.pool.QueryRow(ctx, query, email, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email or phone: %w", err)
	}
	return u, nil
}

// GetByIDForUpdate fetches a user by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	u, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user for update: %w", err)
	}
	return u, nil
}

// UpdateBalance updates a user's cached wallet balance within a transaction.
func (r *UserRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance int64) error {
	query := `UPDATE users SET wallet_balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, balance, id)
	if err != nil {
		return fmt.Errorf("update user balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdateRole changes a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, role, id)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// List returns the most recently created users, up to limit.
func (r *UserRepo) List(ctx context.Context, limit int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
