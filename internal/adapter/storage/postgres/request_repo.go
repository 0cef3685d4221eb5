package postgres

import (
	"context"
	"errors"
	"fmt"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const requestColumns = `id, user_id, provider_id, service_category_id, user_location_id,
	problem_description, requested_at, photo_url, status, price, final_amount,
	payment_method, payment_status, wallet_hold_amount, created_at, updated_at`

// RequestRepo implements ports.RequestRepository.
type RequestRepo struct {
	pool Pool
}

// NewRequestRepo creates a new RequestRepo.
func NewRequestRepo(pool Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

func scanRequest(row pgx.Row) (*domain.ServiceRequest, error) {
	sr := &domain.ServiceRequest{}
	err := row.Scan(
		&sr.ID, &sr.UserID, &sr.ProviderID, &sr.ServiceCategoryID, &sr.UserLocationID,
		&sr.ProblemDescription, &sr.RequestedAt, &sr.PhotoURL, &sr.Status, &sr.Price,
		&sr.FinalAmount, &sr.PaymentMethod, &sr.PaymentStatus, &sr.WalletHoldAmount,
		&sr.CreatedAt, &sr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sr, nil
}

// Create inserts a new service request within a transaction, so the wallet
// hold lands in the same atomic unit.
func (r *RequestRepo) Create(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error {
	query := `INSERT INTO service_requests
		(id, user_id, provider_id, service_category_id, user_location_id,
		 problem_description, requested_at, photo_url, status, price, final_amount,
		 payment_method, payment_status, wallet_hold_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := tx.Exec(ctx, query,
		sr.ID, sr.UserID, sr.ProviderID, sr.ServiceCategoryID, sr.UserLocationID,
		sr.ProblemDescription, sr.RequestedAt, sr.PhotoURL, sr.Status, sr.Price,
		sr.FinalAmount, sr.PaymentMethod, sr.PaymentStatus, sr.WalletHoldAmount,
		sr.CreatedAt, sr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service request: %w", err)
	}
	return nil
}

// GetByID fetches a service request by its UUID (without locking).
func (r *RequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1`

	sr, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request by id: %w", err)
	}
	return sr, nil
}

// GetByIDAndRequester fetches a request only if the user created it.
func (r *RequestRepo) GetByIDAndRequester(ctx context.Context, id, userID uuid.UUID) (*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1 AND user_id = $2`

	sr, err := scanRequest(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request by id and requester: %w", err)
	}
	return sr, nil
}

// GetByIDForUpdate fetches a request by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *RequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1 FOR UPDATE`

	sr, err := scanRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request for update: %w", err)
	}
	return sr, nil
}

// Claim atomically assigns a PENDING request to the provider. The conditional
// UPDATE guarantees a single winner under concurrent claims; losers get zero
// rows back and a nil result.
func (r *RequestRepo) Claim(ctx context.Context, id, categoryID, providerID uuid.UUID) (*domain.ServiceRequest, error) {
	query := `UPDATE service_requests
		SET provider_id = $3, status = 'ACCEPTED', updated_at = NOW()
		WHERE id = $1 AND service_category_id = $2 AND status = 'PENDING'
		RETURNING ` + requestColumns

	sr, err := scanRequest(r.pool.QueryRow(ctx, query, id, categoryID, providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim request: %w", err)
	}
	return sr, nil
}

// CancelByRequester atomically cancels the requester's own PENDING or ACCEPTED
// request. Runs in the caller's transaction so the hold release commits with
// it. Returns nil when the request is absent, not theirs, or past cancel.
func (r *RequestRepo) CancelByRequester(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*domain.ServiceRequest, error) {
	query := `UPDATE service_requests
		SET status = 'CANCELED', updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status IN ('PENDING', 'ACCEPTED')
		RETURNING ` + requestColumns

	sr, err := scanRequest(tx.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	return sr, nil
}

// Update persists the mutable lifecycle fields within a transaction.
func (r *RequestRepo) Update(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error {
	query := `UPDATE service_requests
		SET provider_id = $1, status = $2, price = $3, final_amount = $4,
			payment_status = $5, wallet_hold_amount = $6, updated_at = NOW()
		WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		sr.ProviderID, sr.Status, sr.Price, sr.FinalAmount,
		sr.PaymentStatus, sr.WalletHoldAmount, sr.ID,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request not found: %s", sr.ID)
	}
	return nil
}

func (r *RequestRepo) list(ctx context.Context, query string, args ...any) ([]domain.ServiceRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.ServiceRequest
	for rows.Next() {
		sr, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}
		requests = append(requests, *sr)
	}
	return requests, rows.Err()
}

// ListByRequester returns all requests created by the user, newest first.
func (r *RequestRepo) ListByRequester(ctx context.Context, userID uuid.UUID) ([]domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests
		WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListPendingApprovals returns completed requests awaiting the requester's
// payment confirmation.
func (r *RequestRepo) ListPendingApprovals(ctx context.Context, userID uuid.UUID) ([]domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests
		WHERE user_id = $1 AND status = 'COMPLETED' AND payment_status = 'PENDING_USER_CONFIRMATION'
		ORDER BY updated_at DESC`
	return r.list(ctx, query, userID)
}

// ListOpenByCategory returns unclaimed PENDING requests in a category.
func (r *RequestRepo) ListOpenByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests
		WHERE service_category_id = $1 AND status = 'PENDING'
		ORDER BY requested_at ASC`
	return r.list(ctx, query, categoryID)
}

// ListActiveByProvider returns the provider's in-flight requests.
func (r *RequestRepo) ListActiveByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests
		WHERE provider_id = $1 AND status IN ('ACCEPTED', 'IN_PROGRESS')
		ORDER BY updated_at DESC`
	return r.list(ctx, query, providerID)
}

// ListCompletedByProvider returns the provider's completed requests.
func (r *RequestRepo) ListCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests
		WHERE provider_id = $1 AND status = 'COMPLETED'
		ORDER BY updated_at DESC`
	return r.list(ctx, query, providerID)
}

// CountByStatus aggregates request counts for the admin dashboard.
func (r *RequestRepo) CountByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM service_requests GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count requests by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.RequestStatus]int64)
	for rows.Next() {
		var status domain.RequestStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan request count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
