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

const transactionColumns = `id, user_id, provider_id, type, amount, status, related_request_id, created_at`

// TransactionRepo implements ports.WalletTransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

func scanTransaction(row pgx.Row) (*domain.WalletTransaction, error) {
	t := &domain.WalletTransaction{}
	err := row.Scan(
		&t.ID, &t.UserID, &t.ProviderID, &t.Type, &t.Amount,
		&t.Status, &t.RelatedRequestID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create appends a ledger entry within a transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions
		(id, user_id, provider_id, type, amount, status, related_request_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.UserID, t.ProviderID, t.Type, t.Amount,
		t.Status, t.RelatedRequestID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by its UUID (without locking).
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE id = $1`

	t, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// GetByIDForUpdate fetches a ledger entry with pessimistic locking.
// This MUST be called within a transaction.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE id = $1 FOR UPDATE`

	t, err := scanTransaction(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction for update: %w", err)
	}
	return t, nil
}

// Resolve rewrites type and status together within a transaction, the only
// permitted edit of a ledger entry.
func (r *TransactionRepo) Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, newType domain.TransactionType, newStatus domain.TransactionStatus) error {
	query := `UPDATE wallet_transactions SET type = $1, status = $2 WHERE id = $3 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, newType, newStatus, id)
	if err != nil {
		return fmt.Errorf("resolve transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not pending: %s", id)
	}
	return nil
}

// MarkRejected moves a PENDING entry to REJECTED. Returns nil when the entry
// is absent or already terminal.
func (r *TransactionRepo) MarkRejected(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	query := `UPDATE wallet_transactions SET status = 'REJECTED'
		WHERE id = $1 AND status = 'PENDING'
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("reject transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]domain.WalletTransaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.WalletTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

// ListByUser returns a user's ledger entries, newest first.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListByProvider returns a provider's ledger entries, newest first.
func (r *TransactionRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE provider_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, providerID)
}

// ListPending returns PENDING entries awaiting admin review, oldest first.
func (r *TransactionRepo) ListPending(ctx context.Context, limit int) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE status = 'PENDING' ORDER BY created_at ASC LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListByRequest returns every ledger entry tied to a service request.
func (r *TransactionRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.WalletTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE related_request_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, requestID)
}

// NetApprovedForUser computes the signed sum of APPROVED entry effects on a
// user balance, the audit counterpart of the cached walletBalance.
func (r *TransactionRepo) NetApprovedForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(CASE
			WHEN type IN ('ADMIN_TOP_UP', 'PAYMENT_HOLD_RELEASE', 'CASH_IN_APPROVED') THEN amount
			WHEN type IN ('PAYMENT_HOLD', 'PAYMENT') THEN -amount
			ELSE 0 END), 0)
		FROM wallet_transactions
		WHERE user_id = $1 AND status = 'APPROVED'`

	var net int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&net); err != nil {
		return 0, fmt.Errorf("net approved for user: %w", err)
	}
	return net, nil
}

// NetApprovedForProvider computes the signed sum of APPROVED entry effects on
// a provider balance.
func (r *TransactionRepo) NetApprovedForProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(CASE
			WHEN type IN ('PROVIDER_EARNING', 'ADMIN_ADJUSTMENT') THEN amount
			WHEN type = 'WITHDRAWAL_APPROVED' THEN -amount
			ELSE 0 END), 0)
		FROM wallet_transactions
		WHERE provider_id = $1 AND status = 'APPROVED'`

	var net int64
	if err := r.pool.QueryRow(ctx, query, providerID).Scan(&net); err != nil {
		return 0, fmt.Errorf("net approved for provider: %w", err)
	}
	return net, nil
}

// GetStats aggregates ledger volumes for the admin dashboard.
func (r *TransactionRepo) GetStats(ctx context.Context) (*ports.LedgerStats, error) {
	query := `SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE status = 'APPROVED'),
			COUNT(*) FILTER (WHERE status = 'REJECTED'),
			COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED' AND type = 'PAYMENT_HOLD'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED' AND type = 'PAYMENT'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED' AND type = 'PROVIDER_EARNING'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'APPROVED' AND type = 'WITHDRAWAL_APPROVED'), 0)
		FROM wallet_transactions`

	stats := &ports.LedgerStats{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalEntries, &stats.Pending, &stats.Approved, &stats.Rejected,
		&stats.TotalHolds, &stats.TotalPayments, &stats.TotalEarnings, &stats.TotalWithdrawn,
	)
	if err != nil {
		return nil, fmt.Errorf("get ledger stats: %w", err)
	}
	return stats, nil
}
