package ports

import (
	"context"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// UserRepository defines persistence operations for user accounts.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailOrPhone(ctx context.Context, email, phone string) (*domain.User, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance int64) error
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
	List(ctx context.Context, limit int) ([]domain.User, error)
}

// ProviderRepository defines persistence operations for provider profiles.
type ProviderRepository interface {
	Upsert(ctx context.Context, p *domain.ServiceProvider) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceProvider, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ServiceProvider, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ServiceProvider, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance int64) error
	UpdateAverageRating(ctx context.Context, id uuid.UUID, averageRating float64) error
	IncrementCompletedJobs(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	List(ctx context.Context, params ProviderListParams) ([]domain.ServiceProvider, error)
}

// ProviderListParams filters the provider directory listing.
type ProviderListParams struct {
	ServiceCategoryID *uuid.UUID
	Limit             int
}

// CategoryRepository defines persistence operations for service categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.ServiceCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error)
	// GetActiveByID returns nil when the category is absent or inactive.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error)
	List(ctx context.Context, includeInactive bool) ([]domain.ServiceCategory, error)
	Update(ctx context.Context, c *domain.ServiceCategory) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// LocationRepository defines persistence operations for saved user locations.
type LocationRepository interface {
	Create(ctx context.Context, l *domain.UserLocation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserLocation, error)
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.UserLocation, error)
	// GetByIDs batch-fetches locations keyed by ID (missing IDs are absent
	// from the map).
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserLocation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserLocation, error)
	Update(ctx context.Context, l *domain.UserLocation) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// RequestRepository defines persistence operations for service requests.
type RequestRepository interface {
	Create(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error)
	GetByIDAndRequester(ctx context.Context, id, userID uuid.UUID) (*domain.ServiceRequest, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ServiceRequest, error)
	// Claim atomically assigns a PENDING request in the given category to the
	// provider and moves it to ACCEPTED. Returns nil when no matching row
	// exists (already claimed, wrong category, or absent) — under concurrent
	// claims exactly one caller receives the row.
	Claim(ctx context.Context, id, categoryID, providerID uuid.UUID) (*domain.ServiceRequest, error)
	// CancelByRequester atomically cancels the requester's PENDING or ACCEPTED
	// request within the transaction, so the hold release can join it.
	// Returns nil when no matching row exists.
	CancelByRequester(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*domain.ServiceRequest, error)
	// Update persists the mutable lifecycle fields (status, provider, price,
	// finalAmount, paymentStatus, walletHoldAmount).
	Update(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error
	ListByRequester(ctx context.Context, userID uuid.UUID) ([]domain.ServiceRequest, error)
	ListPendingApprovals(ctx context.Context, userID uuid.UUID) ([]domain.ServiceRequest, error)
	ListOpenByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.ServiceRequest, error)
	ListActiveByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceRequest, error)
	ListCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceRequest, error)
	CountByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error)
}

// WalletTransactionRepository defines persistence for the append-only ledger.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletTransaction, error)
	// Resolve rewrites type and status together — the only permitted edit of a
	// ledger entry, used for the two PENDING-request upgrades.
	Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, newType domain.TransactionType, newStatus domain.TransactionStatus) error
	// MarkRejected moves any PENDING entry to REJECTED (type unchanged).
	// Returns nil when the entry is absent or not PENDING.
	MarkRejected(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WalletTransaction, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.WalletTransaction, error)
	ListPending(ctx context.Context, limit int) ([]domain.WalletTransaction, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.WalletTransaction, error)
	// NetApprovedForUser returns the signed sum of APPROVED entry effects for a
	// user balance — the audit counterpart of the cached walletBalance.
	NetApprovedForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	NetApprovedForProvider(ctx context.Context, providerID uuid.UUID) (int64, error)
	GetStats(ctx context.Context) (*LedgerStats, error)
}

// LedgerStats aggregates APPROVED ledger volumes for the admin dashboard.
type LedgerStats struct {
	TotalEntries   int64
	Pending        int64
	Approved       int64
	Rejected       int64
	TotalHolds     int64 // Sum of APPROVED PAYMENT_HOLD amounts
	TotalPayments  int64 // Sum of APPROVED PAYMENT amounts
	TotalEarnings  int64 // Sum of APPROVED PROVIDER_EARNING amounts
	TotalWithdrawn int64 // Sum of APPROVED WITHDRAWAL_APPROVED amounts
}

// RatingRepository defines persistence for ratings.
type RatingRepository interface {
	Create(ctx context.Context, r *domain.Rating) error
	ExistsForRequest(ctx context.Context, requestID, userID uuid.UUID) (bool, error)
	RatedRequestIDs(ctx context.Context, userID uuid.UUID, requestIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Rating, error)
	// AggregateForProvider returns the average score and rating count.
	AggregateForProvider(ctx context.Context, providerID uuid.UUID) (float64, int64, error)
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
