package ports

import (
	"context"
	"time"

	"home-services-backend/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.Role
}

// CategoryCache is the Redis-layer cache of active categories (best effort).
type CategoryCache interface {
	Get(ctx context.Context) ([]domain.ServiceCategory, error) // Returns nil on miss
	Set(ctx context.Context, categories []domain.ServiceCategory, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// --- Service Ports (Business Logic) ---

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
}

// RegisterRequest holds validated input for user registration.
type RegisterRequest struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginResult holds the issued token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RequestService defines the service-request lifecycle business logic.
// Every method authorizes against the acting principal.
type RequestService interface {
	Create(ctx context.Context, principal domain.Principal, req CreateRequestInput) (*domain.ServiceRequest, error)
	GetByID(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error)
	Accept(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error)
	Reject(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error)
	Cancel(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error)
	// Advance moves an assigned request along the provider transition table.
	// Completion requires the settled amount and parks the request at
	// PENDING_USER_CONFIRMATION awaiting the requester.
	Advance(ctx context.Context, principal domain.Principal, id uuid.UUID, to domain.RequestStatus, finalAmount *int64) (*domain.ServiceRequest, error)
	// AcceptPayment is the requester's confirmation that settles a completed
	// request: cash goes straight to PAID, wallet runs the ledger settlement.
	AcceptPayment(ctx context.Context, principal domain.Principal, id uuid.UUID) (*PaymentResult, error)
	// ConfirmCashPayment is the requester's acknowledgement that the provider
	// was paid in cash.
	ConfirmCashPayment(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error)
	ListMine(ctx context.Context, principal domain.Principal) ([]RequestWithRating, error)
	ListPendingApprovals(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error)
	// ListOpen returns unclaimed PENDING requests in the provider's category.
	ListOpen(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error)
	// ListNearby returns the provider's own active jobs first, then open
	// requests in their category, each group sorted by distance from the
	// provider's registered coordinates.
	ListNearby(ctx context.Context, principal domain.Principal) ([]NearbyRequest, error)
	ListActive(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error)
	ListCompleted(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error)
}

// CreateRequestInput holds validated input for request creation.
type CreateRequestInput struct {
	ServiceCategoryID uuid.UUID
	UserLocationID    uuid.UUID
	Description       string
	RequestedAt       time.Time
	PhotoURL          *string
	PaymentMethod     domain.PaymentMethod
}

// RequestWithRating decorates a request with whether the requester rated it.
type RequestWithRating struct {
	domain.ServiceRequest
	Rated bool `json:"rated"`
}

// NearbyRequest decorates a request with its distance from the provider.
// DistanceKm is nil when either side lacks coordinates.
type NearbyRequest struct {
	domain.ServiceRequest
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// PaymentResult reports a wallet settlement: the updated request plus every
// ledger entry the settlement produced.
type PaymentResult struct {
	Request      *domain.ServiceRequest     `json:"request"`
	Transactions []domain.WalletTransaction `json:"transactions"`
	PaidAmount   int64                      `json:"paid_amount"`
}

// WalletService defines the wallet and ledger business logic.
type WalletService interface {
	GetWallet(ctx context.Context, principal domain.Principal) (*WalletSummary, error)
	ListTransactions(ctx context.Context, principal domain.Principal) ([]domain.WalletTransaction, error)
	// PayWithWallet settles a completed wallet request atomically: additional
	// debit past the hold, surplus release, provider credit, PAID mark.
	PayWithWallet(ctx context.Context, requestID, userID uuid.UUID) (*PaymentResult, error)
	// ReleaseHold refunds any outstanding hold on the request inside the
	// caller's transaction, so the refund commits or rolls back with the
	// lifecycle change that triggered it. Mutates sr (hold zeroed, HOLD
	// demoted to UNPAID); the caller persists sr. Idempotent.
	ReleaseHold(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error
	// RequestCashIn is a provider self-reporting cash collected on an assigned
	// request; approval credits the request's user.
	RequestCashIn(ctx context.Context, principal domain.Principal, requestID uuid.UUID, amount int64) (*domain.WalletTransaction, error)
	RequestWithdrawal(ctx context.Context, principal domain.Principal, amount int64) (*domain.WalletTransaction, error)
	// Admin operations.
	TopUpUser(ctx context.Context, userID uuid.UUID, amount int64) (*domain.WalletTransaction, error)
	AdjustProvider(ctx context.Context, providerID uuid.UUID, amount int64) (*domain.WalletTransaction, error)
	// ProviderEarning credits a provider for a specific request outside the
	// settlement flow (manual corrections), writing a PROVIDER_EARNING entry.
	ProviderEarning(ctx context.Context, providerID, requestID uuid.UUID, amount int64) (*domain.WalletTransaction, error)
	ApproveCashIn(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error)
	ApproveWithdrawal(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error)
	// ApproveTransaction dispatches to the matching approval by entry type.
	ApproveTransaction(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error)
	RejectTransaction(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error)
	ListPendingTransactions(ctx context.Context, limit int) ([]domain.WalletTransaction, error)
	// AuditBalance recomputes a cached balance from APPROVED ledger entries.
	AuditBalance(ctx context.Context, owner BalanceOwner) (*BalanceAudit, error)
}

// WalletSummary is a cached balance snapshot for the authenticated principal.
type WalletSummary struct {
	Balance         int64  `json:"balance"`
	ProviderBalance *int64 `json:"provider_balance,omitempty"`
}

// BalanceOwner identifies which cached balance to audit.
type BalanceOwner struct {
	UserID     *uuid.UUID
	ProviderID *uuid.UUID
}

// BalanceAudit compares a cached balance against the ledger-derived one.
type BalanceAudit struct {
	Owner         BalanceOwner `json:"-"`
	CachedBalance int64        `json:"cached_balance"`
	LedgerBalance int64        `json:"ledger_balance"`
	Consistent    bool         `json:"consistent"`
}

// ProviderService defines provider profile business logic.
type ProviderService interface {
	Register(ctx context.Context, principal domain.Principal, req ProviderRegisterInput) (*domain.ServiceProvider, error)
	Me(ctx context.Context, principal domain.Principal) (*domain.ServiceProvider, error)
	UpdateMe(ctx context.Context, principal domain.Principal, req ProviderUpdateInput) (*domain.ServiceProvider, error)
	List(ctx context.Context, params ProviderListParams) ([]domain.ServiceProvider, error)
}

// ProviderRegisterInput holds validated input for provider registration.
type ProviderRegisterInput struct {
	ServiceCategoryID uuid.UUID
	Latitude          *float64
	Longitude         *float64
	AddressLine       *string
	ServiceRadiusKm   *float64
	ExperienceYears   *int
	Bio               *string
}

// ProviderUpdateInput holds validated partial updates to a provider profile.
type ProviderUpdateInput struct {
	ServiceCategoryID *uuid.UUID
	Latitude          *float64
	Longitude         *float64
	AddressLine       *string
	ServiceRadiusKm   *float64
	ExperienceYears   *int
	Bio               *string
}

// CategoryService defines service-category business logic.
type CategoryService interface {
	Create(ctx context.Context, req CategoryInput) (*domain.ServiceCategory, error)
	Update(ctx context.Context, id uuid.UUID, req CategoryInput) (*domain.ServiceCategory, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListActive(ctx context.Context) ([]domain.ServiceCategory, error)
	ListAll(ctx context.Context) ([]domain.ServiceCategory, error)
}

// CategoryInput holds validated category fields.
type CategoryInput struct {
	Name        string
	Description *string
	BasePrice   int64
	Icon        *string
}

// LocationService defines saved-location business logic.
type LocationService interface {
	Create(ctx context.Context, principal domain.Principal, req LocationInput) (*domain.UserLocation, error)
	Update(ctx context.Context, principal domain.Principal, id uuid.UUID, req LocationInput) (*domain.UserLocation, error)
	Delete(ctx context.Context, principal domain.Principal, id uuid.UUID) error
	ListMine(ctx context.Context, principal domain.Principal) ([]domain.UserLocation, error)
}

// LocationInput holds validated location fields.
type LocationInput struct {
	LocationName    *string
	Latitude        float64
	Longitude       float64
	Street          *string
	BuildingFloor   *string
	AdditionalNotes *string
	IsDefault       bool
}

// RatingService defines rating business logic.
type RatingService interface {
	Rate(ctx context.Context, principal domain.Principal, req RateInput) (*domain.Rating, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Rating, error)
}

// RateInput holds validated input for rating a completed request.
type RateInput struct {
	ServiceRequestID uuid.UUID
	Score            int
	Comment          *string
}

// ReportingService defines admin dashboard/reporting business logic.
type ReportingService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, limit int) ([]domain.User, error)
}

// DashboardStats is the admin overview of marketplace activity.
type DashboardStats struct {
	RequestsByStatus map[domain.RequestStatus]int64 `json:"requests_by_status"`
	Ledger           *LedgerStats                   `json:"ledger"`
}

// AuditService records audit trail entries (best effort, never blocks the
// business operation).
type AuditService interface {
	Record(ctx context.Context, entry *domain.AuditLog)
}
