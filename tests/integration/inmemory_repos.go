package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.Phone == user.Phone {
			return fmt.Errorf("email or phone already exists")
		}
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *inMemoryUserRepo) GetByEmailOrPhone(ctx context.Context, email, phone string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email || u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryUserRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.WalletBalance = balance
	return nil
}

func (r *inMemoryUserRepo) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.Role = role
	return nil
}

func (r *inMemoryUserRepo) List(ctx context.Context, limit int) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.User
	for _, u := range r.users {
		result = append(result, *u)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// --- In-Memory Provider Repo ---

type inMemoryProviderRepo struct {
	mu        sync.RWMutex
	providers map[uuid.UUID]*domain.ServiceProvider
}

func newInMemoryProviderRepo() *inMemoryProviderRepo {
	return &inMemoryProviderRepo{providers: make(map[uuid.UUID]*domain.ServiceProvider)}
}

func (r *inMemoryProviderRepo) Upsert(ctx context.Context, p *domain.ServiceProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.providers {
		if existing.UserID == p.UserID {
			p.ID = existing.ID
			copied := *p
			r.providers[existing.ID] = &copied
			return nil
		}
	}
	copied := *p
	r.providers[p.ID] = &copied
	return nil
}

func (r *inMemoryProviderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *inMemoryProviderRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.ServiceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *inMemoryProviderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ServiceProvider, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryProviderRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return fmt.Errorf("provider not found")
	}
	p.WalletBalance = balance
	return nil
}

func (r *inMemoryProviderRepo) UpdateAverageRating(ctx context.Context, id uuid.UUID, averageRating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return fmt.Errorf("provider not found")
	}
	p.AverageRating = averageRating
	return nil
}

func (r *inMemoryProviderRepo) IncrementCompletedJobs(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return fmt.Errorf("provider not found")
	}
	p.TotalCompletedJobs++
	return nil
}

func (r *inMemoryProviderRepo) List(ctx context.Context, params ports.ProviderListParams) ([]domain.ServiceProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceProvider
	for _, p := range r.providers {
		if params.ServiceCategoryID != nil && p.ServiceCategoryID != *params.ServiceCategoryID {
			continue
		}
		result = append(result, *p)
		if params.Limit > 0 && len(result) >= params.Limit {
			break
		}
	}
	return result, nil
}

// --- In-Memory Category Repo ---

type inMemoryCategoryRepo struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]*domain.ServiceCategory
}

func newInMemoryCategoryRepo() *inMemoryCategoryRepo {
	return &inMemoryCategoryRepo{categories: make(map[uuid.UUID]*domain.ServiceCategory)}
}

func (r *inMemoryCategoryRepo) Create(ctx context.Context, c *domain.ServiceCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *inMemoryCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *inMemoryCategoryRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.ServiceCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok || !c.IsActive {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *inMemoryCategoryRepo) List(ctx context.Context, includeInactive bool) ([]domain.ServiceCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceCategory
	for _, c := range r.categories {
		if !includeInactive && !c.IsActive {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (r *inMemoryCategoryRepo) Update(ctx context.Context, c *domain.ServiceCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return fmt.Errorf("category not found")
	}
	copied := *c
	r.categories[c.ID] = &copied
	return nil
}

func (r *inMemoryCategoryRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return fmt.Errorf("category not found")
	}
	c.IsActive = active
	return nil
}

// --- In-Memory Location Repo ---

type inMemoryLocationRepo struct {
	mu        sync.RWMutex
	locations map[uuid.UUID]*domain.UserLocation
}

func newInMemoryLocationRepo() *inMemoryLocationRepo {
	return &inMemoryLocationRepo{locations: make(map[uuid.UUID]*domain.UserLocation)}
}

func (r *inMemoryLocationRepo) Create(ctx context.Context, l *domain.UserLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *l
	r.locations[l.ID] = &copied
	return nil
}

func (r *inMemoryLocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locations[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *inMemoryLocationRepo) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.UserLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locations[id]
	if !ok || l.UserID != userID {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *inMemoryLocationRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[uuid.UUID]domain.UserLocation, len(ids))
	for _, id := range ids {
		if l, ok := r.locations[id]; ok {
			result[id] = *l
		}
	}
	return result, nil
}

func (r *inMemoryLocationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserLocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.UserLocation
	for _, l := range r.locations {
		if l.UserID == userID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (r *inMemoryLocationRepo) Update(ctx context.Context, l *domain.UserLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations[l.ID]; !ok {
		return fmt.Errorf("location not found: %s", l.ID)
	}
	copied := *l
	r.locations[l.ID] = &copied
	return nil
}

func (r *inMemoryLocationRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locations[id]
	if !ok || l.UserID != userID {
		return fmt.Errorf("location not found: %s", id)
	}
	delete(r.locations, id)
	return nil
}

// --- In-Memory Request Repo ---

type inMemoryRequestRepo struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*domain.ServiceRequest
}

func newInMemoryRequestRepo() *inMemoryRequestRepo {
	return &inMemoryRequestRepo{requests: make(map[uuid.UUID]*domain.ServiceRequest)}
}

func (r *inMemoryRequestRepo) Create(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *sr
	r.requests[sr.ID] = &copied
	return nil
}

func (r *inMemoryRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sr, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *sr
	return &copied, nil
}

func (r *inMemoryRequestRepo) GetByIDAndRequester(ctx context.Context, id, userID uuid.UUID) (*domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sr, ok := r.requests[id]
	if !ok || sr.UserID != userID {
		return nil, nil
	}
	copied := *sr
	return &copied, nil
}

func (r *inMemoryRequestRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.ServiceRequest, error) {
	return r.GetByID(ctx, id)
}

// Claim mirrors the atomic conditional UPDATE: exactly one concurrent caller
// observes the PENDING row and wins it.
func (r *inMemoryRequestRepo) Claim(ctx context.Context, id, categoryID, providerID uuid.UUID) (*domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sr, ok := r.requests[id]
	if !ok || sr.Status != domain.RequestStatusPending || sr.ServiceCategoryID != categoryID {
		return nil, nil
	}
	pid := providerID
	sr.ProviderID = &pid
	sr.Status = domain.RequestStatusAccepted
	sr.UpdatedAt = time.Now().UTC()
	copied := *sr
	return &copied, nil
}

func (r *inMemoryRequestRepo) CancelByRequester(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sr, ok := r.requests[id]
	if !ok || sr.UserID != userID || !sr.Cancellable() {
		return nil, nil
	}
	sr.Status = domain.RequestStatusCanceled
	sr.UpdatedAt = time.Now().UTC()
	copied := *sr
	return &copied, nil
}

func (r *inMemoryRequestRepo) Update(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[sr.ID]; !ok {
		return fmt.Errorf("request not found")
	}
	copied := *sr
	r.requests[sr.ID] = &copied
	return nil
}

func (r *inMemoryRequestRepo) ListByRequester(ctx context.Context, userID uuid.UUID) ([]domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceRequest
	for _, sr := range r.requests {
		if sr.UserID == userID {
			result = append(result, *sr)
		}
	}
	return result, nil
}

func (r *inMemoryRequestRepo) ListPendingApprovals(ctx context.Context, userID uuid.UUID) ([]domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceRequest
	for _, sr := range r.requests {
		if sr.UserID == userID && sr.Status == domain.RequestStatusCompleted &&
			sr.PaymentStatus == domain.PaymentStatusPendingUserConfirmation {
			result = append(result, *sr)
		}
	}
	return result, nil
}

func (r *inMemoryRequestRepo) ListOpenByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceRequest
	for _, sr := range r.requests {
		if sr.ServiceCategoryID == categoryID && sr.Status == domain.RequestStatusPending {
			result = append(result, *sr)
		}
	}
	return result, nil
}

func (r *inMemoryRequestRepo) ListActiveByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceRequest
	for _, sr := range r.requests {
		if sr.ProviderID == nil || *sr.ProviderID != providerID {
			continue
		}
		if sr.Status == domain.RequestStatusAccepted || sr.Status == domain.RequestStatusInProgress {
			result = append(result, *sr)
		}
	}
	return result, nil
}

func (r *inMemoryRequestRepo) ListCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.ServiceRequest
	for _, sr := range r.requests {
		if sr.ProviderID != nil && *sr.ProviderID == providerID && sr.Status == domain.RequestStatusCompleted {
			result = append(result, *sr)
		}
	}
	return result, nil
}

func (r *inMemoryRequestRepo) CountByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.RequestStatus]int64)
	for _, sr := range r.requests {
		counts[sr.Status]++
	}
	return counts, nil
}

// --- In-Memory Wallet Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*domain.WalletTransaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{entries: make(map[uuid.UUID]*domain.WalletTransaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.entries[t.ID] = &copied
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *inMemoryTransactionRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.WalletTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryTransactionRepo) Resolve(ctx context.Context, tx pgx.Tx, id uuid.UUID, newType domain.TransactionType, newStatus domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.entries[id]
	if !ok || t.Status != domain.TransactionStatusPending {
		return fmt.Errorf("transaction not pending")
	}
	t.Type = newType
	t.Status = newStatus
	return nil
}

func (r *inMemoryTransactionRepo) MarkRejected(ctx context.Context, id uuid.UUID) (*domain.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.entries[id]
	if !ok || t.Status != domain.TransactionStatusPending {
		return nil, nil
	}
	t.Status = domain.TransactionStatusRejected
	copied := *t
	return &copied, nil
}

func (r *inMemoryTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WalletTransaction
	for _, t := range r.entries {
		if t.UserID != nil && *t.UserID == userID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WalletTransaction
	for _, t := range r.entries {
		if t.ProviderID != nil && *t.ProviderID == providerID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) ListPending(ctx context.Context, limit int) ([]domain.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WalletTransaction
	for _, t := range r.entries {
		if t.Status == domain.TransactionStatusPending {
			result = append(result, *t)
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]domain.WalletTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WalletTransaction
	for _, t := range r.entries {
		if t.RelatedRequestID != nil && *t.RelatedRequestID == requestID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (r *inMemoryTransactionRepo) NetApprovedForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, t := range r.entries {
		if t.UserID != nil && *t.UserID == userID {
			sum += t.UserEffect()
		}
	}
	return sum, nil
}

func (r *inMemoryTransactionRepo) NetApprovedForProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum int64
	for _, t := range r.entries {
		if t.ProviderID != nil && *t.ProviderID == providerID {
			sum += t.ProviderEffect()
		}
	}
	return sum, nil
}

func (r *inMemoryTransactionRepo) GetStats(ctx context.Context) (*ports.LedgerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.LedgerStats{}
	for _, t := range r.entries {
		stats.TotalEntries++
		switch t.Status {
		case domain.TransactionStatusPending:
			stats.Pending++
		case domain.TransactionStatusApproved:
			stats.Approved++
		case domain.TransactionStatusRejected:
			stats.Rejected++
		}
		if t.Status != domain.TransactionStatusApproved {
			continue
		}
		switch t.Type {
		case domain.TransactionTypePaymentHold:
			stats.TotalHolds += t.Amount
		case domain.TransactionTypePayment:
			stats.TotalPayments += t.Amount
		case domain.TransactionTypeProviderEarning:
			stats.TotalEarnings += t.Amount
		case domain.TransactionTypeWithdrawalApproved:
			stats.TotalWithdrawn += t.Amount
		}
	}
	return stats, nil
}

// --- In-Memory Rating Repo ---

type inMemoryRatingRepo struct {
	mu      sync.RWMutex
	ratings map[uuid.UUID]*domain.Rating
}

func newInMemoryRatingRepo() *inMemoryRatingRepo {
	return &inMemoryRatingRepo{ratings: make(map[uuid.UUID]*domain.Rating)}
}

func (r *inMemoryRatingRepo) Create(ctx context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *rating
	r.ratings[rating.ID] = &copied
	return nil
}

func (r *inMemoryRatingRepo) ExistsForRequest(ctx context.Context, requestID, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rating := range r.ratings {
		if rating.ServiceRequestID == requestID && rating.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *inMemoryRatingRepo) RatedRequestIDs(ctx context.Context, userID uuid.UUID, requestIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rated := make(map[uuid.UUID]bool)
	for _, id := range requestIDs {
		for _, rating := range r.ratings {
			if rating.ServiceRequestID == id && rating.UserID == userID {
				rated[id] = true
				break
			}
		}
	}
	return rated, nil
}

func (r *inMemoryRatingRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Rating
	for _, rating := range r.ratings {
		if rating.ProviderID == providerID {
			result = append(result, *rating)
		}
	}
	return result, nil
}

func (r *inMemoryRatingRepo) AggregateForProvider(ctx context.Context, providerID uuid.UUID) (float64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum, count int64
	for _, rating := range r.ratings {
		if rating.ProviderID == providerID {
			sum += int64(rating.Score)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
