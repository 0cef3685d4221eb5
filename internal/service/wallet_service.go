package service

import (
	"context"
	"fmt"
	"time"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService. It is the single writer of
// the cached balances on users and providers: every balance mutation happens
// here, inside one database transaction with its ledger entry.
type WalletServiceImpl struct {
	userRepo     ports.UserRepository
	providerRepo ports.ProviderRepository
	txRepo       ports.WalletTransactionRepository
	requestRepo  ports.RequestRepository
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	userRepo ports.UserRepository,
	providerRepo ports.ProviderRepository,
	txRepo ports.WalletTransactionRepository,
	requestRepo ports.RequestRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		userRepo:     userRepo,
		providerRepo: providerRepo,
		txRepo:       txRepo,
		requestRepo:  requestRepo,
		transactor:   transactor,
		log:          log,
	}
}

// GetWallet returns the principal's cached balances.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, principal domain.Principal) (*ports.WalletSummary, error) {
	user, err := s.userRepo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	summary := &ports.WalletSummary{Balance: user.WalletBalance}

	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider != nil {
		summary.ProviderBalance = &provider.WalletBalance
	}
	return summary, nil
}

// ListTransactions returns the principal's ledger entries. Providers see their
// earning-side entries appended after the user-side ones.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, principal domain.Principal) ([]domain.WalletTransaction, error) {
	entries, err := s.txRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list user transactions: %w", err))
	}

	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider != nil {
		providerEntries, err := s.txRepo.ListByProvider(ctx, provider.ID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("list provider transactions: %w", err))
		}
		entries = append(entries, providerEntries...)
	}
	return entries, nil
}

// PayWithWallet settles a completed wallet request. Everything happens in one
// database transaction: the additional debit past the hold, the surplus
// release, the provider credit, and the PAID mark. The request, payer, and
// provider rows are all locked before any arithmetic.
func (s *WalletServiceImpl) PayWithWallet(ctx context.Context, requestID, userID uuid.UUID) (*ports.PaymentResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sr, err := s.requestRepo.GetByIDForUpdate(ctx, dbTx, requestID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock request: %w", err))
	}
	if sr == nil || sr.UserID != userID {
		return nil, apperror.ErrNotFound("service request")
	}
	if sr.PaymentMethod != domain.PaymentMethodWallet {
		return nil, apperror.ErrNotWalletPayment()
	}
	if sr.Status != domain.RequestStatusCompleted {
		return nil, apperror.ErrNotCompleted()
	}
	if sr.PaymentStatus == domain.PaymentStatusPaid {
		return nil, apperror.ErrAlreadyPaid()
	}
	if sr.ProviderID == nil {
		return nil, apperror.ErrPaymentNotReady()
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	payable := sr.Payable()
	hold := sr.WalletHoldAmount
	now := time.Now().UTC()
	newBalance := user.WalletBalance
	var entries []domain.WalletTransaction

	// Debit anything owed past the hold.
	if additional := payable - hold; additional > 0 {
		if user.WalletBalance < additional {
			return nil, apperror.ErrInsufficientFunds()
		}
		newBalance -= additional
		entries = append(entries, domain.WalletTransaction{
			ID:               uuid.New(),
			UserID:           &user.ID,
			Type:             domain.TransactionTypePayment,
			Amount:           additional,
			Status:           domain.TransactionStatusApproved,
			RelatedRequestID: &sr.ID,
			CreatedAt:        now,
		})
	}

	// Refund any hold surplus.
	if hold > payable {
		release := hold - payable
		newBalance += release
		entries = append(entries, domain.WalletTransaction{
			ID:               uuid.New(),
			UserID:           &user.ID,
			Type:             domain.TransactionTypePaymentHoldRelease,
			Amount:           release,
			Status:           domain.TransactionStatusApproved,
			RelatedRequestID: &sr.ID,
			CreatedAt:        now,
		})
	}

	if newBalance != user.WalletBalance {
		if err := s.userRepo.UpdateBalance(ctx, dbTx, user.ID, newBalance); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update user balance: %w", err))
		}
	}

	provider, err := s.providerRepo.GetByIDForUpdate(ctx, dbTx, *sr.ProviderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrNotFound("provider")
	}
	if err := s.providerRepo.UpdateBalance(ctx, dbTx, provider.ID, provider.WalletBalance+payable); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update provider balance: %w", err))
	}
	entries = append(entries, domain.WalletTransaction{
		ID:               uuid.New(),
		ProviderID:       &provider.ID,
		Type:             domain.TransactionTypeProviderEarning,
		Amount:           payable,
		Status:           domain.TransactionStatusApproved,
		RelatedRequestID: &sr.ID,
		CreatedAt:        now,
	})

	for i := range entries {
		if err := s.txRepo.Create(ctx, dbTx, &entries[i]); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
		}
	}

	sr.PaymentStatus = domain.PaymentStatusPaid
	sr.WalletHoldAmount = 0
	if err := s.requestRepo.Update(ctx, dbTx, sr); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update request: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("request_id", sr.ID.String()).
		Int64("paid", payable).
		Int64("hold", hold).
		Msg("wallet payment settled")

	return &ports.PaymentResult{Request: sr, Transactions: entries, PaidAmount: payable}, nil
}

// ReleaseHold refunds any outstanding hold on the request inside the caller's
// transaction. The refund commits or rolls back together with whatever
// lifecycle change triggered it; sr is mutated (hold zeroed, HOLD demoted to
// UNPAID) and the caller persists it. Idempotent: no hold, cash payment, or an
// already-PAID request is left untouched.
func (s *WalletServiceImpl) ReleaseHold(ctx context.Context, tx pgx.Tx, sr *domain.ServiceRequest) error {
	if sr.PaymentMethod != domain.PaymentMethodWallet || sr.PaymentStatus == domain.PaymentStatusPaid || sr.WalletHoldAmount <= 0 {
		return nil
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, tx, sr.UserID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return apperror.ErrNotFound("user")
	}

	release := sr.WalletHoldAmount
	if err := s.userRepo.UpdateBalance(ctx, tx, user.ID, user.WalletBalance+release); err != nil {
		return apperror.InternalError(fmt.Errorf("update user balance: %w", err))
	}

	entry := &domain.WalletTransaction{
		ID:               uuid.New(),
		UserID:           &user.ID,
		Type:             domain.TransactionTypePaymentHoldRelease,
		Amount:           release,
		Status:           domain.TransactionStatusApproved,
		RelatedRequestID: &sr.ID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, tx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	sr.WalletHoldAmount = 0
	if sr.PaymentStatus == domain.PaymentStatusHold {
		sr.PaymentStatus = domain.PaymentStatusUnpaid
	}

	s.log.Info().
		Str("request_id", sr.ID.String()).
		Int64("released", release).
		Msg("wallet hold released")

	return nil
}

// RequestCashIn is a provider self-reporting cash collected on one of their
// assigned requests. The entry carries the request's user and stays PENDING
// until admin review; approval credits that user.
func (s *WalletServiceImpl) RequestCashIn(ctx context.Context, principal domain.Principal, requestID uuid.UUID, amount int64) (*domain.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}

	sr, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get request: %w", err))
	}
	if sr == nil || !sr.AssignedTo(provider.ID) {
		return nil, apperror.ErrNotFound("service request")
	}

	entry := &domain.WalletTransaction{
		ID:               uuid.New(),
		UserID:           &sr.UserID,
		ProviderID:       &provider.ID,
		Type:             domain.TransactionTypeCashInRequest,
		Amount:           amount,
		Status:           domain.TransactionStatusPending,
		RelatedRequestID: &sr.ID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.createEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RequestWithdrawal files a PENDING withdrawal for the principal's provider
// profile. The balance check here is advisory; the binding one happens at
// approval time under lock.
func (s *WalletServiceImpl) RequestWithdrawal(ctx context.Context, principal domain.Principal, amount int64) (*domain.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}
	if provider.WalletBalance < amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	entry := &domain.WalletTransaction{
		ID:         uuid.New(),
		ProviderID: &provider.ID,
		Type:       domain.TransactionTypeWithdrawalRequest,
		Amount:     amount,
		Status:     domain.TransactionStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.createEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// TopUpUser credits a user balance immediately (admin operation).
func (s *WalletServiceImpl) TopUpUser(ctx context.Context, userID uuid.UUID, amount int64) (*domain.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrNotFound("user")
	}

	if err := s.userRepo.UpdateBalance(ctx, dbTx, user.ID, user.WalletBalance+amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update user balance: %w", err))
	}

	entry := &domain.WalletTransaction{
		ID:        uuid.New(),
		UserID:    &user.ID,
		Type:      domain.TransactionTypeAdminTopUp,
		Amount:    amount,
		Status:    domain.TransactionStatusApproved,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("user_id", user.ID.String()).
		Int64("amount", amount).
		Msg("admin top-up applied")

	return entry, nil
}

// AdjustProvider credits a provider balance immediately (admin operation).
func (s *WalletServiceImpl) AdjustProvider(ctx context.Context, providerID uuid.UUID, amount int64) (*domain.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	provider, err := s.providerRepo.GetByIDForUpdate(ctx, dbTx, providerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrNotFound("provider")
	}

	if err := s.providerRepo.UpdateBalance(ctx, dbTx, provider.ID, provider.WalletBalance+amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update provider balance: %w", err))
	}

	entry := &domain.WalletTransaction{
		ID:         uuid.New(),
		ProviderID: &provider.ID,
		Type:       domain.TransactionTypeAdminAdjustment,
		Amount:     amount,
		Status:     domain.TransactionStatusApproved,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("provider_id", provider.ID.String()).
		Int64("amount", amount).
		Msg("admin adjustment applied")

	return entry, nil
}

// ProviderEarning credits a provider for a specific request outside the
// settlement flow (admin operation, manual corrections). The entry keeps the
// request link so the payout stays traceable in the ledger.
func (s *WalletServiceImpl) ProviderEarning(ctx context.Context, providerID, requestID uuid.UUID, amount int64) (*domain.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	sr, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get request: %w", err))
	}
	if sr == nil {
		return nil, apperror.ErrNotFound("service request")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	provider, err := s.providerRepo.GetByIDForUpdate(ctx, dbTx, providerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrNotFound("provider")
	}

	if err := s.providerRepo.UpdateBalance(ctx, dbTx, provider.ID, provider.WalletBalance+amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update provider balance: %w", err))
	}

	entry := &domain.WalletTransaction{
		ID:               uuid.New(),
		ProviderID:       &provider.ID,
		Type:             domain.TransactionTypeProviderEarning,
		Amount:           amount,
		Status:           domain.TransactionStatusApproved,
		RelatedRequestID: &sr.ID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("provider_id", provider.ID.String()).
		Str("request_id", sr.ID.String()).
		Int64("amount", amount).
		Msg("provider earning credited")

	return entry, nil
}

// ApproveCashIn upgrades a PENDING CASH_IN_REQUEST to CASH_IN_APPROVED,
// crediting the referenced user when the entry carries one, atomically.
func (s *WalletServiceImpl) ApproveCashIn(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entry, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if entry.Type != domain.TransactionTypeCashInRequest || entry.Status != domain.TransactionStatusPending {
		return nil, apperror.ErrInvalidTransaction()
	}

	if entry.UserID != nil {
		user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, *entry.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock user: %w", err))
		}
		if user == nil {
			return nil, apperror.ErrNotFound("user")
		}
		if err := s.userRepo.UpdateBalance(ctx, dbTx, user.ID, user.WalletBalance+entry.Amount); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update user balance: %w", err))
		}
	}
	if err := s.txRepo.Resolve(ctx, dbTx, entry.ID, domain.TransactionTypeCashInApproved, domain.TransactionStatusApproved); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	entry.Type = domain.TransactionTypeCashInApproved
	entry.Status = domain.TransactionStatusApproved

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Int64("amount", entry.Amount).
		Msg("cash-in approved")

	return entry, nil
}

// ApproveWithdrawal upgrades a PENDING WITHDRAWAL_REQUEST to
// WITHDRAWAL_APPROVED and debits the provider. The balance is re-validated
// under lock; a rollback leaves the entry PENDING for retry.
func (s *WalletServiceImpl) ApproveWithdrawal(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entry, err := s.txRepo.GetByIDForUpdate(ctx, dbTx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if entry.Type != domain.TransactionTypeWithdrawalRequest || entry.Status != domain.TransactionStatusPending || entry.ProviderID == nil {
		return nil, apperror.ErrInvalidTransaction()
	}

	provider, err := s.providerRepo.GetByIDForUpdate(ctx, dbTx, *entry.ProviderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrNotFound("provider")
	}
	if provider.WalletBalance < entry.Amount {
		return nil, apperror.ErrInsufficientFunds()
	}

	if err := s.providerRepo.UpdateBalance(ctx, dbTx, provider.ID, provider.WalletBalance-entry.Amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update provider balance: %w", err))
	}
	if err := s.txRepo.Resolve(ctx, dbTx, entry.ID, domain.TransactionTypeWithdrawalApproved, domain.TransactionStatusApproved); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("resolve transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	entry.Type = domain.TransactionTypeWithdrawalApproved
	entry.Status = domain.TransactionStatusApproved

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Int64("amount", entry.Amount).
		Msg("withdrawal approved")

	return entry, nil
}

// ApproveTransaction dispatches a PENDING entry to the matching approval by
// its type.
func (s *WalletServiceImpl) ApproveTransaction(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error) {
	entry, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	switch entry.Type {
	case domain.TransactionTypeCashInRequest:
		return s.ApproveCashIn(ctx, transactionID)
	case domain.TransactionTypeWithdrawalRequest:
		return s.ApproveWithdrawal(ctx, transactionID)
	}
	return nil, apperror.ErrInvalidTransaction()
}

// RejectTransaction moves a PENDING entry to REJECTED. No balance is touched.
func (s *WalletServiceImpl) RejectTransaction(ctx context.Context, transactionID uuid.UUID) (*domain.WalletTransaction, error) {
	existing, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if existing == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if existing.IsTerminal() {
		return nil, apperror.ErrInvalidTransaction()
	}

	entry, err := s.txRepo.MarkRejected(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reject transaction: %w", err))
	}
	if entry == nil {
		// Lost a race with another resolution.
		return nil, apperror.ErrInvalidTransaction()
	}
	return entry, nil
}

// ListPendingTransactions returns entries awaiting admin review.
func (s *WalletServiceImpl) ListPendingTransactions(ctx context.Context, limit int) ([]domain.WalletTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	entries, err := s.txRepo.ListPending(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list pending transactions: %w", err))
	}
	return entries, nil
}

// AuditBalance recomputes a cached balance from APPROVED ledger entries and
// reports whether the two agree.
func (s *WalletServiceImpl) AuditBalance(ctx context.Context, owner ports.BalanceOwner) (*ports.BalanceAudit, error) {
	switch {
	case owner.UserID != nil:
		user, err := s.userRepo.GetByID(ctx, *owner.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get user: %w", err))
		}
		if user == nil {
			return nil, apperror.ErrNotFound("user")
		}
		net, err := s.txRepo.NetApprovedForUser(ctx, user.ID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("net approved: %w", err))
		}
		return &ports.BalanceAudit{
			Owner:         owner,
			CachedBalance: user.WalletBalance,
			LedgerBalance: net,
			Consistent:    user.WalletBalance == net,
		}, nil
	case owner.ProviderID != nil:
		provider, err := s.providerRepo.GetByID(ctx, *owner.ProviderID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
		}
		if provider == nil {
			return nil, apperror.ErrNotFound("provider")
		}
		net, err := s.txRepo.NetApprovedForProvider(ctx, provider.ID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("net approved: %w", err))
		}
		return &ports.BalanceAudit{
			Owner:         owner,
			CachedBalance: provider.WalletBalance,
			LedgerBalance: net,
			Consistent:    provider.WalletBalance == net,
		}, nil
	}
	return nil, apperror.Validation("either user_id or provider_id is required")
}

// createEntry appends a single ledger entry in its own transaction.
func (s *WalletServiceImpl) createEntry(ctx context.Context, entry *domain.WalletTransaction) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
