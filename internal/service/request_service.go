package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"home-services-backend/internal/core/domain"
	"home-services-backend/internal/core/ports"
	"home-services-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestServiceImpl implements ports.RequestService. Lifecycle transitions
// that move money delegate to the wallet service; transitions that only change
// state run here under row locks or conditional updates.
type RequestServiceImpl struct {
	requestRepo  ports.RequestRepository
	userRepo     ports.UserRepository
	providerRepo ports.ProviderRepository
	categoryRepo ports.CategoryRepository
	locationRepo ports.LocationRepository
	txRepo       ports.WalletTransactionRepository
	ratingRepo   ports.RatingRepository
	walletSvc    ports.WalletService
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewRequestService creates a new RequestServiceImpl.
func NewRequestService(
	requestRepo ports.RequestRepository,
	userRepo ports.UserRepository,
	providerRepo ports.ProviderRepository,
	categoryRepo ports.CategoryRepository,
	locationRepo ports.LocationRepository,
	txRepo ports.WalletTransactionRepository,
	ratingRepo ports.RatingRepository,
	walletSvc ports.WalletService,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *RequestServiceImpl {
	return &RequestServiceImpl{
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		providerRepo: providerRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		txRepo:       txRepo,
		ratingRepo:   ratingRepo,
		walletSvc:    walletSvc,
		transactor:   transactor,
		log:          log,
	}
}

// Create opens a new PENDING request. For wallet payments the hold debit, its
// ledger entry, and the request row land in one database transaction, so a
// request with a hold always has the matching PAYMENT_HOLD entry.
func (s *RequestServiceImpl) Create(ctx context.Context, principal domain.Principal, in ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return nil, apperror.ErrInvalidPaymentMethod()
	}

	category, err := s.categoryRepo.GetActiveByID(ctx, in.ServiceCategoryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get category: %w", err))
	}
	if category == nil {
		return nil, apperror.ErrNotFound("service category")
	}

	location, err := s.locationRepo.GetByIDAndUser(ctx, in.UserLocationID, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get location: %w", err))
	}
	if location == nil {
		return nil, apperror.ErrNotFound("location")
	}

	now := time.Now().UTC()
	requestedAt := in.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = now
	}

	sr := &domain.ServiceRequest{
		ID:                 uuid.New(),
		UserID:             principal.UserID,
		ServiceCategoryID:  category.ID,
		UserLocationID:     location.ID,
		ProblemDescription: in.Description,
		RequestedAt:        requestedAt,
		PhotoURL:           in.PhotoURL,
		Status:             domain.RequestStatusPending,
		Price:              category.BasePrice,
		PaymentMethod:      in.PaymentMethod,
		PaymentStatus:      domain.PaymentStatusUnpaid,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if in.PaymentMethod == domain.PaymentMethodWallet {
		user, err := s.userRepo.GetByIDForUpdate(ctx, dbTx, principal.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("lock user: %w", err))
		}
		if user == nil {
			return nil, apperror.ErrNotFound("user")
		}
		if user.WalletBalance < sr.Price {
			return nil, apperror.ErrInsufficientFunds()
		}

		sr.PaymentStatus = domain.PaymentStatusHold
		sr.WalletHoldAmount = sr.Price

		if err := s.requestRepo.Create(ctx, dbTx, sr); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create request: %w", err))
		}
		if err := s.userRepo.UpdateBalance(ctx, dbTx, user.ID, user.WalletBalance-sr.Price); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update user balance: %w", err))
		}
		entry := &domain.WalletTransaction{
			ID:               uuid.New(),
			UserID:           &user.ID,
			Type:             domain.TransactionTypePaymentHold,
			Amount:           sr.Price,
			Status:           domain.TransactionStatusApproved,
			RelatedRequestID: &sr.ID,
			CreatedAt:        now,
		}
		if err := s.txRepo.Create(ctx, dbTx, entry); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create hold entry: %w", err))
		}
	} else {
		if err := s.requestRepo.Create(ctx, dbTx, sr); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create request: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("request_id", sr.ID.String()).
		Str("payment_method", string(sr.PaymentMethod)).
		Int64("price", sr.Price).
		Msg("service request created")

	return sr, nil
}

// GetByID returns a request visible to the principal: its requester, its
// assigned provider, or an admin. Anyone else gets a 404.
func (s *RequestServiceImpl) GetByID(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error) {
	sr, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get request: %w", err))
	}
	if sr == nil {
		return nil, apperror.ErrNotFound("service request")
	}
	if sr.UserID == principal.UserID || principal.IsAdmin() {
		return sr, nil
	}
	if sr.ProviderID != nil {
		provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
		}
		if provider != nil && sr.AssignedTo(provider.ID) {
			return sr, nil
		}
	}
	return nil, apperror.ErrNotFound("service request")
}

// Accept claims a PENDING request for the acting provider. The conditional
// update in the repository guarantees exactly one winner under concurrency.
func (s *RequestServiceImpl) Accept(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}

	sr, err := s.requestRepo.Claim(ctx, id, provider.ServiceCategoryID, provider.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("claim request: %w", err))
	}
	if sr == nil {
		return nil, apperror.ErrAlreadyClaimed()
	}

	s.log.Info().
		Str("request_id", sr.ID.String()).
		Str("provider_id", provider.ID.String()).
		Msg("request accepted")

	return sr, nil
}

// Reject declines a request. A PENDING request can be rejected by any provider
// in its category; an ACCEPTED one only by its assigned provider. Any wallet
// hold is released in the same transaction as the status flip, so the refund
// and the rejection commit or fail together.
func (s *RequestServiceImpl) Reject(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sr, err := s.requestRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock request: %w", err))
	}
	if sr == nil {
		return nil, apperror.ErrNotFound("service request")
	}

	switch {
	case sr.Status == domain.RequestStatusPending && sr.ServiceCategoryID == provider.ServiceCategoryID:
		// Record who turned it down; the provider link survives the rejection.
		sr.ProviderID = &provider.ID
	case sr.AssignedTo(provider.ID) && sr.Status == domain.RequestStatusAccepted:
		// Assigned provider backing out.
	case sr.AssignedTo(provider.ID):
		return nil, apperror.ErrInvalidTransition(string(sr.Status), string(domain.RequestStatusRejected))
	default:
		return nil, apperror.ErrNotFound("service request")
	}

	sr.Status = domain.RequestStatusRejected
	if err := s.walletSvc.ReleaseHold(ctx, dbTx, sr); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, dbTx, sr); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update request: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("request_id", sr.ID.String()).
		Str("provider_id", provider.ID.String()).
		Msg("request rejected")

	return sr, nil
}

// Cancel is the requester withdrawing a PENDING or ACCEPTED request. The
// status flip is a single conditional update; the hold release runs in the
// same transaction, so a failed refund rolls the cancellation back.
func (s *RequestServiceImpl) Cancel(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sr, err := s.requestRepo.CancelByRequester(ctx, dbTx, id, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("cancel request: %w", err))
	}
	if sr == nil {
		existing, err := s.requestRepo.GetByIDAndRequester(ctx, id, principal.UserID)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("get request: %w", err))
		}
		if existing == nil {
			return nil, apperror.ErrNotFound("service request")
		}
		return nil, apperror.ErrInvalidTransition(string(existing.Status), string(domain.RequestStatusCanceled))
	}

	if err := s.walletSvc.ReleaseHold(ctx, dbTx, sr); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, dbTx, sr); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update request: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("request_id", sr.ID.String()).Msg("request canceled")
	return sr, nil
}

// Advance moves an assigned request along the provider transition table.
// Completion requires the settled amount, which becomes both price and final
// amount; an unpaid completed request parks at PENDING_USER_CONFIRMATION
// awaiting the requester.
func (s *RequestServiceImpl) Advance(ctx context.Context, principal domain.Principal, id uuid.UUID, to domain.RequestStatus, finalAmount *int64) (*domain.ServiceRequest, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}
	if to == domain.RequestStatusCompleted {
		if finalAmount == nil {
			return nil, apperror.ErrMissingPayable()
		}
		if *finalAmount <= 0 {
			return nil, apperror.ErrInvalidAmount()
		}
	} else if finalAmount != nil {
		return nil, apperror.Validation("Amount only applies when completing a request")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sr, err := s.requestRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock request: %w", err))
	}
	if sr == nil || !sr.AssignedTo(provider.ID) {
		return nil, apperror.ErrNotFound("service request")
	}
	if !domain.CanAdvance(sr.Status, to) {
		return nil, apperror.ErrInvalidTransition(string(sr.Status), string(to))
	}

	sr.Status = to
	if to == domain.RequestStatusCompleted {
		sr.Price = *finalAmount
		sr.FinalAmount = finalAmount
		if sr.PaymentStatus != domain.PaymentStatusPaid {
			sr.PaymentStatus = domain.PaymentStatusPendingUserConfirmation
		}
		if err := s.providerRepo.IncrementCompletedJobs(ctx, dbTx, provider.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("increment completed jobs: %w", err))
		}
	}

	if err := s.requestRepo.Update(ctx, dbTx, sr); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update request: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("request_id", sr.ID.String()).
		Str("status", string(to)).
		Msg("request advanced")

	return sr, nil
}

// AcceptPayment is the requester settling a completed request. Cash requests
// are marked PAID directly; wallet requests settle in the wallet service under
// locks.
func (s *RequestServiceImpl) AcceptPayment(ctx context.Context, principal domain.Principal, id uuid.UUID) (*ports.PaymentResult, error) {
	sr, err := s.requestRepo.GetByIDAndRequester(ctx, id, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get request: %w", err))
	}
	if sr == nil {
		return nil, apperror.ErrNotFound("service request")
	}
	if sr.Status != domain.RequestStatusCompleted {
		return nil, apperror.ErrNotCompleted()
	}
	if sr.PaymentStatus == domain.PaymentStatusPaid {
		return nil, apperror.ErrAlreadyPaid()
	}
	if sr.PaymentStatus != domain.PaymentStatusPendingUserConfirmation && sr.PaymentStatus != domain.PaymentStatusHold {
		return nil, apperror.ErrPaymentNotReady()
	}
	if sr.Payable() <= 0 {
		return nil, apperror.ErrMissingPayable()
	}

	if sr.PaymentMethod == domain.PaymentMethodWallet {
		return s.walletSvc.PayWithWallet(ctx, sr.ID, principal.UserID)
	}

	sr, err = s.markCashPaid(ctx, principal.UserID, id)
	if err != nil {
		return nil, err
	}
	return &ports.PaymentResult{Request: sr, PaidAmount: sr.Payable()}, nil
}

// ConfirmCashPayment is the requester acknowledging they handed the provider
// cash on a completed request.
func (s *RequestServiceImpl) ConfirmCashPayment(ctx context.Context, principal domain.Principal, id uuid.UUID) (*domain.ServiceRequest, error) {
	return s.markCashPaid(ctx, principal.UserID, id)
}

// markCashPaid flips a completed cash request to PAID under a row lock.
func (s *RequestServiceImpl) markCashPaid(ctx context.Context, requesterID, id uuid.UUID) (*domain.ServiceRequest, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	sr, err := s.requestRepo.GetByIDForUpdate(ctx, dbTx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock request: %w", err))
	}
	if sr == nil || sr.UserID != requesterID {
		return nil, apperror.ErrNotFound("service request")
	}
	if sr.PaymentMethod != domain.PaymentMethodCash {
		return nil, apperror.Validation("Request is not a cash payment")
	}
	if sr.Status != domain.RequestStatusCompleted {
		return nil, apperror.ErrNotCompleted()
	}
	if sr.PaymentStatus == domain.PaymentStatusPaid {
		return nil, apperror.ErrAlreadyPaid()
	}
	if sr.PaymentStatus != domain.PaymentStatusPendingUserConfirmation {
		return nil, apperror.ErrPaymentNotReady()
	}
	if sr.Payable() <= 0 {
		return nil, apperror.ErrMissingPayable()
	}

	sr.PaymentStatus = domain.PaymentStatusPaid
	if err := s.requestRepo.Update(ctx, dbTx, sr); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update request: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("request_id", sr.ID.String()).Msg("cash payment confirmed")
	return sr, nil
}

// ListMine returns the requester's requests, each flagged with whether they
// already rated it.
func (s *RequestServiceImpl) ListMine(ctx context.Context, principal domain.Principal) ([]ports.RequestWithRating, error) {
	requests, err := s.requestRepo.ListByRequester(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list requests: %w", err))
	}

	var completedIDs []uuid.UUID
	for _, sr := range requests {
		if sr.Status == domain.RequestStatusCompleted {
			completedIDs = append(completedIDs, sr.ID)
		}
	}
	rated, err := s.ratingRepo.RatedRequestIDs(ctx, principal.UserID, completedIDs)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("rated request ids: %w", err))
	}

	out := make([]ports.RequestWithRating, 0, len(requests))
	for _, sr := range requests {
		out = append(out, ports.RequestWithRating{ServiceRequest: sr, Rated: rated[sr.ID]})
	}
	return out, nil
}

// ListPendingApprovals returns the requester's completed requests awaiting
// their payment confirmation.
func (s *RequestServiceImpl) ListPendingApprovals(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error) {
	requests, err := s.requestRepo.ListPendingApprovals(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list pending approvals: %w", err))
	}
	return requests, nil
}

// ListOpen returns unclaimed PENDING requests in the provider's category.
func (s *RequestServiceImpl) ListOpen(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}
	requests, err := s.requestRepo.ListOpenByCategory(ctx, provider.ServiceCategoryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list open requests: %w", err))
	}
	return requests, nil
}

// ListNearby returns the provider's work feed: their own active jobs first,
// then unclaimed PENDING requests in their category, each group ordered by
// distance from the provider's registered coordinates. Requests whose
// location lacks a distance sort last within their group.
func (s *RequestServiceImpl) ListNearby(ctx context.Context, principal domain.Principal) ([]ports.NearbyRequest, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}

	active, err := s.requestRepo.ListActiveByProvider(ctx, provider.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list active requests: %w", err))
	}
	open, err := s.requestRepo.ListOpenByCategory(ctx, provider.ServiceCategoryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list open requests: %w", err))
	}

	locationIDs := make([]uuid.UUID, 0, len(active)+len(open))
	for _, sr := range active {
		locationIDs = append(locationIDs, sr.UserLocationID)
	}
	for _, sr := range open {
		locationIDs = append(locationIDs, sr.UserLocationID)
	}
	locations, err := s.locationRepo.GetByIDs(ctx, locationIDs)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get locations: %w", err))
	}

	decorate := func(requests []domain.ServiceRequest) []ports.NearbyRequest {
		out := make([]ports.NearbyRequest, 0, len(requests))
		for _, sr := range requests {
			nr := ports.NearbyRequest{ServiceRequest: sr}
			if loc, ok := locations[sr.UserLocationID]; ok && provider.HasCoordinates() {
				d := domain.HaversineKm(*provider.Latitude, *provider.Longitude, loc.Latitude, loc.Longitude)
				nr.DistanceKm = &d
			}
			out = append(out, nr)
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].DistanceKm == nil || out[j].DistanceKm == nil {
				return out[j].DistanceKm == nil && out[i].DistanceKm != nil
			}
			return *out[i].DistanceKm < *out[j].DistanceKm
		})
		return out
	}

	return append(decorate(active), decorate(open)...), nil
}

// ListActive returns the provider's ACCEPTED and IN_PROGRESS requests.
func (s *RequestServiceImpl) ListActive(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}
	requests, err := s.requestRepo.ListActiveByProvider(ctx, provider.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list active requests: %w", err))
	}
	return requests, nil
}

// ListCompleted returns the provider's completed requests.
func (s *RequestServiceImpl) ListCompleted(ctx context.Context, principal domain.Principal) ([]domain.ServiceRequest, error) {
	provider, err := s.providerRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get provider: %w", err))
	}
	if provider == nil {
		return nil, apperror.ErrProviderProfileMissing()
	}
	requests, err := s.requestRepo.ListCompletedByProvider(ctx, provider.ID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list completed requests: %w", err))
	}
	return requests, nil
}
