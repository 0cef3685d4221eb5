package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a ledger entry. Amount is always a positive
// magnitude; direction is implied by the type.
type TransactionType string

const (
	TransactionTypeAdminTopUp         TransactionType = "ADMIN_TOP_UP"
	TransactionTypePayment            TransactionType = "PAYMENT"
	TransactionTypePaymentHold        TransactionType = "PAYMENT_HOLD"
	TransactionTypePaymentHoldRelease TransactionType = "PAYMENT_HOLD_RELEASE"
	TransactionTypeCashInRequest      TransactionType = "CASH_IN_REQUEST"
	TransactionTypeCashInApproved     TransactionType = "CASH_IN_APPROVED"
	TransactionTypeProviderEarning    TransactionType = "PROVIDER_EARNING"
	TransactionTypeWithdrawalRequest  TransactionType = "WITHDRAWAL_REQUEST"
	TransactionTypeWithdrawalApproved TransactionType = "WITHDRAWAL_APPROVED"
	TransactionTypeAdminAdjustment    TransactionType = "ADMIN_ADJUSTMENT"
)

// TransactionStatus is the lifecycle state of a ledger entry. APPROVED and
// REJECTED are terminal; the only permitted rewrites are the two request-style
// upgrades (CASH_IN_REQUEST -> CASH_IN_APPROVED, WITHDRAWAL_REQUEST ->
// WITHDRAWAL_APPROVED) which change type and status atomically together.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "PENDING"
	TransactionStatusApproved TransactionStatus = "APPROVED"
	TransactionStatusRejected TransactionStatus = "REJECTED"
)

// WalletTransaction is an append-only ledger entry. Entries are never edited:
// there is no update timestamp, only the permitted status/type resolutions.
type WalletTransaction struct {
	ID               uuid.UUID         `json:"id"`
	UserID           *uuid.UUID        `json:"user_id,omitempty"`
	ProviderID       *uuid.UUID        `json:"provider_id,omitempty"`
	Type             TransactionType   `json:"type"`
	Amount           int64             `json:"amount"` // Positive magnitude
	Status           TransactionStatus `json:"status"`
	RelatedRequestID *uuid.UUID        `json:"related_request_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

// IsTerminal reports whether the entry can no longer transition.
func (t *WalletTransaction) IsTerminal() bool {
	return t.Status == TransactionStatusApproved || t.Status == TransactionStatusRejected
}

// UserEffect returns the signed balance effect of this entry on its user, or 0
// if the entry does not touch a user balance (only APPROVED entries count).
func (t *WalletTransaction) UserEffect() int64 {
	if t.UserID == nil || t.Status != TransactionStatusApproved {
		return 0
	}
	switch t.Type {
	case TransactionTypeAdminTopUp, TransactionTypePaymentHoldRelease, TransactionTypeCashInApproved:
		return t.Amount
	case TransactionTypePaymentHold, TransactionTypePayment:
		return -t.Amount
	}
	return 0
}

// ProviderEffect returns the signed balance effect on the provider.
func (t *WalletTransaction) ProviderEffect() int64 {
	if t.ProviderID == nil || t.Status != TransactionStatusApproved {
		return 0
	}
	switch t.Type {
	case TransactionTypeProviderEarning, TransactionTypeAdminAdjustment:
		return t.Amount
	case TransactionTypeWithdrawalApproved:
		return -t.Amount
	}
	return 0
}
