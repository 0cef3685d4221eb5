package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "PENDING"
	RequestStatusAccepted   RequestStatus = "ACCEPTED"
	RequestStatusRejected   RequestStatus = "REJECTED"
	RequestStatusInProgress RequestStatus = "IN_PROGRESS"
	RequestStatusCompleted  RequestStatus = "COMPLETED"
	RequestStatusCanceled   RequestStatus = "CANCELED"
)

// PaymentMethod is fixed at creation and never changes.
type PaymentMethod string

const (
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodCash   PaymentMethod = "CASH"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodWallet || m == PaymentMethodCash
}

// PaymentStatus tracks settlement orthogonally to RequestStatus.
type PaymentStatus string

const (
	PaymentStatusUnpaid                  PaymentStatus = "UNPAID"
	PaymentStatusHold                    PaymentStatus = "HOLD"
	PaymentStatusPendingUserConfirmation PaymentStatus = "PENDING_USER_CONFIRMATION"
	PaymentStatusPaid                    PaymentStatus = "PAID"
)

// providerTransitions is the provider-driven part of the state table.
// PENDING claims go through the atomic accept path instead.
var providerTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusAccepted:   {RequestStatusInProgress, RequestStatusCompleted},
	RequestStatusInProgress: {RequestStatusCompleted},
}

// CanAdvance reports whether a provider may move a request from one status to
// another.
func CanAdvance(from, to RequestStatus) bool {
	for _, next := range providerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ServiceRequest is the central entity of the marketplace: created PENDING by a
// requester, mutated by provider and requester actions, never physically deleted.
type ServiceRequest struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"user_id"`
	ProviderID         *uuid.UUID    `json:"provider_id,omitempty"` // Never cleared once set, even after REJECTED
	ServiceCategoryID  uuid.UUID     `json:"service_category_id"`
	UserLocationID     uuid.UUID     `json:"user_location_id"`
	ProblemDescription string        `json:"problem_description"`
	RequestedAt        time.Time     `json:"requested_at"`
	PhotoURL           *string       `json:"photo_url,omitempty"`
	Status             RequestStatus `json:"status"`
	Price              int64         `json:"price"`                  // Category base price; replaced by the settled amount on completion
	FinalAmount        *int64        `json:"final_amount,omitempty"` // Set on completion
	PaymentMethod      PaymentMethod `json:"payment_method"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	WalletHoldAmount   int64         `json:"wallet_hold_amount"` // >0 only while PaymentStatus == HOLD
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// IsTerminal reports whether no further status transition is permitted.
func (r *ServiceRequest) IsTerminal() bool {
	return r.Status == RequestStatusRejected ||
		r.Status == RequestStatusCanceled ||
		r.Status == RequestStatusCompleted
}

// Cancellable reports whether the requester may still cancel.
func (r *ServiceRequest) Cancellable() bool {
	return r.Status == RequestStatusPending || r.Status == RequestStatusAccepted
}

// Payable returns the amount owed on completion: finalAmount when set,
// otherwise the creation-time price.
func (r *ServiceRequest) Payable() int64 {
	if r.FinalAmount != nil {
		return *r.FinalAmount
	}
	return r.Price
}

// AssignedTo reports whether the request is assigned to the given provider.
func (r *ServiceRequest) AssignedTo(providerID uuid.UUID) bool {
	return r.ProviderID != nil && *r.ProviderID == providerID
}
