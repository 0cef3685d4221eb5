package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name string
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{"accepted to in progress", RequestStatusAccepted, RequestStatusInProgress, true},
		{"accepted straight to completed", RequestStatusAccepted, RequestStatusCompleted, true},
		{"in progress to completed", RequestStatusInProgress, RequestStatusCompleted, true},
		{"in progress back to accepted", RequestStatusInProgress, RequestStatusAccepted, false},
		{"pending to in progress", RequestStatusPending, RequestStatusInProgress, false},
		{"completed to in progress", RequestStatusCompleted, RequestStatusInProgress, false},
		{"canceled to completed", RequestStatusCanceled, RequestStatusCompleted, false},
		{"accepted to canceled", RequestStatusAccepted, RequestStatusCanceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAdvance(tt.from, tt.to))
		})
	}
}

func TestServiceRequest_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status RequestStatus
		want   bool
	}{
		{"pending", RequestStatusPending, false},
		{"accepted", RequestStatusAccepted, false},
		{"in progress", RequestStatusInProgress, false},
		{"rejected", RequestStatusRejected, true},
		{"completed", RequestStatusCompleted, true},
		{"canceled", RequestStatusCanceled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := &ServiceRequest{Status: tt.status}
			assert.Equal(t, tt.want, sr.IsTerminal())
		})
	}
}

func TestServiceRequest_Cancellable(t *testing.T) {
	tests := []struct {
		name   string
		status RequestStatus
		want   bool
	}{
		{"pending", RequestStatusPending, true},
		{"accepted", RequestStatusAccepted, true},
		{"in progress", RequestStatusInProgress, false},
		{"completed", RequestStatusCompleted, false},
		{"canceled", RequestStatusCanceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := &ServiceRequest{Status: tt.status}
			assert.Equal(t, tt.want, sr.Cancellable())
		})
	}
}

func TestServiceRequest_Payable(t *testing.T) {
	final := int64(90)

	sr := &ServiceRequest{Price: 150}
	assert.Equal(t, int64(150), sr.Payable())

	sr.FinalAmount = &final
	assert.Equal(t, int64(90), sr.Payable())
}

func TestServiceRequest_AssignedTo(t *testing.T) {
	providerID := uuid.New()

	sr := &ServiceRequest{}
	assert.False(t, sr.AssignedTo(providerID))

	sr.ProviderID = &providerID
	assert.True(t, sr.AssignedTo(providerID))
	assert.False(t, sr.AssignedTo(uuid.New()))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodWallet))
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.False(t, ValidPaymentMethod(PaymentMethod("CARD")))
	assert.False(t, ValidPaymentMethod(PaymentMethod("")))
}

func TestWalletTransaction_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status TransactionStatus
		want   bool
	}{
		{"pending", TransactionStatusPending, false},
		{"approved", TransactionStatusApproved, true},
		{"rejected", TransactionStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &WalletTransaction{Status: tt.status}
			assert.Equal(t, tt.want, tx.IsTerminal())
		})
	}
}

func TestWalletTransaction_UserEffect(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		tx     WalletTransaction
		effect int64
	}{
		{"approved top-up credits", WalletTransaction{UserID: &userID, Type: TransactionTypeAdminTopUp, Amount: 500, Status: TransactionStatusApproved}, 500},
		{"approved cash-in credits", WalletTransaction{UserID: &userID, Type: TransactionTypeCashInApproved, Amount: 300, Status: TransactionStatusApproved}, 300},
		{"hold release credits", WalletTransaction{UserID: &userID, Type: TransactionTypePaymentHoldRelease, Amount: 30, Status: TransactionStatusApproved}, 30},
		{"hold debits", WalletTransaction{UserID: &userID, Type: TransactionTypePaymentHold, Amount: 150, Status: TransactionStatusApproved}, -150},
		{"payment debits", WalletTransaction{UserID: &userID, Type: TransactionTypePayment, Amount: 20, Status: TransactionStatusApproved}, -20},
		{"pending entry has no effect", WalletTransaction{UserID: &userID, Type: TransactionTypeCashInRequest, Amount: 300, Status: TransactionStatusPending}, 0},
		{"rejected entry has no effect", WalletTransaction{UserID: &userID, Type: TransactionTypeCashInRequest, Amount: 300, Status: TransactionStatusRejected}, 0},
		{"provider-only entry has no user effect", WalletTransaction{Type: TransactionTypeProviderEarning, Amount: 120, Status: TransactionStatusApproved}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.effect, tt.tx.UserEffect())
		})
	}
}

func TestWalletTransaction_ProviderEffect(t *testing.T) {
	providerID := uuid.New()

	tests := []struct {
		name   string
		tx     WalletTransaction
		effect int64
	}{
		{"earning credits", WalletTransaction{ProviderID: &providerID, Type: TransactionTypeProviderEarning, Amount: 120, Status: TransactionStatusApproved}, 120},
		{"adjustment credits", WalletTransaction{ProviderID: &providerID, Type: TransactionTypeAdminAdjustment, Amount: 400, Status: TransactionStatusApproved}, 400},
		{"approved withdrawal debits", WalletTransaction{ProviderID: &providerID, Type: TransactionTypeWithdrawalApproved, Amount: 250, Status: TransactionStatusApproved}, -250},
		{"pending withdrawal has no effect", WalletTransaction{ProviderID: &providerID, Type: TransactionTypeWithdrawalRequest, Amount: 250, Status: TransactionStatusPending}, 0},
		{"user-only entry has no provider effect", WalletTransaction{Type: TransactionTypeAdminTopUp, Amount: 500, Status: TransactionStatusApproved}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.effect, tt.tx.ProviderEffect())
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleProvider))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleManager))
	assert.False(t, ValidRole(Role("ROOT")))
}

func TestPrincipal_IsAdmin(t *testing.T) {
	assert.True(t, Principal{Role: RoleAdmin}.IsAdmin())
	assert.True(t, Principal{Role: RoleManager}.IsAdmin())
	assert.False(t, Principal{Role: RoleUser}.IsAdmin())
	assert.False(t, Principal{Role: RoleProvider}.IsAdmin())
}

func TestServiceProvider_HasCoordinates(t *testing.T) {
	lat, lng := 10.7769, 106.7009

	p := &ServiceProvider{}
	assert.False(t, p.HasCoordinates())

	p.Latitude = &lat
	assert.False(t, p.HasCoordinates())

	p.Longitude = &lng
	assert.True(t, p.HasCoordinates())
}
