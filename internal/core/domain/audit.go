package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister        AuditAction = "REGISTER"
	AuditActionLogin           AuditAction = "LOGIN"
	AuditActionTopUp           AuditAction = "TOP_UP"
	AuditActionAdjustment      AuditAction = "ADJUSTMENT"
	AuditActionApproveCashIn   AuditAction = "APPROVE_CASH_IN"
	AuditActionApproveWithdraw AuditAction = "APPROVE_WITHDRAW"
	AuditActionRejectTx        AuditAction = "REJECT_TRANSACTION"
	AuditActionPayment         AuditAction = "PAYMENT"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	ActorID      *uuid.UUID  `json:"actor_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
