package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's authorization role.
type Role string

const (
	RoleUser     Role = "USER"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleProvider, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// User represents a registered account. WalletBalance is a mutable cache of the
// net effect of all APPROVED ledger entries referencing this user; only the
// wallet ledger writes it.
type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PasswordHash  string    `json:"-"` // Never expose
	Role          Role      `json:"role"`
	WalletBalance int64     `json:"wallet_balance"` // Smallest currency unit
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Principal is the authenticated identity attached to every core operation.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the principal carries an administrative role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin || p.Role == RoleManager
}
