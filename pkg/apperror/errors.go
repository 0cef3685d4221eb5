package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a generic 400 validation error with a custom message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrInvalidPaymentMethod() *AppError {
	return New("VAL_002", "Payment method must be WALLET or CASH", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_003", "Amount must be greater than zero", http.StatusBadRequest)
}

// ---- Request lifecycle (REQ) ----

// ErrNotFound deliberately covers both "absent" and "not yours" so the API
// does not leak existence of other users' records.
func ErrNotFound(entity string) *AppError {
	return New("REQ_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAlreadyClaimed() *AppError {
	return New("REQ_002", "Request not found or already claimed", http.StatusNotFound)
}

func ErrInvalidTransition(from, to string) *AppError {
	return New("REQ_003", fmt.Sprintf("Cannot move from %s to %s", from, to), http.StatusBadRequest)
}

func ErrPaymentNotReady() *AppError {
	return New("REQ_004", "Payment is not ready for confirmation", http.StatusBadRequest)
}

func ErrAlreadyPaid() *AppError {
	return New("REQ_005", "Payment already confirmed", http.StatusConflict)
}

func ErrNotCompleted() *AppError {
	return New("REQ_006", "Provider has not completed the request yet", http.StatusBadRequest)
}

func ErrMissingPayable() *AppError {
	return New("REQ_007", "Missing payable amount, please contact support", http.StatusBadRequest)
}

// ---- Wallet ledger (WAL) ----

func ErrInsufficientFunds() *AppError {
	return New("WAL_001", "Insufficient wallet balance", http.StatusPaymentRequired)
}

func ErrInvalidTransaction() *AppError {
	return New("WAL_002", "Transaction not found or not pending", http.StatusBadRequest)
}

func ErrNotWalletPayment() *AppError {
	return New("WAL_003", "Request is not a wallet payment", http.StatusBadRequest)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailOrPhoneExists() *AppError {
	return New("AUTH_002", "Email or phone already registered", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_004", "Forbidden", http.StatusForbidden)
}

func ErrProviderProfileMissing() *AppError {
	return New("AUTH_005", "Provider profile missing", http.StatusBadRequest)
}

// ---- Conflicts (CON) ----

func ErrAlreadyRated() *AppError {
	return New("CON_001", "You already rated this request", http.StatusConflict)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}
