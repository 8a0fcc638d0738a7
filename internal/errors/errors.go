// Package errors provides the application error type used across the
// Tallybook API. Service-layer errors are AppErrors so handlers can emit
// consistent responses without leaking internals to clients.
package errors

import "net/http"

// AppError is a structured application error: a stable machine code, a
// client-safe message, the HTTP status to respond with, and an optional
// wrapped internal cause that never reaches the client.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the internal cause to errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying internal as its cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a more specific message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User & family errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
	ErrFamilyNotFound = &AppError{Code: "FAMILY_NOT_FOUND", Message: "Family not found", StatusCode: http.StatusNotFound}
	ErrMemberNotFound = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Family member not found", StatusCode: http.StatusNotFound}
	ErrNotCustodial   = &AppError{Code: "NOT_CUSTODIAL", Message: "Family member is not custodial", StatusCode: http.StatusBadRequest}
)

// Book & category errors.
var (
	ErrBookNotFound     = &AppError{Code: "BOOK_NOT_FOUND", Message: "Book not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Budget engine errors.
var (
	// ErrNoBudgetTemplate: continuation cannot synthesize periods without
	// a prior one; the owner must create an initial budget explicitly.
	ErrNoBudgetTemplate = &AppError{Code: "NO_BUDGET_TEMPLATE", Message: "No budget is configured for this owner and scope", StatusCode: http.StatusNotFound}
	// ErrSpendAggregation: the transaction store failed to answer a sum
	// query; settlement aborts rather than freeze an unknown figure.
	ErrSpendAggregation = &AppError{Code: "SPEND_AGGREGATION_UNAVAILABLE", Message: "Spend totals are temporarily unavailable, retry later", StatusCode: http.StatusServiceUnavailable}
	ErrPeriodNotFound   = &AppError{Code: "BUDGET_PERIOD_NOT_FOUND", Message: "Budget period not found", StatusCode: http.StatusNotFound}
	ErrDuplicateBudget  = &AppError{Code: "DUPLICATE_BUDGET", Message: "A budget already exists for this owner, scope, and period", StatusCode: http.StatusConflict}
	// ErrHistoryImmutable: settled history is append-only; repairs go
	// through compensating entries, never in-place edits.
	ErrHistoryImmutable = &AppError{Code: "HISTORY_IMMUTABLE", Message: "Settlement history cannot be modified, file a correction instead", StatusCode: http.StatusConflict}
	ErrHistoryNotFound  = &AppError{Code: "HISTORY_NOT_FOUND", Message: "Settlement history entry not found", StatusCode: http.StatusNotFound}
)
