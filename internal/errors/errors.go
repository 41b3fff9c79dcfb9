// Package errors provides the application error taxonomy for the cashbook API.
// Service-layer failures are returned as *AppError so handlers can render a
// stable code and message without leaking internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target carries the same code, so wrapped copies of a
// sentinel still match it with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.StatusCode == http.StatusNotFound
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Identity errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Caller identity is required", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput        = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound            = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConstraintViolation = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "Record violates a data constraint", StatusCode: http.StatusUnprocessableEntity}
	ErrInternalServer      = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Book errors.
var (
	ErrBookNotFound = &AppError{Code: "BOOK_NOT_FOUND", Message: "Book not found", StatusCode: http.StatusNotFound}
	ErrBookInactive = &AppError{Code: "BOOK_INACTIVE", Message: "Book is not active", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing transactions", StatusCode: http.StatusConflict}
	ErrCategoryMismatch = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "Category direction does not match the transaction direction", StatusCode: http.StatusUnprocessableEntity}
	ErrCategoryInactive = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "Category is not active", StatusCode: http.StatusUnprocessableEntity}
)

// Bank account errors.
var (
	ErrBankAccountNotFound = &AppError{Code: "BANK_ACCOUNT_NOT_FOUND", Message: "Bank account not found", StatusCode: http.StatusNotFound}
	ErrBankAccountInUse    = &AppError{Code: "BANK_ACCOUNT_IN_USE", Message: "Bank account is used by existing transactions", StatusCode: http.StatusConflict}

	ErrBankAccountBalanceNotFound = &AppError{Code: "BANK_ACCOUNT_BALANCE_NOT_FOUND", Message: "Bank account balance not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidDirection    = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "Direction must be income or spending", StatusCode: http.StatusUnprocessableEntity}
	ErrNegativeAmount      = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "Amount must not be negative", StatusCode: http.StatusUnprocessableEntity}
	ErrInvalidDate         = &AppError{Code: "CONSTRAINT_VIOLATION", Message: "Date must be a valid calendar date (YYYY-MM-DD)", StatusCode: http.StatusUnprocessableEntity}
)
