package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that does not allow the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrUnauthorized indicates a missing or invalid caller identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrDispatch indicates the messaging gateway rejected or failed a send.
var ErrDispatch = errors.New("message dispatch failed")

// ErrStorage indicates the persistence layer failed.
var ErrStorage = errors.New("storage failure")

// ErrInternal is returned for unexpected failures.
var ErrInternal = errors.New("internal error")

// Ledger specific errors. Each wraps one of the classes above so callers can
// branch on either the precise error or its class.
var (
	ErrInvalidAmount        = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrReasonRequired       = fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	ErrInvoiceNotFound      = fmt.Errorf("%w: invoice not found", ErrNotFound)
	ErrFeeStructureNotFound = fmt.Errorf("%w: fee structure not found", ErrNotFound)
	ErrLearnerNotFound      = fmt.Errorf("%w: learner not found", ErrNotFound)
	ErrInvoiceCancelled     = fmt.Errorf("%w: invoice is cancelled", ErrConflict)
	ErrAlreadyCancelled     = fmt.Errorf("%w: invoice is already cancelled", ErrConflict)
)

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match any 5xx AppError.
func (e *AppError) Is(target error) bool {
	return target == ErrStorage && e.Code >= 500
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// BatchError records a per-learner failure that did not abort a batch.
type BatchError struct {
	LearnerID string `json:"learnerId"`
	Reason    string `json:"reason"`
}
