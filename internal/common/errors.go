package common

import (
	"errors"
	"fmt"

	"orderdesk/internal/money"
)

// ErrorKind classifies a failure for callers and the transport layer.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION_ERROR"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindOverpayment       ErrorKind = "OVERPAYMENT"
	KindConflictOnDelete  ErrorKind = "CONFLICT_ON_DELETE"
	KindInternal          ErrorKind = "INTERNAL"
)

// ErrStore marks a failure of the underlying store or its transaction mechanism.
var ErrStore = errors.New("store failure")

// AppError is a business failure returned as a value.
type AppError struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewValidationError reports malformed input on a named field.
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s: %s", field, message),
		Details: map[string]string{field: message},
	}
}

// NewNotFoundError reports a missing or soft-deleted record.
func NewNotFoundError(resource string, id fmt.Stringer) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

// NewConflictOnDeleteError reports a deletion blocked by a business rule.
func NewConflictOnDeleteError(message string) *AppError {
	return &AppError{Kind: KindConflictOnDelete, Message: message}
}

// InvalidTransitionError is returned when the status machine rejects a move.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// OverpaymentError is returned when a payment would exceed the order total.
type OverpaymentError struct {
	MaxAllowed money.Money
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment exceeds order total; maximum acceptable amount is %s", e.MaxAllowed)
}

// StoreError wraps an infrastructure failure so it is distinguishable from business errors.
func StoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, ErrStore, err)
}

// KindOf classifies any error returned by the core.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var transition *InvalidTransitionError
	if errors.As(err, &transition) {
		return KindInvalidTransition
	}
	var overpayment *OverpaymentError
	if errors.As(err, &overpayment) {
		return KindOverpayment
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
