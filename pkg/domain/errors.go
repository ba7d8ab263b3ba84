package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
)

// Settlement error taxonomy. Every failure leaving the settlement flow is
// classifiable into exactly one of these kinds.
var (
	// ErrInvalidInput is returned for malformed or missing required fields.
	// It is always detected before any write.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoActiveFund is returned when no fund is currently accepting donations.
	ErrNoActiveFund = errors.New("no active fund")
	// ErrConflict signals a lost race on a unique key. Settlement absorbs it.
	ErrConflict = errors.New("conflict")
	// ErrInternal wraps unexpected storage or logic failures.
	ErrInternal = errors.New("internal error")
)

// Kind is the classification of an error returned by a service.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindNoActiveFund Kind = "no_active_fund"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInternal):
		return KindInternal
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrNoActiveFund):
		return KindNoActiveFund
	case errors.Is(err, ErrConflict), errors.Is(err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
