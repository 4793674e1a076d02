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

// ErrTransport indicates that a call to an external system (rate provider,
// messaging API) failed, timed out or returned an unusable response.
var ErrTransport = errors.New("transport error")

// ErrPersistence indicates that a store read or write failed.
var ErrPersistence = errors.New("persistence error")

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// NewPersistenceError wraps ErrPersistence and the underlying store error.
func NewPersistenceError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, msg, err)
}

// NewTransportError wraps ErrTransport and the underlying client error.
func NewTransportError(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrTransport, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransport, msg, err)
}

// FetchErrorKind classifies why a rate fetch did not produce a stored observation.
type FetchErrorKind string

const (
	FetchTransport FetchErrorKind = "transport"
	FetchNotFound  FetchErrorKind = "not_found"
	FetchPersist   FetchErrorKind = "persist"
)

// FetchError is returned by the rate fetcher. It matches the sentinel of its
// kind with errors.Is, so callers can branch on ErrTransport, ErrNotFound or
// ErrPersistence without inspecting the concrete type.
type FetchError struct {
	Kind FetchErrorKind
	Pair string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.Pair, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Pair, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	switch e.Kind {
	case FetchTransport:
		return target == ErrTransport
	case FetchNotFound:
		return target == ErrNotFound
	case FetchPersist:
		return target == ErrPersistence
	}
	return false
}
