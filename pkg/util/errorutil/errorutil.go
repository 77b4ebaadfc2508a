package errorutil

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Kind classifies a domain error. The HTTP boundary maps kinds to status
// codes without inspecting messages.
type Kind string

const (
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInvalidInput Kind = "INVALID_INPUT"

	// Boundary-only kinds: never produced by domain guards.
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New constructs a DomainError with an explicit kind and code.
func New(kind Kind, code, message string, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message, Details: details}
}

// NewForbidden signals that the caller's scopes do not cover the target.
func NewForbidden(message string, details map[string]any) error {
	return New(KindForbidden, "FORBIDDEN", message, details)
}

// NewNotFound signals a missing resource.
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return New(KindNotFound, "NOT_FOUND", fmt.Sprintf("%s not found", resource), details)
}

// NewConflict signals a uniqueness or versioning violation.
func NewConflict(message string, details map[string]any) error {
	return New(KindConflict, "CONFLICT", message, details)
}

// NewInvalidInput signals an integrity-guard failure or malformed payload.
func NewInvalidInput(message string, details map[string]any) error {
	return New(KindInvalidInput, "VALIDATION_FAILED", message, details)
}

// NewUnauthorized signals missing or invalid credentials.
func NewUnauthorized(message string) error {
	return New(KindUnauthorized, "UNAUTHORIZED", message, nil)
}

// NewInternal wraps an unclassified error without exposing its text.
func NewInternal(err error) error {
	return &DomainError{
		Kind:    KindInternal,
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError. pgx's no-rows
// sentinel becomes NotFound; everything unrecognized becomes Internal with
// the original error preserved for logging.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternal(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Kind:    KindInternal,
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
		Err:     err,
	}
}

// KindOf extracts the error kind, defaulting to Internal.
func KindOf(err error) Kind {
	de := ToDomainError(err)
	if de == nil {
		return ""
	}
	return de.Kind
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}

// HTTPStatus maps a kind to a transport status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindForbidden:
		return 403
	case KindNotFound:
		return 404
	case KindConflict:
		return 409
	case KindInvalidInput:
		return 422
	case KindUnauthorized:
		return 401
	default:
		return 500
	}
}
