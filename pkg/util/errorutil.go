package util

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of any transport.
type Kind string

const (
	KindValidationFailed Kind = "VALIDATION_FAILED"
	KindNotFound         Kind = "NOT_FOUND"
	KindAccessDenied     Kind = "ACCESS_DENIED"
	KindConflict         Kind = "CONFLICT"
	// KindInvalidState is reserved; no trigger currently rejects on ticket state alone.
	KindInvalidState Kind = "INVALID_STATE"
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

// Is matches another DomainError of the same kind and code, so sentinel
// comparisons via errors.Is work on constructed values.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && (other.Code == "" || e.Code == other.Code)
}

// NewDomainError constructs a DomainError whose code equals its kind.
func NewDomainError(kind Kind, message string, details map[string]any) *DomainError {
	return &DomainError{Kind: kind, Code: string(kind), Message: message, Details: details}
}

// WithCode overrides the machine-readable code while keeping the kind.
func (e *DomainError) WithCode(code string) *DomainError {
	e.Code = code
	return e
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidationFailed, message, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError(KindNotFound, fmt.Sprintf("%s not found", resource), details)
}

func NewAccessDenied(message string) error {
	return NewDomainError(KindAccessDenied, message, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, message, details)
}

func NewInvalidState(message string, details map[string]any) error {
	return NewDomainError(KindInvalidState, message, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(KindUnauthorized, message, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Kind:    KindInternal,
		Code:    string(KindInternal),
		Message: "internal server error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}

// KindOf returns the classification of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return ToDomainError(err).Kind
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
