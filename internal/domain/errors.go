package domain

import (
	"errors"
	"net/http"
)

// HTTPError is an error that knows which HTTP status it maps to.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - match with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
)

// ConflictError reports a uniqueness violation and the resource that already holds the key.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // section, component, language, ...
	ResourceID   int64  // ID of the existing resource, 0 if unknown
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// FieldError is a validation failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string   { return e.Field + ": " + e.Message }
func (e *FieldError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrValidation
func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}
