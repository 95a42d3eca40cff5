// Package apperror holds the error kinds surfaced at the request boundary.
package apperror

import (
	"errors"
	"fmt"
)

// ValidationError represents malformed or rule-violating input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthorizationError is returned when the caller lacks the required role or
// ownership. Unauthenticated marks a caller with no identity at all.
type AuthorizationError struct {
	Message         string
	Unauthenticated bool
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a violated uniqueness constraint.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(msg string) error {
	return &AuthorizationError{Message: msg}
}

func Unauthenticated(msg string) error {
	return &AuthorizationError{Message: msg, Unauthenticated: true}
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func Conflict(field, msg string) error {
	return &ConflictError{Field: field, Message: msg}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsAuthorization(err error) bool {
	var a *AuthorizationError
	return errors.As(err, &a)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
