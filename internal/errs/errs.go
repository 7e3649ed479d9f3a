// Package errs defines the domain error taxonomy shared by stores,
// authorization logic, and the HTTP layer. Handlers map these types to
// status codes; anything unclassified surfaces as a generic 500 with the
// internal cause logged, never exposed.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports one or more locally recoverable input problems
// (blank, duplicate, or malformed fields). The messages are safe to show
// to the caller.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Validation builds a ValidationError from one or more messages.
func Validation(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// DepthExceededError is a specialization of ValidationError raised when
// creating a reply would exceed the maximum nesting depth.
type DepthExceededError struct {
	Depth int
	Max   int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("maximum reply depth exceeded (depth %d, max %d)", e.Depth, e.Max)
}

// As lets a DepthExceededError satisfy errors.As for *ValidationError,
// since callers treat it as a recoverable input problem.
func (e *DepthExceededError) As(target any) bool {
	if v, ok := target.(**ValidationError); ok {
		*v = Validation(e.Error())
		return true
	}
	return false
}

// AuthorizationError means the actor lacks rights for the operation. It
// deliberately carries no detail about why beyond a generic message, to
// avoid leaking moderation structure.
type AuthorizationError struct {
	// Banned is set when the denial is a ban blocking content creation;
	// the HTTP layer maps it to 403 instead of 401.
	Banned bool
}

func (e *AuthorizationError) Error() string {
	if e.Banned {
		return "account is restricted and cannot create new content"
	}
	return "unauthorized"
}

// Unauthorized returns a plain authorization denial.
func Unauthorized() *AuthorizationError {
	return &AuthorizationError{}
}

// BannedErr returns the denial used when a ban blocks content creation.
func BannedErr() *AuthorizationError {
	return &AuthorizationError{Banned: true}
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NotFound builds a NotFoundError for the named entity ("thread",
// "category", ...).
func NotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// DeletionError wraps a failure inside a multi-step cascading delete.
// The whole transaction has been rolled back; the cause is for logs only.
type DeletionError struct {
	Entity string
	Cause  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("failed to delete %s: %v", e.Entity, e.Cause)
}

func (e *DeletionError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is a validation failure, including
// the depth-cap specialization.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
