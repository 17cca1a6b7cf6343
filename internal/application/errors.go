package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies field errors from another validation error.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, message := range other.FieldErrors {
		v.add(field, message)
	}
}

// ConflictError reports a booking rejected because the slot is already
// occupied by a different entity. Conflicts are business outcomes, never
// retried; the caller must pick another date or shift and resubmit.
type ConflictError struct {
	// ClientName names the clashing client when known.
	ClientName string
	Date       time.Time
	Shift      scheduler.Shift
	// Message overrides the composed text when set (advisory warnings
	// promoted to hard rejections reuse their original wording).
	Message string
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	if c == nil {
		return ""
	}
	if c.Message != "" {
		return c.Message
	}
	client := c.ClientName
	if client == "" {
		client = "another client"
	}
	return fmt.Sprintf(
		"schedule conflict: a visit for %q is already booked on %s (%s); change the date or shift and try again",
		client, c.Date.Format("2006-01-02"), c.Shift,
	)
}
