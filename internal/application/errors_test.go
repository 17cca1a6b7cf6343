package application

import (
	"strings"
	"testing"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"field": "invalid"}}
	if got := withFields.Error(); got != "validation failed" {
		t.Fatalf("expected consistent message for populated error, got %q", got)
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	if err := (&ValidationError{}).HasErrors(); err {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	if err := (&ValidationError{FieldErrors: map[string]string{"field": "bad"}}).HasErrors(); !err {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	base.add("first", "value")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	other := &ValidationError{FieldErrors: map[string]string{"second": "another"}}
	base.merge(other)
	if got := base.FieldErrors["second"]; got != "another" {
		t.Fatalf("expected merge to copy field, got %q", got)
	}

	base.merge(nil)
	if len(base.FieldErrors) != 2 {
		t.Fatalf("expected merge with nil to leave fields unchanged")
	}
}

func TestConflictError_Error(t *testing.T) {
	t.Parallel()

	var err *ConflictError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	named := &ConflictError{
		ClientName: "Acme Corp",
		Date:       time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
		Shift:      scheduler.ShiftMorning,
	}
	got := named.Error()
	if !strings.Contains(got, "Acme Corp") || !strings.Contains(got, "2026-03-15") {
		t.Fatalf("unexpected message: %q", got)
	}

	anonymous := &ConflictError{Shift: scheduler.ShiftAfternoon}
	if !strings.Contains(anonymous.Error(), "another client") {
		t.Fatalf("expected fallback wording, got %q", anonymous.Error())
	}

	overridden := &ConflictError{Message: "slot already booked"}
	if overridden.Error() != "slot already booked" {
		t.Fatalf("expected message override, got %q", overridden.Error())
	}
}
