package application

import (
	"context"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

// Principal represents the authenticated technician invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// EventInput captures caller provided calendar entry fields. Shift and Kind
// arrive as freeform strings and are validated into the closed enums.
type EventInput struct {
	Title       string
	Description string
	Date        time.Time
	Shift       string
	Kind        string
	ClientName  string
	Observation string
}

// CreateEventParams wraps the data required to create a calendar entry.
type CreateEventParams struct {
	Principal Principal
	Input     EventInput
}

// UpdateEventParams wraps the data required to update an existing entry.
type UpdateEventParams struct {
	Principal Principal
	EntryID   string
	Input     EventInput
}

// RescheduleVisitParams wraps the data required to convert a pending
// follow-up into a persisted entry.
type RescheduleVisitParams struct {
	Principal Principal
	VisitID   string
	NewDate   time.Time
	// Shift is optional; when empty the existing entry's shift, then the
	// visit's stored follow-up shift, then morning apply in that order.
	Shift  string
	Reason string
}

// ValidateReportParams wraps the data for the hard conflict gate run before
// a visit report is finalised.
type ValidateReportParams struct {
	Principal Principal
	VisitID   string
	Date      time.Time
	Shift     string
}

// VisitStore is the narrow read contract against the visit subsystem.
type VisitStore interface {
	GetVisit(ctx context.Context, id string) (scheduler.Visit, error)
	ListRealizedInRange(ctx context.Context, technicianID string, from, to time.Time) ([]scheduler.Visit, error)
	ListScheduledInRange(ctx context.Context, technicianID string, from, to time.Time) ([]scheduler.Visit, error)
	ListScheduled(ctx context.Context, technicianID string) ([]scheduler.Visit, error)
}

// EventStore persists calendar entries.
type EventStore interface {
	CreateEntry(ctx context.Context, entry scheduler.CalendarEntry) (scheduler.CalendarEntry, error)
	UpdateEntry(ctx context.Context, entry scheduler.CalendarEntry) (scheduler.CalendarEntry, error)
	GetEntry(ctx context.Context, id string) (scheduler.CalendarEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	GetEntryByVisit(ctx context.Context, visitID string) (scheduler.CalendarEntry, error)
	ListEntries(ctx context.Context, technicianID string) ([]scheduler.CalendarEntry, error)
	ListEntriesByDate(ctx context.Context, technicianID string, date time.Time) ([]scheduler.CalendarEntry, error)
	ListEntriesByDateAndShift(ctx context.Context, technicianID string, date time.Time, shift scheduler.Shift) ([]scheduler.CalendarEntry, error)
	ListEntriesInRange(ctx context.Context, technicianID string, from, to time.Time) ([]scheduler.CalendarEntry, error)
}

// UserDirectory resolves technician ids to display names.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (User, error)
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
}

// User is the directory record exposed to the agenda.
type User struct {
	ID          string
	DisplayName string
	IsAdmin     bool
}
