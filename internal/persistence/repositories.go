package persistence

import "context"
import "time"

// UserDirectory resolves technician ids to directory records. The scheduling
// core never writes users; account management lives elsewhere.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (User, error)
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
}

// VisitRepository exposes the read contract the scheduling core holds
// against the visit store. Visits are created and mutated by the reporting
// subsystem; this core only consumes them.
type VisitRepository interface {
	GetVisit(ctx context.Context, id string) (Visit, error)
	// ListRealizedInRange returns visits whose visit_date falls inside
	// [from, to], inclusive.
	ListRealizedInRange(ctx context.Context, technicianID string, from, to time.Time) ([]Visit, error)
	// ListScheduledInRange returns visits whose next_visit_date falls inside
	// [from, to], inclusive.
	ListScheduledInRange(ctx context.Context, technicianID string, from, to time.Time) ([]Visit, error)
	// ListScheduled returns visits with a pending follow-up. An empty
	// technicianID selects all technicians.
	ListScheduled(ctx context.Context, technicianID string) ([]Visit, error)
}

// CalendarEntryRepository stores agenda bookings.
type CalendarEntryRepository interface {
	CreateEntry(ctx context.Context, entry CalendarEntry) (CalendarEntry, error)
	UpdateEntry(ctx context.Context, entry CalendarEntry) (CalendarEntry, error)
	GetEntry(ctx context.Context, id string) (CalendarEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	// GetEntryByVisit returns the entry linking to the given visit, or
	// ErrNotFound when the visit has not been rescheduled.
	GetEntryByVisit(ctx context.Context, visitID string) (CalendarEntry, error)
	// ListEntries returns entries ordered by event_date. An empty
	// technicianID selects all technicians.
	ListEntries(ctx context.Context, technicianID string) ([]CalendarEntry, error)
	ListEntriesByDate(ctx context.Context, technicianID string, date time.Time) ([]CalendarEntry, error)
	ListEntriesByDateAndShift(ctx context.Context, technicianID string, date time.Time, shift string) ([]CalendarEntry, error)
	// ListEntriesInRange returns entries with event_date inside [from, to],
	// inclusive.
	ListEntriesInRange(ctx context.Context, technicianID string, from, to time.Time) ([]CalendarEntry, error)
}
