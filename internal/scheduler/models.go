package scheduler

import "time"

// Visit is the scheduling core's read-only view of a completed field visit.
// Company, unit and sector names arrive denormalised because visit and
// company management live outside this subsystem.
type Visit struct {
	ID             string
	TechnicianID   string
	CompanyID      string
	CompanyName    string
	UnitName       string
	SectorName     string
	VisitDate      time.Time
	StartTime      time.Time
	EndTime        time.Time
	NextVisitDate  *time.Time
	NextVisitShift *Shift
}

// HasFollowUp reports whether the visit carries a pending follow-up slot.
func (v Visit) HasFollowUp() bool {
	return v.NextVisitDate != nil
}

// CalendarEntry is a persisted booking: either created manually by a
// technician or produced by the reschedule workflow.
type CalendarEntry struct {
	ID           string
	TechnicianID string
	Kind         EntryKind
	Title        string
	Description  string
	EventDate    time.Time
	Shift        Shift
	VisitID      *string
	OriginalDate *time.Time
	ClientName   string
	Observation  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Linked reports whether the entry points back to a source visit.
func (e CalendarEntry) Linked() bool {
	return e.VisitID != nil && *e.VisitID != ""
}

// TimelineEntry is the unified shape presented by the agenda: persisted
// entries and virtual projections mapped onto one list.
type TimelineEntry struct {
	ReferenceID     string
	SourceVisitID   string
	Kind            EntryKind
	Title           string
	Description     string
	Date            time.Time
	Shift           Shift
	ClientName      string
	UnitName        string
	SectorName      string
	TechnicianID    string
	ResponsibleName string
}

// DayAvailability flags the busy slots of a single day in the month grid.
type DayAvailability struct {
	Date          time.Time
	MorningBusy   bool
	AfternoonBusy bool
	FullDayBusy   bool
}

// DateOnly truncates a timestamp to its calendar day in UTC. All agenda
// comparisons work on day granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
