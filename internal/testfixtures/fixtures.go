package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/application"
	"github.com/example/fieldvisit-scheduler/internal/persistence"
	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

var (
	userCounter  uint64
	visitCounter uint64
	entryCounter uint64
)

var referenceTime = time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDate returns the baseline timestamp truncated to its day.
func ReferenceDate() time.Time {
	return scheduler.DateOnly(referenceTime)
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic technician directory record.
type UserFixture struct {
	ID          string
	DisplayName string
	IsAdmin     bool
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	fixture := UserFixture{
		ID:          fmt.Sprintf("user-%03d", idx),
		DisplayName: fmt.Sprintf("Technician %03d", idx),
		IsAdmin:     false,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserDisplayName overrides the generated display name.
func WithUserDisplayName(name string) UserOption {
	return func(f *UserFixture) {
		f.DisplayName = name
	}
}

// WithUserAdmin sets the admin flag on the generated fixture.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) {
		f.IsAdmin = isAdmin
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:          f.ID,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
	}
}

// ----------------------------- Visit fixtures ----------------------------

// VisitFixture represents a deterministic realized field visit.
type VisitFixture struct {
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
	NextVisitShift *scheduler.Shift
}

// VisitOption configures the generated visit fixture.
type VisitOption func(*VisitFixture)

// NewVisitFixture returns a deterministic visit fixture with optional
// overrides. The default visit is realized in the morning of the reference
// day and carries no follow-up.
func NewVisitFixture(opts ...VisitOption) VisitFixture {
	idx := atomic.AddUint64(&visitCounter, 1)
	day := ReferenceDate().AddDate(0, 0, int(idx%28))
	fixture := VisitFixture{
		ID:           fmt.Sprintf("visit-%03d", idx),
		TechnicianID: fmt.Sprintf("user-%03d", idx),
		CompanyID:    fmt.Sprintf("company-%03d", idx),
		CompanyName:  fmt.Sprintf("Company %03d", idx),
		UnitName:     "HQ",
		SectorName:   "Production",
		VisitDate:    day,
		StartTime:    day.Add(8 * time.Hour),
		EndTime:      day.Add(10 * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithVisitID overrides the generated visit ID.
func WithVisitID(id string) VisitOption {
	return func(f *VisitFixture) {
		f.ID = id
	}
}

// WithVisitTechnician sets the owning technician.
func WithVisitTechnician(id string) VisitOption {
	return func(f *VisitFixture) {
		f.TechnicianID = id
	}
}

// WithVisitCompany sets the company identity on the fixture.
func WithVisitCompany(id, name string) VisitOption {
	return func(f *VisitFixture) {
		f.CompanyID = id
		f.CompanyName = name
	}
}

// WithVisitUnit sets the unit and sector names.
func WithVisitUnit(unit, sector string) VisitOption {
	return func(f *VisitFixture) {
		f.UnitName = unit
		f.SectorName = sector
	}
}

// WithVisitDate sets the realized date and re-anchors the clock times.
func WithVisitDate(day time.Time) VisitOption {
	return func(f *VisitFixture) {
		day = scheduler.DateOnly(day)
		f.VisitDate = day
		f.StartTime = day.Add(8 * time.Hour)
		f.EndTime = day.Add(10 * time.Hour)
	}
}

// WithVisitTimes sets the visit clock times.
func WithVisitTimes(start, end time.Time) VisitOption {
	return func(f *VisitFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithVisitFollowUp sets the pending follow-up date on the fixture. The
// shift defaults to morning unless WithVisitFollowUpShift overrides it; the
// schema stores the pair together or not at all.
func WithVisitFollowUp(next time.Time) VisitOption {
	return func(f *VisitFixture) {
		day := scheduler.DateOnly(next)
		f.NextVisitDate = &day
		if f.NextVisitShift == nil {
			shift := scheduler.ShiftMorning
			f.NextVisitShift = &shift
		}
	}
}

// WithVisitFollowUpShift sets the follow-up shift.
func WithVisitFollowUpShift(shift scheduler.Shift) VisitOption {
	return func(f *VisitFixture) {
		value := shift
		f.NextVisitShift = &value
	}
}

// WithoutVisitFollowUp clears any follow-up on the fixture.
func WithoutVisitFollowUp() VisitOption {
	return func(f *VisitFixture) {
		f.NextVisitDate = nil
		f.NextVisitShift = nil
	}
}

// Scheduler returns the fixture as a scheduler.Visit value.
func (f VisitFixture) Scheduler() scheduler.Visit {
	visit := scheduler.Visit{
		ID:           f.ID,
		TechnicianID: f.TechnicianID,
		CompanyID:    f.CompanyID,
		CompanyName:  f.CompanyName,
		UnitName:     f.UnitName,
		SectorName:   f.SectorName,
		VisitDate:    f.VisitDate,
		StartTime:    f.StartTime,
		EndTime:      f.EndTime,
	}
	if f.NextVisitDate != nil {
		next := *f.NextVisitDate
		visit.NextVisitDate = &next
	}
	if f.NextVisitShift != nil {
		shift := *f.NextVisitShift
		visit.NextVisitShift = &shift
	}
	return visit
}

// Persistence returns the fixture as a persistence.Visit value.
func (f VisitFixture) Persistence() persistence.Visit {
	visit := persistence.Visit{
		ID:           f.ID,
		TechnicianID: f.TechnicianID,
		CompanyID:    f.CompanyID,
		CompanyName:  f.CompanyName,
		VisitDate:    f.VisitDate,
		StartTime:    f.StartTime,
		EndTime:      f.EndTime,
	}
	if f.UnitName != "" {
		unit := f.UnitName
		visit.UnitName = &unit
	}
	if f.SectorName != "" {
		sector := f.SectorName
		visit.SectorName = &sector
	}
	if f.NextVisitDate != nil {
		next := *f.NextVisitDate
		visit.NextVisitDate = &next
	}
	if f.NextVisitShift != nil {
		shift := string(*f.NextVisitShift)
		visit.NextVisitShift = &shift
	}
	return visit
}

// ------------------------- Calendar entry fixtures -----------------------

// CalendarEntryFixture represents a deterministic agenda booking.
type CalendarEntryFixture struct {
	ID           string
	TechnicianID string
	Kind         scheduler.EntryKind
	Title        string
	Description  string
	EventDate    time.Time
	Shift        scheduler.Shift
	VisitID      *string
	OriginalDate *time.Time
	ClientName   string
	Observation  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CalendarEntryOption configures the generated entry fixture.
type CalendarEntryOption func(*CalendarEntryFixture)

// NewCalendarEntryFixture returns a deterministic entry fixture with optional
// overrides. The default entry is a generic morning booking.
func NewCalendarEntryFixture(opts ...CalendarEntryOption) CalendarEntryFixture {
	idx := atomic.AddUint64(&entryCounter, 1)
	fixture := CalendarEntryFixture{
		ID:           fmt.Sprintf("entry-%03d", idx),
		TechnicianID: fmt.Sprintf("user-%03d", idx),
		Kind:         scheduler.KindGeneric,
		Title:        fmt.Sprintf("Booking %03d", idx),
		EventDate:    ReferenceDate().AddDate(0, 0, int(idx%28)),
		Shift:        scheduler.ShiftMorning,
		ClientName:   fmt.Sprintf("Client %03d", idx),
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEntryID overrides the generated entry ID.
func WithEntryID(id string) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.ID = id
	}
}

// WithEntryTechnician sets the owning technician.
func WithEntryTechnician(id string) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.TechnicianID = id
	}
}

// WithEntryKind sets the entry kind.
func WithEntryKind(kind scheduler.EntryKind) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.Kind = kind
	}
}

// WithEntryTitle overrides the generated title.
func WithEntryTitle(title string) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.Title = title
	}
}

// WithEntryDescription sets the description.
func WithEntryDescription(description string) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.Description = description
	}
}

// WithEntrySlot sets the booked date and shift.
func WithEntrySlot(date time.Time, shift scheduler.Shift) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.EventDate = scheduler.DateOnly(date)
		f.Shift = shift
	}
}

// WithEntryVisit links the entry to a visit and marks it rescheduled.
func WithEntryVisit(visitID string) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		id := visitID
		f.VisitID = &id
		f.Kind = scheduler.KindRescheduledVisit
		f.ClientName = ""
	}
}

// WithEntryOriginalDate sets the captured original follow-up date.
func WithEntryOriginalDate(date time.Time) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		day := scheduler.DateOnly(date)
		f.OriginalDate = &day
	}
}

// WithEntryClient sets the manual client fields.
func WithEntryClient(name, observation string) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.ClientName = name
		f.Observation = observation
	}
}

// WithEntryTimestamps sets both created and updated timestamps.
func WithEntryTimestamps(created, updated time.Time) CalendarEntryOption {
	return func(f *CalendarEntryFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Scheduler returns the fixture as a scheduler.CalendarEntry value.
func (f CalendarEntryFixture) Scheduler() scheduler.CalendarEntry {
	entry := scheduler.CalendarEntry{
		ID:           f.ID,
		TechnicianID: f.TechnicianID,
		Kind:         f.Kind,
		Title:        f.Title,
		Description:  f.Description,
		EventDate:    f.EventDate,
		Shift:        f.Shift,
		ClientName:   f.ClientName,
		Observation:  f.Observation,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	if f.VisitID != nil {
		id := *f.VisitID
		entry.VisitID = &id
	}
	if f.OriginalDate != nil {
		day := *f.OriginalDate
		entry.OriginalDate = &day
	}
	return entry
}

// Persistence returns the fixture as a persistence.CalendarEntry value.
func (f CalendarEntryFixture) Persistence() persistence.CalendarEntry {
	entry := persistence.CalendarEntry{
		ID:           f.ID,
		TechnicianID: f.TechnicianID,
		Kind:         string(f.Kind),
		Title:        f.Title,
		Description:  f.Description,
		EventDate:    f.EventDate,
		Shift:        string(f.Shift),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
	if f.VisitID != nil {
		id := *f.VisitID
		entry.VisitID = &id
	}
	if f.OriginalDate != nil {
		day := *f.OriginalDate
		entry.OriginalDate = &day
	}
	if f.ClientName != "" {
		name := f.ClientName
		entry.ClientName = &name
	}
	if f.Observation != "" {
		obs := f.Observation
		entry.Observation = &obs
	}
	return entry
}
