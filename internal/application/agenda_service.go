package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/persistence"
	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

// AgendaService orchestrates validation, conflict checking and persistence
// for the field-visit agenda.
type AgendaService struct {
	entries     EventStore
	visits      VisitStore
	users       UserDirectory
	locks       *technicianLocks
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAgendaService wires dependencies for agenda operations.
func NewAgendaService(entries EventStore, visits VisitStore, users UserDirectory, idGenerator func() string, now func() time.Time) *AgendaService {
	return NewAgendaServiceWithLogger(entries, visits, users, idGenerator, now, nil)
}

// NewAgendaServiceWithLogger wires dependencies and attaches a base logger.
func NewAgendaServiceWithLogger(entries EventStore, visits VisitStore, users UserDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AgendaService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AgendaService{
		entries:     entries,
		visits:      visits,
		users:       users,
		locks:       newTechnicianLocks(),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CheckAvailability is the advisory pre-check run before a technician commits
// to a date and shift in a form. It warns against any occupancy; the hard
// gate at report submission only blocks cross-entity occupancy.
func (s *AgendaService) CheckAvailability(ctx context.Context, principal Principal, date time.Time, shiftValue string) (string, error) {
	if s == nil || s.entries == nil {
		return "", fmt.Errorf("agenda service not configured")
	}

	shift, err := s.validateSlotInput(date, shiftValue)
	if err != nil {
		return "", err
	}

	dayEntries, err := s.entries.ListEntriesByDate(ctx, principal.UserID, scheduler.DateOnly(date))
	if err != nil {
		return "", mapEntryStoreError(err)
	}

	return slotWarning(scheduler.EvaluateSlot(dayEntries, shift), shift), nil
}

// ValidateReportSubmission is the hard conflict gate run when a visit report
// is about to be finalised. Entries reserved for the submitting visit itself
// are not conflicts; anything else occupying the slot blocks submission and
// the error names the clashing client.
func (s *AgendaService) ValidateReportSubmission(ctx context.Context, params ValidateReportParams) error {
	if s == nil || s.entries == nil {
		return fmt.Errorf("agenda service not configured")
	}

	shift, err := s.validateSlotInput(params.Date, params.Shift)
	if err != nil {
		return err
	}

	date := scheduler.DateOnly(params.Date)
	occupying, err := s.entries.ListEntriesByDateAndShift(ctx, params.Principal.UserID, date, shift)
	if err != nil {
		return mapEntryStoreError(err)
	}

	for _, entry := range occupying {
		if entry.Linked() && *entry.VisitID == params.VisitID {
			// The slot belongs to the visit being submitted.
			continue
		}

		clashing, err := s.clashingClientName(ctx, entry)
		if err != nil {
			return err
		}

		serviceLogger(ctx, s.logger, "agenda", "validate_report",
			"visit_id", params.VisitID, "entry_id", entry.ID).
			InfoContext(ctx, "report submission blocked by conflicting booking")

		return &ConflictError{ClientName: clashing, Date: date, Shift: shift}
	}

	return nil
}

// CreateEvent persists a manually created calendar entry after the advisory
// availability check passes. Reschedule entries have their own operation.
func (s *AgendaService) CreateEvent(ctx context.Context, params CreateEventParams) (scheduler.CalendarEntry, error) {
	if s == nil || s.entries == nil {
		return scheduler.CalendarEntry{}, fmt.Errorf("agenda service not configured")
	}

	input := params.Input
	shift, vErr := validateEventInput(input)
	kind, kindErr := validateManualEntryKind(input.Kind)
	vErr.merge(kindErr)
	if vErr.HasErrors() {
		return scheduler.CalendarEntry{}, vErr
	}

	date := scheduler.DateOnly(input.Date)

	release := s.locks.Acquire(params.Principal.UserID)
	defer release()

	dayEntries, err := s.entries.ListEntriesByDate(ctx, params.Principal.UserID, date)
	if err != nil {
		return scheduler.CalendarEntry{}, mapEntryStoreError(err)
	}
	if warning := slotWarning(scheduler.EvaluateSlot(dayEntries, shift), shift); warning != "" {
		return scheduler.CalendarEntry{}, &ConflictError{Message: warning, Date: date, Shift: shift}
	}

	createdAt := s.now()
	entry := scheduler.CalendarEntry{
		ID:           s.idGenerator(),
		TechnicianID: params.Principal.UserID,
		Kind:         kind,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		EventDate:    date,
		Shift:        shift,
		ClientName:   strings.TrimSpace(input.ClientName),
		Observation:  input.Observation,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}

	persisted, err := s.entries.CreateEntry(ctx, entry)
	if err != nil {
		return scheduler.CalendarEntry{}, mapEntryWriteError(err, date, shift)
	}

	serviceLogger(ctx, s.logger, "agenda", "create_event", "entry_id", persisted.ID).
		InfoContext(ctx, "calendar entry created")

	return persisted, nil
}

// UpdateEvent applies owner-only changes to an existing entry. The entry kind
// and the visit link never change through this operation.
func (s *AgendaService) UpdateEvent(ctx context.Context, params UpdateEventParams) (scheduler.CalendarEntry, error) {
	if s == nil || s.entries == nil {
		return scheduler.CalendarEntry{}, fmt.Errorf("agenda service not configured")
	}

	existing, err := s.entries.GetEntry(ctx, params.EntryID)
	if err != nil {
		return scheduler.CalendarEntry{}, mapEntryStoreError(err)
	}

	if existing.TechnicianID != params.Principal.UserID {
		return scheduler.CalendarEntry{}, ErrUnauthorized
	}

	input := params.Input
	shift, vErr := validateEventInput(input)
	if vErr.HasErrors() {
		return scheduler.CalendarEntry{}, vErr
	}

	date := scheduler.DateOnly(input.Date)

	release := s.locks.Acquire(params.Principal.UserID)
	defer release()

	moved := !scheduler.SameDay(existing.EventDate, date) || existing.Shift != shift
	if moved {
		dayEntries, err := s.entries.ListEntriesByDate(ctx, params.Principal.UserID, date)
		if err != nil {
			return scheduler.CalendarEntry{}, mapEntryStoreError(err)
		}
		remaining := dayEntries[:0]
		for _, entry := range dayEntries {
			if entry.ID != existing.ID {
				remaining = append(remaining, entry)
			}
		}
		if warning := slotWarning(scheduler.EvaluateSlot(remaining, shift), shift); warning != "" {
			return scheduler.CalendarEntry{}, &ConflictError{Message: warning, Date: date, Shift: shift}
		}
	}

	updated := existing
	updated.Title = strings.TrimSpace(input.Title)
	updated.Description = input.Description
	updated.EventDate = date
	updated.Shift = shift
	updated.ClientName = strings.TrimSpace(input.ClientName)
	updated.Observation = input.Observation
	updated.UpdatedAt = s.now()

	persisted, err := s.entries.UpdateEntry(ctx, updated)
	if err != nil {
		return scheduler.CalendarEntry{}, mapEntryWriteError(err, date, shift)
	}

	return persisted, nil
}

// DeleteEvent removes an entry owned by the principal. Deleting a reschedule
// entry does not touch the source visit: its projection reappears on the
// next timeline read because the superseded set is recomputed fresh.
func (s *AgendaService) DeleteEvent(ctx context.Context, principal Principal, entryID string) error {
	if s == nil || s.entries == nil {
		return fmt.Errorf("agenda service not configured")
	}

	existing, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return mapEntryStoreError(err)
	}

	if existing.TechnicianID != principal.UserID {
		return ErrUnauthorized
	}

	if err := s.entries.DeleteEntry(ctx, entryID); err != nil {
		return mapEntryStoreError(err)
	}

	serviceLogger(ctx, s.logger, "agenda", "delete_event", "entry_id", entryID).
		InfoContext(ctx, "calendar entry deleted")

	return nil
}

// RescheduleVisit converts a visit's pending follow-up into a persisted
// entry, creating or updating the single entry linked to the visit. The
// original proposed date is captured on the first reschedule and never
// overwritten afterwards, so the audit trail always refers to the original
// proposal.
func (s *AgendaService) RescheduleVisit(ctx context.Context, params RescheduleVisitParams) (scheduler.CalendarEntry, error) {
	if s == nil || s.entries == nil || s.visits == nil {
		return scheduler.CalendarEntry{}, fmt.Errorf("agenda service not configured")
	}

	vErr := &ValidationError{}
	if params.NewDate.IsZero() {
		vErr.add("new_date", "new date is required")
	}
	var requestedShift scheduler.Shift
	if strings.TrimSpace(params.Shift) != "" {
		parsed, err := scheduler.ParseShift(params.Shift)
		if err != nil {
			vErr.add("shift", "shift must be MORNING or AFTERNOON")
		} else {
			requestedShift = parsed
		}
	}
	if vErr.HasErrors() {
		return scheduler.CalendarEntry{}, vErr
	}

	visit, err := s.visits.GetVisit(ctx, params.VisitID)
	if err != nil {
		return scheduler.CalendarEntry{}, mapEntryStoreError(err)
	}

	if visit.TechnicianID != params.Principal.UserID {
		return scheduler.CalendarEntry{}, ErrUnauthorized
	}

	release := s.locks.Acquire(params.Principal.UserID)
	defer release()

	existing, err := s.entries.GetEntryByVisit(ctx, params.VisitID)
	creating := false
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) && !errors.Is(err, ErrNotFound) {
			return scheduler.CalendarEntry{}, mapEntryStoreError(err)
		}
		creating = true
	}

	shift := requestedShift
	if shift == "" {
		switch {
		case !creating && existing.Shift.Valid():
			shift = existing.Shift
		case visit.NextVisitShift != nil:
			shift = *visit.NextVisitShift
		default:
			shift = scheduler.ShiftMorning
		}
	}

	now := s.now()
	entry := existing
	if creating {
		entry = scheduler.CalendarEntry{ID: s.idGenerator(), CreatedAt: now}
	}

	visitID := params.VisitID
	entry.TechnicianID = params.Principal.UserID
	entry.Kind = scheduler.KindRescheduledVisit
	entry.Title = rescheduleTitle(visit)
	entry.EventDate = scheduler.DateOnly(params.NewDate)
	entry.Shift = shift
	entry.VisitID = &visitID
	entry.UpdatedAt = now
	if strings.TrimSpace(params.Reason) != "" {
		entry.Description = params.Reason
	}
	if entry.OriginalDate == nil && visit.NextVisitDate != nil {
		original := scheduler.DateOnly(*visit.NextVisitDate)
		entry.OriginalDate = &original
	}

	var persisted scheduler.CalendarEntry
	if creating {
		persisted, err = s.entries.CreateEntry(ctx, entry)
	} else {
		persisted, err = s.entries.UpdateEntry(ctx, entry)
	}
	if err != nil {
		return scheduler.CalendarEntry{}, mapEntryWriteError(err, entry.EventDate, shift)
	}

	serviceLogger(ctx, s.logger, "agenda", "reschedule_visit",
		"visit_id", params.VisitID, "entry_id", persisted.ID, "created", creating).
		InfoContext(ctx, "visit rescheduled")

	return persisted, nil
}

// ListTimeline returns the principal's merged agenda: persisted entries plus
// virtual projections of pending follow-ups, sorted by date.
func (s *AgendaService) ListTimeline(ctx context.Context, principal Principal) ([]scheduler.TimelineEntry, error) {
	if s == nil || s.entries == nil || s.visits == nil {
		return nil, fmt.Errorf("agenda service not configured")
	}
	return s.buildTimeline(ctx, principal.UserID)
}

// ListTimelineGlobal returns the agenda across technicians, optionally
// filtered to one. Admin only.
func (s *AgendaService) ListTimelineGlobal(ctx context.Context, principal Principal, technicianID string) ([]scheduler.TimelineEntry, error) {
	if s == nil || s.entries == nil || s.visits == nil {
		return nil, fmt.Errorf("agenda service not configured")
	}

	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	if technicianID != "" && s.users != nil {
		if _, err := s.users.GetUser(ctx, technicianID); err != nil {
			return nil, mapEntryStoreError(err)
		}
	}

	return s.buildTimeline(ctx, technicianID)
}

// MonthAvailability produces the per-day busy grid for the principal's month.
func (s *AgendaService) MonthAvailability(ctx context.Context, principal Principal, year, month int) ([]scheduler.DayAvailability, error) {
	if s == nil || s.entries == nil || s.visits == nil {
		return nil, fmt.Errorf("agenda service not configured")
	}

	vErr := &ValidationError{}
	if year < 1 {
		vErr.add("year", "year is required")
	}
	if month < 1 || month > 12 {
		vErr.add("month", "month must be between 1 and 12")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	realized, err := s.visits.ListRealizedInRange(ctx, principal.UserID, from, to)
	if err != nil {
		return nil, mapEntryStoreError(err)
	}
	scheduled, err := s.visits.ListScheduledInRange(ctx, principal.UserID, from, to)
	if err != nil {
		return nil, mapEntryStoreError(err)
	}
	manual, err := s.entries.ListEntriesInRange(ctx, principal.UserID, from, to)
	if err != nil {
		return nil, mapEntryStoreError(err)
	}

	return scheduler.BuildMonthAvailability(year, time.Month(month), realized, scheduled, manual), nil
}

func (s *AgendaService) buildTimeline(ctx context.Context, technicianID string) ([]scheduler.TimelineEntry, error) {
	entries, err := s.entries.ListEntries(ctx, technicianID)
	if err != nil {
		return nil, mapEntryStoreError(err)
	}

	visits, err := s.visits.ListScheduled(ctx, technicianID)
	if err != nil {
		return nil, mapEntryStoreError(err)
	}

	// The superseded join is recomputed inside AggregateTimeline on every
	// call; caching its result would break the reverse reschedule
	// transition.
	timeline := scheduler.AggregateTimeline(entries, visits)

	if err := s.resolveResponsibleNames(ctx, timeline); err != nil {
		return nil, err
	}

	return timeline, nil
}

func (s *AgendaService) resolveResponsibleNames(ctx context.Context, timeline []scheduler.TimelineEntry) error {
	if s.users == nil || len(timeline) == 0 {
		return nil
	}

	unique := make(map[string]struct{})
	ids := make([]string, 0, len(timeline))
	for _, entry := range timeline {
		if entry.TechnicianID == "" {
			continue
		}
		if _, ok := unique[entry.TechnicianID]; ok {
			continue
		}
		unique[entry.TechnicianID] = struct{}{}
		ids = append(ids, entry.TechnicianID)
	}

	names, err := s.users.DisplayNames(ctx, ids)
	if err != nil {
		return err
	}

	for i := range timeline {
		timeline[i].ResponsibleName = names[timeline[i].TechnicianID]
	}
	return nil
}

func (s *AgendaService) clashingClientName(ctx context.Context, entry scheduler.CalendarEntry) (string, error) {
	if !entry.Linked() {
		return entry.ClientName, nil
	}

	visit, err := s.visits.GetVisit(ctx, *entry.VisitID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, ErrNotFound) {
			// Orphaned link; still a conflict, just without a name.
			return entry.ClientName, nil
		}
		return "", err
	}
	return visit.CompanyName, nil
}

// validateEventInput checks the fields shared by event creation and update.
// The returned validation error is never nil so callers can merge further
// field checks into it.
func validateEventInput(input EventInput) (scheduler.Shift, *ValidationError) {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	shift, err := scheduler.ParseShift(input.Shift)
	if err != nil {
		vErr.add("shift", "shift must be MORNING or AFTERNOON")
	}
	return shift, vErr
}

// validateManualEntryKind accepts only the kinds a technician may book by
// hand. Reschedule entries are created through their own operation.
func validateManualEntryKind(value string) (scheduler.EntryKind, *ValidationError) {
	vErr := &ValidationError{}
	kind, err := scheduler.ParseEntryKind(value)
	if err != nil {
		vErr.add("kind", "kind must be GENERIC or TRAINING")
	} else if kind == scheduler.KindRescheduledVisit {
		vErr.add("kind", "use the reschedule operation for visits")
	}
	return kind, vErr
}

func (s *AgendaService) validateSlotInput(date time.Time, shiftValue string) (scheduler.Shift, error) {
	vErr := &ValidationError{}
	if date.IsZero() {
		vErr.add("date", "date is required")
	}
	shift, err := scheduler.ParseShift(shiftValue)
	if err != nil {
		vErr.add("shift", "shift must be MORNING or AFTERNOON")
	}
	if vErr.HasErrors() {
		return "", vErr
	}
	return shift, nil
}

func slotWarning(status scheduler.SlotStatus, shift scheduler.Shift) string {
	switch status {
	case scheduler.SlotDayFull:
		return "Both shifts are already booked on this date. Choose another date."
	case scheduler.SlotShiftTaken:
		return fmt.Sprintf("A booking already exists in the %s shift on this date. Choose another shift.", shift)
	default:
		return ""
	}
}

func rescheduleTitle(visit scheduler.Visit) string {
	company := visit.CompanyName
	if strings.TrimSpace(company) == "" {
		company = "Unknown company"
	}
	title := "Rescheduled visit: " + company
	if visit.UnitName != "" {
		title += " (" + visit.UnitName + ")"
	}
	return title
}

func mapEntryStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func mapEntryWriteError(err error, date time.Time, shift scheduler.Shift) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		// The partial unique index caught a concurrent booking that slipped
		// past the advisory check.
		return &ConflictError{Date: date, Shift: shift}
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("technician", "related records are missing")
		return vErr
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("entry", "entry violates storage constraints")
		return vErr
	}
	return mapEntryStoreError(err)
}
