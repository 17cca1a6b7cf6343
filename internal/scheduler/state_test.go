package scheduler

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func shiftPtr(s Shift) *Shift {
	return &s
}

func strPtr(s string) *string {
	return &s
}

func TestComputeVisitState_NoFollowUp(t *testing.T) {
	t.Parallel()

	visit := Visit{ID: "visit-1", TechnicianID: "tech-1"}

	if got := ComputeVisitState(visit, nil); got != StateNoFollowUp {
		t.Fatalf("expected %s, got %s", StateNoFollowUp, got)
	}
}

func TestComputeVisitState_PendingVirtual(t *testing.T) {
	t.Parallel()

	visit := Visit{
		ID:             "visit-1",
		NextVisitDate:  datePtr(2025, time.June, 10),
		NextVisitShift: shiftPtr(ShiftMorning),
	}

	entries := []CalendarEntry{
		{ID: "entry-1", Kind: KindGeneric, EventDate: date(2025, time.June, 10), Shift: ShiftMorning},
	}

	if got := ComputeVisitState(visit, entries); got != StatePendingVirtual {
		t.Fatalf("expected %s, got %s", StatePendingVirtual, got)
	}
}

func TestComputeVisitState_Rescheduled(t *testing.T) {
	t.Parallel()

	visit := Visit{
		ID:             "visit-1",
		NextVisitDate:  datePtr(2025, time.June, 10),
		NextVisitShift: shiftPtr(ShiftMorning),
	}

	entries := []CalendarEntry{
		{ID: "entry-1", Kind: KindRescheduledVisit, VisitID: strPtr("visit-1"), EventDate: date(2025, time.June, 12)},
	}

	if got := ComputeVisitState(visit, entries); got != StateRescheduled {
		t.Fatalf("expected %s, got %s", StateRescheduled, got)
	}
}

func TestComputeVisitState_ReappearsAfterEntryRemoval(t *testing.T) {
	t.Parallel()

	visit := Visit{
		ID:             "visit-1",
		NextVisitDate:  datePtr(2025, time.June, 10),
		NextVisitShift: shiftPtr(ShiftMorning),
	}

	entries := []CalendarEntry{
		{ID: "entry-1", Kind: KindRescheduledVisit, VisitID: strPtr("visit-1"), EventDate: date(2025, time.June, 12)},
	}

	if got := ComputeVisitState(visit, entries); got != StateRescheduled {
		t.Fatalf("expected %s before removal, got %s", StateRescheduled, got)
	}

	// Deleting the linking entry reverses the transition on the next read.
	if got := ComputeVisitState(visit, nil); got != StatePendingVirtual {
		t.Fatalf("expected %s after removal, got %s", StatePendingVirtual, got)
	}
}

func TestSupersededVisitIDs_IgnoresUnlinkedAndManualEntries(t *testing.T) {
	t.Parallel()

	entries := []CalendarEntry{
		{ID: "entry-1", Kind: KindRescheduledVisit, VisitID: strPtr("visit-1")},
		{ID: "entry-2", Kind: KindRescheduledVisit},
		{ID: "entry-3", Kind: KindGeneric, VisitID: strPtr("visit-2")},
		{ID: "entry-4", Kind: KindTraining},
	}

	superseded := SupersededVisitIDs(entries)

	if len(superseded) != 1 {
		t.Fatalf("expected 1 superseded visit, got %d", len(superseded))
	}
	if _, ok := superseded["visit-1"]; !ok {
		t.Fatalf("expected visit-1 in superseded set, got %v", superseded)
	}
}
