package scheduler

import (
	"testing"
	"time"
)

func TestEvaluateSlot(t *testing.T) {
	t.Parallel()

	morning := CalendarEntry{ID: "entry-m", Shift: ShiftMorning}
	afternoon := CalendarEntry{ID: "entry-a", Shift: ShiftAfternoon}

	cases := []struct {
		name    string
		entries []CalendarEntry
		shift   Shift
		want    SlotStatus
	}{
		{name: "empty day is free", entries: nil, shift: ShiftMorning, want: SlotFree},
		{name: "other shift taken", entries: []CalendarEntry{afternoon}, shift: ShiftMorning, want: SlotFree},
		{name: "same shift taken", entries: []CalendarEntry{morning}, shift: ShiftMorning, want: SlotShiftTaken},
		{name: "both shifts taken", entries: []CalendarEntry{morning, afternoon}, shift: ShiftMorning, want: SlotDayFull},
		{name: "day full reported for either shift", entries: []CalendarEntry{morning, afternoon}, shift: ShiftAfternoon, want: SlotDayFull},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := EvaluateSlot(tc.entries, tc.shift); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func clockTime(hour int) time.Time {
	return time.Date(0, time.January, 1, hour, 0, 0, 0, time.UTC)
}

func TestBuildMonthAvailability_RealizedVisitsUseStartHour(t *testing.T) {
	t.Parallel()

	realized := []Visit{
		{ID: "visit-1", VisitDate: date(2025, time.June, 5), StartTime: clockTime(9)},
		{ID: "visit-2", VisitDate: date(2025, time.June, 6), StartTime: clockTime(14)},
	}

	grid := BuildMonthAvailability(2025, time.June, realized, nil, nil)

	if len(grid) != 2 {
		t.Fatalf("expected 2 busy days, got %d", len(grid))
	}
	if !grid[0].MorningBusy || grid[0].AfternoonBusy {
		t.Fatalf("expected morning-only on day 5, got %+v", grid[0])
	}
	if grid[1].MorningBusy || !grid[1].AfternoonBusy {
		t.Fatalf("expected afternoon-only on day 6, got %+v", grid[1])
	}
}

func TestBuildMonthAvailability_ScheduledVisitsUseStoredShift(t *testing.T) {
	t.Parallel()

	// Start time is irrelevant for a visit that has not happened yet.
	scheduled := []Visit{
		{
			ID:             "visit-1",
			StartTime:      clockTime(9),
			NextVisitDate:  datePtr(2025, time.June, 20),
			NextVisitShift: shiftPtr(ShiftAfternoon),
		},
	}

	grid := BuildMonthAvailability(2025, time.June, nil, scheduled, nil)

	if len(grid) != 1 {
		t.Fatalf("expected 1 busy day, got %d", len(grid))
	}
	if grid[0].MorningBusy || !grid[0].AfternoonBusy {
		t.Fatalf("expected stored shift to win, got %+v", grid[0])
	}
}

func TestBuildMonthAvailability_SkipsLinkedEntries(t *testing.T) {
	t.Parallel()

	manual := []CalendarEntry{
		{ID: "entry-1", EventDate: date(2025, time.June, 10), Shift: ShiftMorning, VisitID: strPtr("visit-1")},
		{ID: "entry-2", EventDate: date(2025, time.June, 11), Shift: ShiftMorning},
	}

	grid := BuildMonthAvailability(2025, time.June, nil, nil, manual)

	if len(grid) != 1 {
		t.Fatalf("expected only the unlinked entry to count, got %d days", len(grid))
	}
	if !SameDay(grid[0].Date, date(2025, time.June, 11)) {
		t.Fatalf("expected day 11, got %s", grid[0].Date)
	}
}

func TestBuildMonthAvailability_FullDayRequiresBothShifts(t *testing.T) {
	t.Parallel()

	manual := []CalendarEntry{
		{ID: "entry-1", EventDate: date(2025, time.June, 10), Shift: ShiftMorning},
		{ID: "entry-2", EventDate: date(2025, time.June, 10), Shift: ShiftAfternoon},
		{ID: "entry-3", EventDate: date(2025, time.June, 11), Shift: ShiftMorning},
	}

	grid := BuildMonthAvailability(2025, time.June, nil, nil, manual)

	for _, day := range grid {
		if day.FullDayBusy != (day.MorningBusy && day.AfternoonBusy) {
			t.Fatalf("full-day flag inconsistent for %s: %+v", day.Date, day)
		}
	}
	if !grid[0].FullDayBusy {
		t.Fatalf("expected day 10 to be fully busy, got %+v", grid[0])
	}
	if grid[1].FullDayBusy {
		t.Fatalf("expected day 11 to be half busy, got %+v", grid[1])
	}
}

func TestBuildMonthAvailability_CombinesAllSources(t *testing.T) {
	t.Parallel()

	realized := []Visit{{ID: "visit-1", VisitDate: date(2025, time.June, 10), StartTime: clockTime(8)}}
	scheduled := []Visit{
		{
			ID:             "visit-2",
			NextVisitDate:  datePtr(2025, time.June, 10),
			NextVisitShift: shiftPtr(ShiftAfternoon),
		},
	}

	grid := BuildMonthAvailability(2025, time.June, realized, scheduled, nil)

	if len(grid) != 1 {
		t.Fatalf("expected 1 busy day, got %d", len(grid))
	}
	if !grid[0].FullDayBusy {
		t.Fatalf("expected sources to combine into a full day, got %+v", grid[0])
	}
}

func TestBuildMonthAvailability_EmptyMonth(t *testing.T) {
	t.Parallel()

	if grid := BuildMonthAvailability(2025, time.June, nil, nil, nil); len(grid) != 0 {
		t.Fatalf("expected empty grid, got %d days", len(grid))
	}
}
