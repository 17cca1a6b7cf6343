package scheduler

import "time"

// SlotStatus is the outcome of the advisory availability check for one
// technician, date and shift.
type SlotStatus int

const (
	// SlotFree means the requested slot has no booking.
	SlotFree SlotStatus = iota
	// SlotShiftTaken means an entry already occupies the requested shift.
	SlotShiftTaken
	// SlotDayFull means both shifts of the day are already booked.
	SlotDayFull
)

// EvaluateSlot inspects one technician's entries for a single day and
// reports whether the requested shift can still be booked. The day-full
// check precedes the shift check so a fully booked day is reported as such
// even when the requested shift itself is occupied.
func EvaluateSlot(dayEntries []CalendarEntry, shift Shift) SlotStatus {
	if len(dayEntries) >= 2 {
		return SlotDayFull
	}
	for _, entry := range dayEntries {
		if entry.Shift == shift {
			return SlotShiftTaken
		}
	}
	return SlotFree
}

// BuildMonthAvailability produces the per-day busy grid for a month from the
// three occupancy sources: realised visits (slot derived from the start
// hour), pending follow-ups (slot taken from the stored shift, since the
// visit has not happened yet) and manual calendar entries. Entries linked to
// a visit are skipped so a rescheduled follow-up is not counted twice against
// its source visit. Only days with at least one busy slot are returned.
func BuildMonthAvailability(year int, month time.Month, realized []Visit, scheduled []Visit, manual []CalendarEntry) []DayAvailability {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	var grid []DayAvailability
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		morning := false
		afternoon := false

		for _, visit := range realized {
			if !SameDay(visit.VisitDate, day) {
				continue
			}
			if visit.StartTime.Hour() < 12 {
				morning = true
			} else {
				afternoon = true
			}
		}

		for _, visit := range scheduled {
			if visit.NextVisitDate == nil || !SameDay(*visit.NextVisitDate, day) {
				continue
			}
			if visit.NextVisitShift == nil {
				continue
			}
			switch *visit.NextVisitShift {
			case ShiftMorning:
				morning = true
			case ShiftAfternoon:
				afternoon = true
			}
		}

		for _, entry := range manual {
			if entry.Linked() || !SameDay(entry.EventDate, day) {
				continue
			}
			switch entry.Shift {
			case ShiftMorning:
				morning = true
			case ShiftAfternoon:
				afternoon = true
			}
		}

		if morning || afternoon {
			grid = append(grid, DayAvailability{
				Date:          day,
				MorningBusy:   morning,
				AfternoonBusy: afternoon,
				FullDayBusy:   morning && afternoon,
			})
		}
	}

	return grid
}
