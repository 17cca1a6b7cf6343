package scheduler

import (
	"fmt"
	"strings"
)

// Shift is the half-day booking granularity used across the agenda.
type Shift string

const (
	// ShiftMorning covers the slot before noon.
	ShiftMorning Shift = "MORNING"
	// ShiftAfternoon covers the slot from noon onwards.
	ShiftAfternoon Shift = "AFTERNOON"
)

// ParseShift converts freeform input into a Shift. Matching is
// case-insensitive; unrecognised values are rejected rather than defaulted.
func ParseShift(value string) (Shift, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(ShiftMorning):
		return ShiftMorning, nil
	case string(ShiftAfternoon):
		return ShiftAfternoon, nil
	default:
		return "", fmt.Errorf("unknown shift %q", value)
	}
}

// Valid reports whether the shift holds one of the closed enum values.
func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftAfternoon
}

// EntryKind classifies a calendar entry.
type EntryKind string

const (
	// KindGeneric marks a manually created entry such as a meeting or day off.
	KindGeneric EntryKind = "GENERIC"
	// KindTraining marks a manually created training session.
	KindTraining EntryKind = "TRAINING"
	// KindRescheduledVisit marks an entry produced by the reschedule workflow.
	// Entries of this kind always link back to their source visit.
	KindRescheduledVisit EntryKind = "RESCHEDULED_VISIT"
	// KindProjectedVisit marks an ephemeral timeline entry derived from a
	// visit's pending follow-up. It is never persisted.
	KindProjectedVisit EntryKind = "PROJECTED_VISIT"
)

// ParseEntryKind converts freeform input into a persistable EntryKind.
// KindProjectedVisit is derived, never accepted as input.
func ParseEntryKind(value string) (EntryKind, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(KindGeneric):
		return KindGeneric, nil
	case string(KindTraining):
		return KindTraining, nil
	case string(KindRescheduledVisit):
		return KindRescheduledVisit, nil
	default:
		return "", fmt.Errorf("unknown entry kind %q", value)
	}
}
