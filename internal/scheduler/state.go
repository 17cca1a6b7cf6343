package scheduler

// VisitState is the follow-up state of a visit with respect to the agenda.
// It is never stored: it is recomputed from the visit and the current
// calendar entries on every read, so deleting a reschedule entry makes the
// visit's projection reappear without any flag being cleared.
type VisitState string

const (
	// StateNoFollowUp means the visit has no pending follow-up. Terminal.
	StateNoFollowUp VisitState = "NO_FOLLOW_UP"
	// StatePendingVirtual means the follow-up exists only as a virtual
	// projection; no calendar entry links to the visit yet.
	StatePendingVirtual VisitState = "PENDING_VIRTUAL"
	// StateRescheduled means a RESCHEDULED_VISIT entry links to the visit and
	// is the sole visible representation of the follow-up.
	StateRescheduled VisitState = "RESCHEDULED"
)

// ComputeVisitState derives the follow-up state of a visit from the supplied
// calendar entries.
func ComputeVisitState(visit Visit, entries []CalendarEntry) VisitState {
	if !visit.HasFollowUp() {
		return StateNoFollowUp
	}
	superseded := SupersededVisitIDs(entries)
	if _, ok := superseded[visit.ID]; ok {
		return StateRescheduled
	}
	return StatePendingVirtual
}

// SupersededVisitIDs collects the ids of visits that already have an active
// RESCHEDULED_VISIT entry pointing at them. Projections for those visits are
// suppressed.
func SupersededVisitIDs(entries []CalendarEntry) map[string]struct{} {
	superseded := make(map[string]struct{})
	for _, entry := range entries {
		if entry.Kind != KindRescheduledVisit || !entry.Linked() {
			continue
		}
		superseded[*entry.VisitID] = struct{}{}
	}
	return superseded
}
