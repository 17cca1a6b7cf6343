package scheduler

import (
	"fmt"
	"sort"
	"strings"
)

// ProjectPending derives virtual timeline entries from visits that carry a
// pending follow-up and have not been superseded by a reschedule entry.
// Visits targeting the identical (date, shift, company) slot collapse into a
// single projection.
func ProjectPending(visits []Visit, superseded map[string]struct{}) []TimelineEntry {
	var projections []TimelineEntry
	seen := make(map[string]struct{})

	for _, visit := range visits {
		if !visit.HasFollowUp() {
			continue
		}
		if _, ok := superseded[visit.ID]; ok {
			continue
		}

		var shift Shift
		if visit.NextVisitShift != nil {
			shift = *visit.NextVisitShift
		}
		key := fmt.Sprintf("%s|%s|%s", DateOnly(*visit.NextVisitDate).Format("2006-01-02"), shift, visit.CompanyID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		projections = append(projections, TimelineEntry{
			ReferenceID:   visit.ID,
			SourceVisitID: visit.ID,
			Kind:          KindProjectedVisit,
			Title:         ProjectionTitle(visit),
			Date:          DateOnly(*visit.NextVisitDate),
			Shift:         shift,
			ClientName:    visit.CompanyName,
			UnitName:      visit.UnitName,
			SectorName:    visit.SectorName,
			TechnicianID:  visit.TechnicianID,
		})
	}

	return projections
}

// ProjectionTitle synthesises the display title of a virtual projection.
func ProjectionTitle(visit Visit) string {
	company := visit.CompanyName
	if strings.TrimSpace(company) == "" {
		company = "Unknown company"
	}
	title := "Next visit: " + company
	if visit.UnitName != "" {
		title += " (" + visit.UnitName + ")"
	}
	return title
}

// AggregateTimeline merges persisted entries with the virtual projections
// derived from the supplied visits into one sorted timeline. The superseded
// set is recomputed from the entries on every call; the result must never be
// cached, since the reverse reschedule transition relies on a fresh join.
//
// Entries sharing a date are ordered by reference id. No business rule
// depends on same-day ordering; the tie-break only keeps output
// deterministic.
func AggregateTimeline(entries []CalendarEntry, visits []Visit) []TimelineEntry {
	visitsByID := make(map[string]Visit, len(visits))
	for _, visit := range visits {
		visitsByID[visit.ID] = visit
	}

	timeline := make([]TimelineEntry, 0, len(entries))
	for _, entry := range entries {
		timeline = append(timeline, mapEntry(entry, visitsByID))
	}

	timeline = append(timeline, ProjectPending(visits, SupersededVisitIDs(entries))...)

	sort.SliceStable(timeline, func(i, j int) bool {
		if timeline[i].Date.Equal(timeline[j].Date) {
			return timeline[i].ReferenceID < timeline[j].ReferenceID
		}
		return timeline[i].Date.Before(timeline[j].Date)
	})

	return timeline
}

func mapEntry(entry CalendarEntry, visitsByID map[string]Visit) TimelineEntry {
	mapped := TimelineEntry{
		ReferenceID:  entry.ID,
		Kind:         entry.Kind,
		Title:        entry.Title,
		Description:  entry.Description,
		Date:         DateOnly(entry.EventDate),
		Shift:        entry.Shift,
		TechnicianID: entry.TechnicianID,
	}

	if entry.Linked() {
		mapped.SourceVisitID = *entry.VisitID
		if visit, ok := visitsByID[*entry.VisitID]; ok {
			mapped.ClientName = visit.CompanyName
			mapped.UnitName = visit.UnitName
			mapped.SectorName = visit.SectorName
		}
		return mapped
	}

	mapped.ClientName = entry.ClientName
	if entry.Observation != "" {
		if mapped.Description != "" {
			mapped.Description += " | " + entry.Observation
		} else {
			mapped.Description = entry.Observation
		}
	}
	return mapped
}
