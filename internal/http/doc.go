// Package http provides HTTP handlers and middleware for the agenda API.
//
// All agenda endpoints require a bearer token signed with the shared HMAC
// secret;
// RequireAuth derives the acting principal from the token's subject and admin
// claims. The router exposes the following endpoints:
//   - GET /agenda/availability?date=YYYY-MM-DD&shift=MORNING: advisory slot
//     pre-check. Returns 204 when the slot is free and 409 with a warning
//     message when the day or shift is already taken.
//   - GET /agenda/events: the principal's merged timeline of persisted entries
//     and projected pending follow-ups.
//   - GET /agenda/admin/events?technician={id}: the timeline across
//     technicians, admin only. The optional technician parameter narrows the
//     result to one agenda.
//   - POST /agenda/events, PUT /agenda/events/{id}, DELETE /agenda/events/{id}:
//     manual calendar entry management exchanging the `eventRequest` and
//     `entryDTO` payloads defined in agenda_handler.go.
//   - PUT /agenda/visits/{visitId}/reschedule: creates or moves the calendar
//     entry linked to a visit's pending follow-up.
//   - POST /agenda/visits/{visitId}/validate-report: the hard conflict gate
//     run before a visit report is finalised. Returns 204 when the slot is
//     clear and 409 naming the clashing client otherwise.
//   - GET /agenda/availability/month?year=YYYY&month=M: the per-day busy grid
//     for one month.
//   - GET /healthz: unauthenticated health check reporting 204 when the
//     database responds and 503 otherwise.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
