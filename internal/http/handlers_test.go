package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/fieldvisit-scheduler/internal/application"
	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

type stubAgendaService struct {
	checkAvailability func(ctx context.Context, principal application.Principal, date time.Time, shift string) (string, error)
	validateReport    func(ctx context.Context, params application.ValidateReportParams) error
	createEvent       func(ctx context.Context, params application.CreateEventParams) (scheduler.CalendarEntry, error)
	updateEvent       func(ctx context.Context, params application.UpdateEventParams) (scheduler.CalendarEntry, error)
	deleteEvent       func(ctx context.Context, principal application.Principal, entryID string) error
	rescheduleVisit   func(ctx context.Context, params application.RescheduleVisitParams) (scheduler.CalendarEntry, error)
	listTimeline      func(ctx context.Context, principal application.Principal) ([]scheduler.TimelineEntry, error)
	listGlobal        func(ctx context.Context, principal application.Principal, technicianID string) ([]scheduler.TimelineEntry, error)
	monthAvailability func(ctx context.Context, principal application.Principal, year, month int) ([]scheduler.DayAvailability, error)
}

func (s *stubAgendaService) CheckAvailability(ctx context.Context, principal application.Principal, date time.Time, shift string) (string, error) {
	if s.checkAvailability == nil {
		return "", nil
	}
	return s.checkAvailability(ctx, principal, date, shift)
}

func (s *stubAgendaService) ValidateReportSubmission(ctx context.Context, params application.ValidateReportParams) error {
	if s.validateReport == nil {
		return nil
	}
	return s.validateReport(ctx, params)
}

func (s *stubAgendaService) CreateEvent(ctx context.Context, params application.CreateEventParams) (scheduler.CalendarEntry, error) {
	if s.createEvent == nil {
		return scheduler.CalendarEntry{}, nil
	}
	return s.createEvent(ctx, params)
}

func (s *stubAgendaService) UpdateEvent(ctx context.Context, params application.UpdateEventParams) (scheduler.CalendarEntry, error) {
	if s.updateEvent == nil {
		return scheduler.CalendarEntry{}, nil
	}
	return s.updateEvent(ctx, params)
}

func (s *stubAgendaService) DeleteEvent(ctx context.Context, principal application.Principal, entryID string) error {
	if s.deleteEvent == nil {
		return nil
	}
	return s.deleteEvent(ctx, principal, entryID)
}

func (s *stubAgendaService) RescheduleVisit(ctx context.Context, params application.RescheduleVisitParams) (scheduler.CalendarEntry, error) {
	if s.rescheduleVisit == nil {
		return scheduler.CalendarEntry{}, nil
	}
	return s.rescheduleVisit(ctx, params)
}

func (s *stubAgendaService) ListTimeline(ctx context.Context, principal application.Principal) ([]scheduler.TimelineEntry, error) {
	if s.listTimeline == nil {
		return nil, nil
	}
	return s.listTimeline(ctx, principal)
}

func (s *stubAgendaService) ListTimelineGlobal(ctx context.Context, principal application.Principal, technicianID string) ([]scheduler.TimelineEntry, error) {
	if s.listGlobal == nil {
		return nil, nil
	}
	return s.listGlobal(ctx, principal, technicianID)
}

func (s *stubAgendaService) MonthAvailability(ctx context.Context, principal application.Principal, year, month int) ([]scheduler.DayAvailability, error) {
	if s.monthAvailability == nil {
		return nil, nil
	}
	return s.monthAvailability(ctx, principal, year, month)
}

func withPrincipal(principal application.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

func newTestRouter(t *testing.T, service agendaService, principal application.Principal) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewRouter(RouterConfig{
		Agenda:     NewAgendaHandler(service, logger),
		Middleware: []func(http.Handler) http.Handler{withPrincipal(principal)},
	})
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return body
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	t.Parallel()

	technician := application.Principal{UserID: "tech-1"}

	t.Run("free slot returns no content", func(t *testing.T) {
		t.Parallel()

		var gotShift string
		var gotDate time.Time
		service := &stubAgendaService{
			checkAvailability: func(_ context.Context, _ application.Principal, date time.Time, shift string) (string, error) {
				gotDate, gotShift = date, shift
				return "", nil
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/availability?date=2026-03-10&shift=MORNING", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if gotShift != "MORNING" {
			t.Fatalf("expected shift passthrough, got %q", gotShift)
		}
		if !gotDate.Equal(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected date %v", gotDate)
		}
	})

	t.Run("occupied slot returns conflict with warning", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			checkAvailability: func(context.Context, application.Principal, time.Time, string) (string, error) {
				return "A booking already exists in the morning shift on this date. Choose another shift.", nil
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/availability?date=2026-03-10&shift=MORNING", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", recorder.Code)
		}
		body := decodeBody(t, recorder)
		if body["error_code"] != "SLOT_OCCUPIED" {
			t.Fatalf("unexpected error code %v", body["error_code"])
		}
		if !strings.Contains(body["message"].(string), "morning shift") {
			t.Fatalf("unexpected message %v", body["message"])
		}
	})

	t.Run("malformed date returns bad request", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubAgendaService{}, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/availability?date=10-03-2026&shift=MORNING", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("unknown shift maps validation error", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			checkAvailability: func(context.Context, application.Principal, time.Time, string) (string, error) {
				vErr := &application.ValidationError{FieldErrors: map[string]string{"shift": "must be MORNING or AFTERNOON"}}
				return "", vErr
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/availability?date=2026-03-10&shift=EVENING", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", recorder.Code)
		}
	})
}

func TestCreateEventEndpoint(t *testing.T) {
	t.Parallel()

	technician := application.Principal{UserID: "tech-1"}

	t.Run("valid payload creates entry", func(t *testing.T) {
		t.Parallel()

		var captured application.CreateEventParams
		service := &stubAgendaService{
			createEvent: func(_ context.Context, params application.CreateEventParams) (scheduler.CalendarEntry, error) {
				captured = params
				return scheduler.CalendarEntry{
					ID:           "entry-1",
					TechnicianID: params.Principal.UserID,
					Kind:         scheduler.KindGeneric,
					Title:        params.Input.Title,
					EventDate:    params.Input.Date,
					Shift:        scheduler.ShiftMorning,
					CreatedAt:    time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
					UpdatedAt:    time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		router := newTestRouter(t, service, technician)

		payload := `{"title":"Team sync","date":"2026-03-10","shift":"MORNING","kind":"GENERIC"}`
		req := httptest.NewRequest(http.MethodPost, "/agenda/events", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if captured.Principal.UserID != "tech-1" {
			t.Fatalf("expected principal forwarded, got %q", captured.Principal.UserID)
		}
		if captured.Input.Title != "Team sync" || captured.Input.Shift != "MORNING" {
			t.Fatalf("unexpected input %+v", captured.Input)
		}

		body := decodeBody(t, recorder)
		event := body["event"].(map[string]any)
		if event["id"] != "entry-1" || event["date"] != "2026-03-10" {
			t.Fatalf("unexpected event payload %v", event)
		}
	})

	t.Run("missing fields return field level errors", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubAgendaService{}, technician)

		req := httptest.NewRequest(http.MethodPost, "/agenda/events", strings.NewReader(`{"shift":"MORNING"}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", recorder.Code)
		}
		body := decodeBody(t, recorder)
		fields := body["errors"].(map[string]any)
		if fields["title"] == nil || fields["date"] == nil || fields["kind"] == nil {
			t.Fatalf("expected title, date and kind errors, got %v", fields)
		}
	})

	t.Run("malformed body returns bad request", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubAgendaService{}, technician)

		req := httptest.NewRequest(http.MethodPost, "/agenda/events", strings.NewReader(`{not json`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})

	t.Run("service conflict maps to 409", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			createEvent: func(context.Context, application.CreateEventParams) (scheduler.CalendarEntry, error) {
				return scheduler.CalendarEntry{}, &application.ConflictError{Message: "Both shifts are already booked on this date. Choose another date."}
			},
		}
		router := newTestRouter(t, service, technician)

		payload := `{"title":"Team sync","date":"2026-03-10","shift":"MORNING","kind":"GENERIC"}`
		req := httptest.NewRequest(http.MethodPost, "/agenda/events", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", recorder.Code)
		}
		body := decodeBody(t, recorder)
		if body["error_code"] != "SCHEDULE_CONFLICT" {
			t.Fatalf("unexpected error code %v", body["error_code"])
		}
	})
}

func TestUpdateAndDeleteEventEndpoints(t *testing.T) {
	t.Parallel()

	technician := application.Principal{UserID: "tech-1"}

	t.Run("update forwards path id and omits kind changes", func(t *testing.T) {
		t.Parallel()

		var captured application.UpdateEventParams
		service := &stubAgendaService{
			updateEvent: func(_ context.Context, params application.UpdateEventParams) (scheduler.CalendarEntry, error) {
				captured = params
				return scheduler.CalendarEntry{ID: params.EntryID, Kind: scheduler.KindGeneric, Shift: scheduler.ShiftAfternoon, EventDate: params.Input.Date}, nil
			},
		}
		router := newTestRouter(t, service, technician)

		payload := `{"title":"Moved","date":"2026-03-11","shift":"AFTERNOON"}`
		req := httptest.NewRequest(http.MethodPut, "/agenda/events/entry-9", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if captured.EntryID != "entry-9" {
			t.Fatalf("expected path id forwarded, got %q", captured.EntryID)
		}
	})

	t.Run("update of unowned entry maps to 403", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			updateEvent: func(context.Context, application.UpdateEventParams) (scheduler.CalendarEntry, error) {
				return scheduler.CalendarEntry{}, application.ErrUnauthorized
			},
		}
		router := newTestRouter(t, service, technician)

		payload := `{"title":"Moved","date":"2026-03-11","shift":"AFTERNOON"}`
		req := httptest.NewRequest(http.MethodPut, "/agenda/events/entry-9", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
		body := decodeBody(t, recorder)
		if body["error_code"] != "AUTH_FORBIDDEN" {
			t.Fatalf("unexpected error code %v", body["error_code"])
		}
	})

	t.Run("delete returns no content", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		service := &stubAgendaService{
			deleteEvent: func(_ context.Context, _ application.Principal, entryID string) error {
				deletedID = entryID
				return nil
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodDelete, "/agenda/events/entry-9", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", recorder.Code)
		}
		if deletedID != "entry-9" {
			t.Fatalf("expected path id forwarded, got %q", deletedID)
		}
	})

	t.Run("delete of missing entry maps to 404", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			deleteEvent: func(context.Context, application.Principal, string) error {
				return application.ErrNotFound
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodDelete, "/agenda/events/ghost", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})

	t.Run("unsupported method is rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubAgendaService{}, technician)

		req := httptest.NewRequest(http.MethodPatch, "/agenda/events/entry-9", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", recorder.Code)
		}
		if allow := recorder.Header().Get("Allow"); !strings.Contains(allow, http.MethodPut) {
			t.Fatalf("expected Allow header, got %q", allow)
		}
	})
}

func TestRescheduleVisitEndpoint(t *testing.T) {
	t.Parallel()

	technician := application.Principal{UserID: "tech-1"}

	t.Run("forwards visit id and optional fields", func(t *testing.T) {
		t.Parallel()

		var captured application.RescheduleVisitParams
		service := &stubAgendaService{
			rescheduleVisit: func(_ context.Context, params application.RescheduleVisitParams) (scheduler.CalendarEntry, error) {
				captured = params
				visitID := params.VisitID
				original := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
				return scheduler.CalendarEntry{
					ID:           "entry-5",
					Kind:         scheduler.KindRescheduledVisit,
					Title:        "Rescheduled visit: Acme Corp (HQ)",
					EventDate:    params.NewDate,
					Shift:        scheduler.ShiftAfternoon,
					VisitID:      &visitID,
					OriginalDate: &original,
				}, nil
			},
		}
		router := newTestRouter(t, service, technician)

		payload := `{"new_date":"2026-03-25","shift":"AFTERNOON","reason":"Client asked to postpone"}`
		req := httptest.NewRequest(http.MethodPut, "/agenda/visits/visit-7/reschedule", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if captured.VisitID != "visit-7" || captured.Shift != "AFTERNOON" || captured.Reason != "Client asked to postpone" {
			t.Fatalf("unexpected params %+v", captured)
		}

		body := decodeBody(t, recorder)
		event := body["event"].(map[string]any)
		if event["visit_id"] != "visit-7" || event["original_date"] != "2026-03-20" {
			t.Fatalf("unexpected event payload %v", event)
		}
	})

	t.Run("missing new date is rejected before the service", func(t *testing.T) {
		t.Parallel()

		called := false
		service := &stubAgendaService{
			rescheduleVisit: func(context.Context, application.RescheduleVisitParams) (scheduler.CalendarEntry, error) {
				called = true
				return scheduler.CalendarEntry{}, nil
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodPut, "/agenda/visits/visit-7/reschedule", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", recorder.Code)
		}
		if called {
			t.Fatal("service should not be reached with invalid payload")
		}
	})

	t.Run("unknown visit action is not found", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubAgendaService{}, technician)

		req := httptest.NewRequest(http.MethodPut, "/agenda/visits/visit-7/archive", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", recorder.Code)
		}
	})
}

func TestValidateReportEndpoint(t *testing.T) {
	t.Parallel()

	technician := application.Principal{UserID: "tech-1"}

	t.Run("clear slot returns no content", func(t *testing.T) {
		t.Parallel()

		var captured application.ValidateReportParams
		service := &stubAgendaService{
			validateReport: func(_ context.Context, params application.ValidateReportParams) error {
				captured = params
				return nil
			},
		}
		router := newTestRouter(t, service, technician)

		payload := `{"date":"2026-03-25","shift":"MORNING"}`
		req := httptest.NewRequest(http.MethodPost, "/agenda/visits/visit-7/validate-report", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if captured.VisitID != "visit-7" || captured.Shift != "MORNING" {
			t.Fatalf("unexpected params %+v", captured)
		}
	})

	t.Run("occupied slot names the clashing client", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			validateReport: func(context.Context, application.ValidateReportParams) error {
				return &application.ConflictError{
					ClientName: "Acme Corp",
					Date:       time.Date(2026, time.March, 25, 0, 0, 0, 0, time.UTC),
					Shift:      scheduler.ShiftMorning,
				}
			},
		}
		router := newTestRouter(t, service, technician)

		payload := `{"date":"2026-03-25","shift":"MORNING"}`
		req := httptest.NewRequest(http.MethodPost, "/agenda/visits/visit-7/validate-report", strings.NewReader(payload))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", recorder.Code)
		}
		body := decodeBody(t, recorder)
		if !strings.Contains(body["message"].(string), "Acme Corp") {
			t.Fatalf("expected clashing client in message, got %v", body["message"])
		}
	})
}

func TestTimelineEndpoints(t *testing.T) {
	t.Parallel()

	technician := application.Principal{UserID: "tech-1"}
	admin := application.Principal{UserID: "admin-1", IsAdmin: true}

	t.Run("personal timeline serializes projections", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			listTimeline: func(context.Context, application.Principal) ([]scheduler.TimelineEntry, error) {
				return []scheduler.TimelineEntry{
					{
						ReferenceID:   "visit:visit-7",
						SourceVisitID: "visit-7",
						Kind:          scheduler.KindProjectedVisit,
						Title:         "Scheduled visit: Acme Corp (HQ)",
						Date:          time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
						Shift:         scheduler.ShiftMorning,
						ClientName:    "Acme Corp",
						TechnicianID:  "tech-1",
					},
				}, nil
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/events", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		body := decodeBody(t, recorder)
		events := body["events"].([]any)
		if len(events) != 1 {
			t.Fatalf("expected one event, got %d", len(events))
		}
		event := events[0].(map[string]any)
		if event["kind"] != "PROJECTED_VISIT" || event["source_visit_id"] != "visit-7" {
			t.Fatalf("unexpected payload %v", event)
		}
	})

	t.Run("global timeline forwards technician filter", func(t *testing.T) {
		t.Parallel()

		var filtered string
		service := &stubAgendaService{
			listGlobal: func(_ context.Context, _ application.Principal, technicianID string) ([]scheduler.TimelineEntry, error) {
				filtered = technicianID
				return nil, nil
			},
		}
		router := newTestRouter(t, service, admin)

		req := httptest.NewRequest(http.MethodGet, "/agenda/admin/events?technician=tech-2", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if filtered != "tech-2" {
			t.Fatalf("expected filter forwarded, got %q", filtered)
		}
	})

	t.Run("global timeline rejects non admins", func(t *testing.T) {
		t.Parallel()

		service := &stubAgendaService{
			listGlobal: func(context.Context, application.Principal, string) ([]scheduler.TimelineEntry, error) {
				return nil, application.ErrUnauthorized
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/admin/events", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", recorder.Code)
		}
	})
}

func TestMonthAvailabilityEndpoint(t *testing.T) {
	t.Parallel()

	technician := application.Principal{UserID: "tech-1"}

	t.Run("serializes the busy grid", func(t *testing.T) {
		t.Parallel()

		var gotYear, gotMonth int
		service := &stubAgendaService{
			monthAvailability: func(_ context.Context, _ application.Principal, year, month int) ([]scheduler.DayAvailability, error) {
				gotYear, gotMonth = year, month
				return []scheduler.DayAvailability{
					{Date: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), MorningBusy: true, AfternoonBusy: true, FullDayBusy: true},
				}, nil
			},
		}
		router := newTestRouter(t, service, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/availability/month?year=2026&month=3", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if gotYear != 2026 || gotMonth != 3 {
			t.Fatalf("expected query forwarded, got %d-%d", gotYear, gotMonth)
		}
		body := decodeBody(t, recorder)
		days := body["days"].([]any)
		day := days[0].(map[string]any)
		if day["date"] != "2026-03-05" || day["full_day_busy"] != true {
			t.Fatalf("unexpected day payload %v", day)
		}
	})

	t.Run("non numeric query is rejected", func(t *testing.T) {
		t.Parallel()

		router := newTestRouter(t, &stubAgendaService{}, technician)

		req := httptest.NewRequest(http.MethodGet, "/agenda/availability/month?year=x&month=3", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", recorder.Code)
		}
	})
}
