package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/example/fieldvisit-scheduler/internal/application"
	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

type agendaService interface {
	CheckAvailability(ctx context.Context, principal application.Principal, date time.Time, shift string) (string, error)
	ValidateReportSubmission(ctx context.Context, params application.ValidateReportParams) error
	CreateEvent(ctx context.Context, params application.CreateEventParams) (scheduler.CalendarEntry, error)
	UpdateEvent(ctx context.Context, params application.UpdateEventParams) (scheduler.CalendarEntry, error)
	DeleteEvent(ctx context.Context, principal application.Principal, entryID string) error
	RescheduleVisit(ctx context.Context, params application.RescheduleVisitParams) (scheduler.CalendarEntry, error)
	ListTimeline(ctx context.Context, principal application.Principal) ([]scheduler.TimelineEntry, error)
	ListTimelineGlobal(ctx context.Context, principal application.Principal, technicianID string) ([]scheduler.TimelineEntry, error)
	MonthAvailability(ctx context.Context, principal application.Principal, year, month int) ([]scheduler.DayAvailability, error)
}

// AgendaHandler exposes the agenda operations over HTTP.
type AgendaHandler struct {
	service   agendaService
	validate  *validator.Validate
	responder responder
	logger    *slog.Logger
}

// NewAgendaHandler constructs an agenda handler.
func NewAgendaHandler(service agendaService, logger *slog.Logger) *AgendaHandler {
	logger = defaultLogger(logger)
	return &AgendaHandler{
		service:   service,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		responder: newResponder(logger),
		logger:    logger,
	}
}

// CheckAvailability answers the advisory slot pre-check. A free slot returns
// 204; an occupied one returns 409 carrying the warning text.
func (h *AgendaHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	date, err := parseDate(query.Get("date"))
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	warning, err := h.service.CheckAvailability(r.Context(), principal, date, query.Get("shift"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if warning == "" {
		h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusConflict, errorResponse{
		ErrorCode: "SLOT_OCCUPIED",
		Message:   warning,
	})
}

// ListTimeline returns the principal's merged agenda.
func (h *AgendaHandler) ListTimeline(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	timeline, err := h.service.ListTimeline(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, timelineResponse{Events: toTimelineDTOs(timeline)})
}

// ListTimelineGlobal returns the agenda across technicians. Admin only; the
// optional technician query parameter narrows the result.
func (h *AgendaHandler) ListTimelineGlobal(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	technicianID := strings.TrimSpace(r.URL.Query().Get("technician"))

	timeline, err := h.service.ListTimelineGlobal(r.Context(), principal, technicianID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, timelineResponse{Events: toTimelineDTOs(timeline)})
}

// CreateEvent creates a manual calendar entry.
func (h *AgendaHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if ok := h.validateRequest(w, r, req); !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	entry, err := h.service.CreateEvent(r.Context(), application.CreateEventParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "agenda", "create_event", "entry_id", entry.ID).
		InfoContext(r.Context(), "calendar entry created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventResponse{Event: toEntryDTO(entry)})
}

// UpdateEvent rewrites an existing entry owned by the principal.
func (h *AgendaHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	// Kind never changes through updates; fill a placeholder so the shared
	// struct validation passes.
	if req.Kind == "" {
		req.Kind = string(scheduler.KindGeneric)
	}
	if ok := h.validateRequest(w, r, req); !ok {
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	entry, err := h.service.UpdateEvent(r.Context(), application.UpdateEventParams{
		Principal: principal,
		EntryID:   entryID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEntryDTO(entry)})
}

// DeleteEvent removes an entry owned by the principal.
func (h *AgendaHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entryID, ok := EntryIDFromContext(r.Context())
	if !ok || strings.TrimSpace(entryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEntryID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteEvent(r.Context(), principal, entryID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "agenda", "delete_event", "entry_id", entryID).
		InfoContext(r.Context(), "calendar entry deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// RescheduleVisit converts a visit's pending follow-up into a persisted
// entry, or moves the existing one.
func (h *AgendaHandler) RescheduleVisit(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	visitID, ok := VisitIDFromContext(r.Context())
	if !ok || strings.TrimSpace(visitID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidVisitID)
		return
	}

	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if ok := h.validateRequest(w, r, req); !ok {
		return
	}

	newDate, err := parseDate(req.NewDate)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	entry, err := h.service.RescheduleVisit(r.Context(), application.RescheduleVisitParams{
		Principal: principal,
		VisitID:   visitID,
		NewDate:   newDate,
		Shift:     req.Shift,
		Reason:    req.Reason,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "agenda", "reschedule_visit", "visit_id", visitID, "entry_id", entry.ID).
		InfoContext(r.Context(), "visit rescheduled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEntryDTO(entry)})
}

// ValidateReport runs the hard conflict gate for a visit report about to be
// finalised. A clear slot returns 204; a conflict returns 409.
func (h *AgendaHandler) ValidateReport(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	visitID, ok := VisitIDFromContext(r.Context())
	if !ok || strings.TrimSpace(visitID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidVisitID)
		return
	}

	var req validateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if ok := h.validateRequest(w, r, req); !ok {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	err = h.service.ValidateReportSubmission(r.Context(), application.ValidateReportParams{
		Principal: principal,
		VisitID:   visitID,
		Date:      date,
		Shift:     req.Shift,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// MonthAvailability returns the per-day busy grid for one month.
func (h *AgendaHandler) MonthAvailability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	year, errYear := strconv.Atoi(strings.TrimSpace(query.Get("year")))
	month, errMonth := strconv.Atoi(strings.TrimSpace(query.Get("month")))
	if errYear != nil || errMonth != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonthRef)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	days, err := h.service.MonthAvailability(r.Context(), principal, year, month)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, monthAvailabilityResponse{Days: toDayDTOs(days)})
}

// validateRequest runs struct tag validation, writing a 422 on failure.
func (h *AgendaHandler) validateRequest(w http.ResponseWriter, r *http.Request, payload any) bool {
	err := h.validate.Struct(payload)
	if err == nil {
		return true
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return false
	}

	details := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fieldErr := range fieldErrs {
			details[strings.ToLower(fieldErr.Field())] = validationMessage(fieldErr)
		}
	}

	h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
		Message: "The submitted data is invalid.",
		Errors:  details,
	})
	return false
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "datetime":
		return "must use the YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "max":
		return "must be at most " + fieldErr.Param() + " characters"
	default:
		return "is invalid"
	}
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

type eventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Shift       string `json:"shift" validate:"required"`
	Kind        string `json:"kind" validate:"required"`
	ClientName  string `json:"client_name" validate:"max=200"`
	Observation string `json:"observation" validate:"max=2000"`
}

func (r eventRequest) toInput() application.EventInput {
	date, _ := parseDate(r.Date)
	return application.EventInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Date:        date,
		Shift:       r.Shift,
		Kind:        r.Kind,
		ClientName:  strings.TrimSpace(r.ClientName),
		Observation: r.Observation,
	}
}

type rescheduleRequest struct {
	NewDate string `json:"new_date" validate:"required,datetime=2006-01-02"`
	Shift   string `json:"shift" validate:"omitempty,oneof=MORNING AFTERNOON morning afternoon"`
	Reason  string `json:"reason" validate:"max=2000"`
}

type validateReportRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Shift string `json:"shift" validate:"required"`
}

type eventResponse struct {
	Event entryDTO `json:"event"`
}

type timelineResponse struct {
	Events []timelineItemDTO `json:"events"`
}

type monthAvailabilityResponse struct {
	Days []dayAvailabilityDTO `json:"days"`
}

type entryDTO struct {
	ID           string  `json:"id"`
	TechnicianID string  `json:"technician_id"`
	Kind         string  `json:"kind"`
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Date         string  `json:"date"`
	Shift        string  `json:"shift"`
	VisitID      *string `json:"visit_id,omitempty"`
	OriginalDate *string `json:"original_date,omitempty"`
	ClientName   string  `json:"client_name,omitempty"`
	Observation  string  `json:"observation,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toEntryDTO(entry scheduler.CalendarEntry) entryDTO {
	dto := entryDTO{
		ID:           entry.ID,
		TechnicianID: entry.TechnicianID,
		Kind:         string(entry.Kind),
		Title:        entry.Title,
		Description:  entry.Description,
		Date:         entry.EventDate.Format("2006-01-02"),
		Shift:        string(entry.Shift),
		ClientName:   entry.ClientName,
		Observation:  entry.Observation,
		CreatedAt:    entry.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if entry.VisitID != nil {
		id := *entry.VisitID
		dto.VisitID = &id
	}
	if entry.OriginalDate != nil {
		formatted := entry.OriginalDate.Format("2006-01-02")
		dto.OriginalDate = &formatted
	}
	return dto
}

type timelineItemDTO struct {
	ReferenceID     string `json:"reference_id"`
	SourceVisitID   string `json:"source_visit_id,omitempty"`
	Kind            string `json:"kind"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Date            string `json:"date"`
	Shift           string `json:"shift"`
	ClientName      string `json:"client_name,omitempty"`
	UnitName        string `json:"unit_name,omitempty"`
	SectorName      string `json:"sector_name,omitempty"`
	TechnicianID    string `json:"technician_id"`
	ResponsibleName string `json:"responsible_name,omitempty"`
}

func toTimelineDTOs(items []scheduler.TimelineEntry) []timelineItemDTO {
	if len(items) == 0 {
		return nil
	}
	out := make([]timelineItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, timelineItemDTO{
			ReferenceID:     item.ReferenceID,
			SourceVisitID:   item.SourceVisitID,
			Kind:            string(item.Kind),
			Title:           item.Title,
			Description:     item.Description,
			Date:            item.Date.Format("2006-01-02"),
			Shift:           string(item.Shift),
			ClientName:      item.ClientName,
			UnitName:        item.UnitName,
			SectorName:      item.SectorName,
			TechnicianID:    item.TechnicianID,
			ResponsibleName: item.ResponsibleName,
		})
	}
	return out
}

type dayAvailabilityDTO struct {
	Date      string `json:"date"`
	Morning   bool   `json:"morning_busy"`
	Afternoon bool   `json:"afternoon_busy"`
	FullDay   bool   `json:"full_day_busy"`
}

func toDayDTOs(days []scheduler.DayAvailability) []dayAvailabilityDTO {
	if len(days) == 0 {
		return nil
	}
	out := make([]dayAvailabilityDTO, 0, len(days))
	for _, day := range days {
		out = append(out, dayAvailabilityDTO{
			Date:      day.Date.Format("2006-01-02"),
			Morning:   day.MorningBusy,
			Afternoon: day.AfternoonBusy,
			FullDay:   day.FullDayBusy,
		})
	}
	return out
}
