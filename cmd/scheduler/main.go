package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/fieldvisit-scheduler/internal/application"
	"github.com/example/fieldvisit-scheduler/internal/config"
	httptransport "github.com/example/fieldvisit-scheduler/internal/http"
	"github.com/example/fieldvisit-scheduler/internal/persistence"
	"github.com/example/fieldvisit-scheduler/internal/persistence/sqlite"
	"github.com/example/fieldvisit-scheduler/internal/scheduler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	entries := newEventStoreAdapter(sqlite.NewCalendarEntryRepository(storage))
	visits := newVisitStoreAdapter(sqlite.NewVisitRepository(storage))
	users := newUserDirectoryAdapter(sqlite.NewUserDirectory(storage))

	agendaService := application.NewAgendaServiceWithLogger(entries, visits, users, idGenerator, now, logger)

	verifier := httptransport.NewTokenVerifier([]byte(cfg.AuthSecret))
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Agenda: httptransport.NewAgendaHandler(agendaService, logger),
		Health: httptransport.NewHealthHandler(storage, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RequireAuth(verifier, logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("agenda API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type userDirectoryAdapter struct {
	repo persistence.UserDirectory
}

func newUserDirectoryAdapter(repo persistence.UserDirectory) *userDirectoryAdapter {
	return &userDirectoryAdapter{repo: repo}
}

func (a *userDirectoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return application.User{ID: stored.ID, DisplayName: stored.DisplayName, IsAdmin: stored.IsAdmin}, nil
}

func (a *userDirectoryAdapter) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	return a.repo.DisplayNames(ctx, ids)
}

type visitStoreAdapter struct {
	repo persistence.VisitRepository
}

func newVisitStoreAdapter(repo persistence.VisitRepository) *visitStoreAdapter {
	return &visitStoreAdapter{repo: repo}
}

func (a *visitStoreAdapter) GetVisit(ctx context.Context, id string) (scheduler.Visit, error) {
	stored, err := a.repo.GetVisit(ctx, id)
	if err != nil {
		return scheduler.Visit{}, err
	}
	return toSchedulerVisit(stored), nil
}

func (a *visitStoreAdapter) ListRealizedInRange(ctx context.Context, technicianID string, from, to time.Time) ([]scheduler.Visit, error) {
	models, err := a.repo.ListRealizedInRange(ctx, technicianID, from, to)
	if err != nil {
		return nil, err
	}
	return toSchedulerVisits(models), nil
}

func (a *visitStoreAdapter) ListScheduledInRange(ctx context.Context, technicianID string, from, to time.Time) ([]scheduler.Visit, error) {
	models, err := a.repo.ListScheduledInRange(ctx, technicianID, from, to)
	if err != nil {
		return nil, err
	}
	return toSchedulerVisits(models), nil
}

func (a *visitStoreAdapter) ListScheduled(ctx context.Context, technicianID string) ([]scheduler.Visit, error) {
	models, err := a.repo.ListScheduled(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	return toSchedulerVisits(models), nil
}

type eventStoreAdapter struct {
	repo persistence.CalendarEntryRepository
}

func newEventStoreAdapter(repo persistence.CalendarEntryRepository) *eventStoreAdapter {
	return &eventStoreAdapter{repo: repo}
}

func (a *eventStoreAdapter) CreateEntry(ctx context.Context, entry scheduler.CalendarEntry) (scheduler.CalendarEntry, error) {
	stored, err := a.repo.CreateEntry(ctx, toPersistenceEntry(entry))
	if err != nil {
		return scheduler.CalendarEntry{}, err
	}
	return toSchedulerEntry(stored), nil
}

func (a *eventStoreAdapter) UpdateEntry(ctx context.Context, entry scheduler.CalendarEntry) (scheduler.CalendarEntry, error) {
	stored, err := a.repo.UpdateEntry(ctx, toPersistenceEntry(entry))
	if err != nil {
		return scheduler.CalendarEntry{}, err
	}
	return toSchedulerEntry(stored), nil
}

func (a *eventStoreAdapter) GetEntry(ctx context.Context, id string) (scheduler.CalendarEntry, error) {
	stored, err := a.repo.GetEntry(ctx, id)
	if err != nil {
		return scheduler.CalendarEntry{}, err
	}
	return toSchedulerEntry(stored), nil
}

func (a *eventStoreAdapter) DeleteEntry(ctx context.Context, id string) error {
	return a.repo.DeleteEntry(ctx, id)
}

func (a *eventStoreAdapter) GetEntryByVisit(ctx context.Context, visitID string) (scheduler.CalendarEntry, error) {
	stored, err := a.repo.GetEntryByVisit(ctx, visitID)
	if err != nil {
		return scheduler.CalendarEntry{}, err
	}
	return toSchedulerEntry(stored), nil
}

func (a *eventStoreAdapter) ListEntries(ctx context.Context, technicianID string) ([]scheduler.CalendarEntry, error) {
	models, err := a.repo.ListEntries(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	return toSchedulerEntries(models), nil
}

func (a *eventStoreAdapter) ListEntriesByDate(ctx context.Context, technicianID string, date time.Time) ([]scheduler.CalendarEntry, error) {
	models, err := a.repo.ListEntriesByDate(ctx, technicianID, date)
	if err != nil {
		return nil, err
	}
	return toSchedulerEntries(models), nil
}

func (a *eventStoreAdapter) ListEntriesByDateAndShift(ctx context.Context, technicianID string, date time.Time, shift scheduler.Shift) ([]scheduler.CalendarEntry, error) {
	models, err := a.repo.ListEntriesByDateAndShift(ctx, technicianID, date, string(shift))
	if err != nil {
		return nil, err
	}
	return toSchedulerEntries(models), nil
}

func (a *eventStoreAdapter) ListEntriesInRange(ctx context.Context, technicianID string, from, to time.Time) ([]scheduler.CalendarEntry, error) {
	models, err := a.repo.ListEntriesInRange(ctx, technicianID, from, to)
	if err != nil {
		return nil, err
	}
	return toSchedulerEntries(models), nil
}

func toSchedulerVisit(model persistence.Visit) scheduler.Visit {
	visit := scheduler.Visit{
		ID:            model.ID,
		TechnicianID:  model.TechnicianID,
		CompanyID:     model.CompanyID,
		CompanyName:   model.CompanyName,
		UnitName:      derefString(model.UnitName),
		SectorName:    derefString(model.SectorName),
		VisitDate:     model.VisitDate,
		StartTime:     model.StartTime,
		EndTime:       model.EndTime,
		NextVisitDate: cloneTime(model.NextVisitDate),
	}
	if model.NextVisitShift != nil {
		// Stored values passed the schema CHECK constraint.
		shift := scheduler.Shift(*model.NextVisitShift)
		visit.NextVisitShift = &shift
	}
	return visit
}

func toSchedulerVisits(models []persistence.Visit) []scheduler.Visit {
	if len(models) == 0 {
		return nil
	}
	visits := make([]scheduler.Visit, 0, len(models))
	for _, model := range models {
		visits = append(visits, toSchedulerVisit(model))
	}
	return visits
}

func toSchedulerEntry(model persistence.CalendarEntry) scheduler.CalendarEntry {
	return scheduler.CalendarEntry{
		ID:           model.ID,
		TechnicianID: model.TechnicianID,
		Kind:         scheduler.EntryKind(model.Kind),
		Title:        model.Title,
		Description:  model.Description,
		EventDate:    model.EventDate,
		Shift:        scheduler.Shift(model.Shift),
		VisitID:      cloneString(model.VisitID),
		OriginalDate: cloneTime(model.OriginalDate),
		ClientName:   derefString(model.ClientName),
		Observation:  derefString(model.Observation),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toSchedulerEntries(models []persistence.CalendarEntry) []scheduler.CalendarEntry {
	if len(models) == 0 {
		return nil
	}
	entries := make([]scheduler.CalendarEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toSchedulerEntry(model))
	}
	return entries
}

func toPersistenceEntry(entry scheduler.CalendarEntry) persistence.CalendarEntry {
	return persistence.CalendarEntry{
		ID:           entry.ID,
		TechnicianID: entry.TechnicianID,
		Kind:         string(entry.Kind),
		Title:        entry.Title,
		Description:  entry.Description,
		EventDate:    entry.EventDate,
		Shift:        string(entry.Shift),
		VisitID:      cloneString(entry.VisitID),
		OriginalDate: cloneTime(entry.OriginalDate),
		ClientName:   optionalString(entry.ClientName),
		Observation:  optionalString(entry.Observation),
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
