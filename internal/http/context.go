package http

import (
	"context"
	"log/slog"

	"github.com/example/fieldvisit-scheduler/internal/application"
	"github.com/example/fieldvisit-scheduler/internal/logging"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	entryIDContextKey   contextKey = "entry_id"
	visitIDContextKey   contextKey = "visit_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithEntryID injects the calendar entry identifier resolved from the request path.
func ContextWithEntryID(ctx context.Context, entryID string) context.Context {
	return context.WithValue(ctx, entryIDContextKey, entryID)
}

// EntryIDFromContext extracts a calendar entry identifier previously associated with the context.
func EntryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(entryIDContextKey).(string)
	return id, ok
}

// ContextWithVisitID injects the visit identifier resolved from the request path.
func ContextWithVisitID(ctx context.Context, visitID string) context.Context {
	return context.WithValue(ctx, visitIDContextKey, visitID)
}

// VisitIDFromContext extracts a visit identifier previously associated with the context.
func VisitIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(visitIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request scoped logger, if any.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
