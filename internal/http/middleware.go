package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/fieldvisit-scheduler/internal/application"
)

// AccessClaims is the bearer token payload issued by the identity service.
// The subject carries the technician id.
type AccessClaims struct {
	DisplayName string `json:"name,omitempty"`
	Admin       bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HMAC signed bearer tokens and derives the acting
// principal from their claims.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier constructs a verifier over the shared signing secret.
func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

// Verify parses and validates the token. Tokens signed with anything other
// than an HMAC method are rejected outright.
func (v *TokenVerifier) Verify(token string) (application.Principal, error) {
	if v == nil || len(v.secret) == 0 {
		return application.Principal{}, fmt.Errorf("token verifier not configured")
	}

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return application.Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return application.Principal{}, fmt.Errorf("invalid token")
	}

	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return application.Principal{}, fmt.Errorf("token has no subject")
	}

	return application.Principal{UserID: subject, IsAdmin: claims.Admin}, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// derived principal on the request context.
func RequireAuth(verifier *TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				responder.loggerFor(r.Context()).InfoContext(r.Context(), "rejected bearer token", "error", err)
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					Message: "The authentication token is invalid or expired.",
				})
				return
			}

			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger attaches a request scoped logger to the context and records
// request timing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, prefix))
	}
	return ""
}
