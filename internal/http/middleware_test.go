package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/fieldvisit-scheduler/internal/application"
)

var testSigningSecret = []byte("test-signing-secret")

func signToken(t *testing.T, claims AccessClaims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(subject string, admin bool) AccessClaims {
	return AccessClaims{
		DisplayName: "Dana Silva",
		Admin:       admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestTokenVerifier(t *testing.T) {
	t.Parallel()

	verifier := NewTokenVerifier(testSigningSecret)

	t.Run("accepts a valid token and derives the principal", func(t *testing.T) {
		t.Parallel()

		token := signToken(t, validClaims("tech-1", true), testSigningSecret)

		principal, err := verifier.Verify(token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if principal.UserID != "tech-1" || !principal.IsAdmin {
			t.Fatalf("unexpected principal %+v", principal)
		}
	})

	t.Run("rejects a token signed with the wrong secret", func(t *testing.T) {
		t.Parallel()

		token := signToken(t, validClaims("tech-1", false), []byte("other-secret"))

		if _, err := verifier.Verify(token); err == nil {
			t.Fatal("expected verification to fail")
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		t.Parallel()

		claims := validClaims("tech-1", false)
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		token := signToken(t, claims, testSigningSecret)

		if _, err := verifier.Verify(token); err == nil {
			t.Fatal("expected verification to fail")
		}
	})

	t.Run("rejects tokens without an HMAC signature", func(t *testing.T) {
		t.Parallel()

		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("tech-1", false)).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("build unsigned token: %v", err)
		}

		if _, err := verifier.Verify(token); err == nil {
			t.Fatal("expected verification to fail")
		}
	})

	t.Run("rejects tokens without a subject", func(t *testing.T) {
		t.Parallel()

		claims := validClaims("", false)
		token := signToken(t, claims, testSigningSecret)

		if _, err := verifier.Verify(token); err == nil {
			t.Fatal("expected verification to fail")
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	verifier := NewTokenVerifier(testSigningSecret)

	t.Run("rejects requests without credentials", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			header string
		}{
			{name: "missing header"},
			{name: "wrong scheme", header: "Basic dXNlcjpwYXNz"},
			{name: "malformed bearer", header: "Bearer not-a-token"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				handler := RequireAuth(verifier, logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
					t.Fatal("next handler should not be called when authentication fails")
				}))

				req := httptest.NewRequest(http.MethodGet, "/agenda/events", nil)
				if tc.header != "" {
					req.Header.Set("Authorization", tc.header)
				}
				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, req)

				if recorder.Code != http.StatusUnauthorized {
					t.Fatalf("expected 401, got %d", recorder.Code)
				}
			})
		}
	})

	t.Run("attaches the principal to the request context", func(t *testing.T) {
		t.Parallel()

		var captured application.Principal
		handler := RequireAuth(verifier, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				t.Fatal("expected principal in request context")
			}
			captured = principal
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/agenda/events", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("tech-1", false), testSigningSecret))
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if captured.UserID != "tech-1" || captured.IsAdmin {
			t.Fatalf("unexpected principal %+v", captured)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) == nil {
			t.Fatal("expected request scoped logger in context")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/agenda/events", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	logged := buf.String()
	for _, fragment := range []string{"request started", "request completed", "/agenda/events"} {
		if !bytes.Contains([]byte(logged), []byte(fragment)) {
			t.Fatalf("expected log output to contain %q, got %s", fragment, logged)
		}
	}
}
