package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/debtflyhq/debtfly/internal/types"
)

type contextKey string

// sessionEmailKey carries the verified email of the authenticated session.
const sessionEmailKey contextKey = "session_email"

// flowKey carries the flow a route group operates on.
const flowKey contextKey = "flow"

// FlowMiddleware pins the flow for a route group. Splitting the mounts this
// way lets the plan flow sit behind session auth while the public flow stays
// open, with one shared handler set.
func FlowMiddleware(flowID types.FlowID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), flowKey, flowID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionEmail returns the verified email on an authenticated request, or
// empty.
func SessionEmail(ctx context.Context) string {
	email, _ := ctx.Value(sessionEmailKey).(string)
	return email
}

// extractBearerToken extracts the token from Authorization header.
// Returns empty string for missing/malformed headers.
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	// Must start with "Bearer " (case-sensitive per RFC 6750)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}

// SessionMiddleware validates the Bearer session token minted at magic-link
// verification and stores the verified email in the request context.
// Returns 401 RFC 7807 Problem Details on failure.
func SessionMiddleware(parse func(token string) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			email, err := parse(token)
			if err != nil {
				slog.Warn("session auth failure",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_ip", r.RemoteAddr,
				)
				WriteProblem(w, r, http.StatusUnauthorized, "Missing or invalid session token")
				return
			}
			ctx := context.WithValue(r.Context(), sessionEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
