package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/debtflyhq/debtfly/internal/types"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", ""},
		{"valid token", "Bearer abc123", "abc123"},
		{"trims whitespace", "Bearer   abc123  ", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"lowercase scheme rejected", "bearer abc123", ""},
		{"bare token", "abc123", ""},
		{"prefix only", "Bearer ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlowMiddleware(t *testing.T) {
	var got types.FlowID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = r.Context().Value(flowKey).(types.FlowID)
	})

	handler := FlowMiddleware(types.FlowPlan)(next)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/steps", nil))

	if got != types.FlowPlan {
		t.Errorf("flow in context = %q, want plan", got)
	}
}

func TestSessionMiddleware(t *testing.T) {
	parse := func(token string) (string, error) {
		if token == "good" {
			return "jane@example.com", nil
		}
		return "", errors.New("bad token")
	}

	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = SessionEmail(r.Context())
	})
	handler := SessionMiddleware(parse)(next)

	t.Run("valid token passes email through", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
		if gotEmail != "jane@example.com" {
			t.Errorf("email = %q", gotEmail)
		}
	})

	t.Run("invalid token gets 401 problem", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("Content-Type = %q", ct)
		}
	})

	t.Run("missing header gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestSessionEmail_Unset(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if email := SessionEmail(r.Context()); email != "" {
		t.Errorf("email = %q, want empty", email)
	}
}
