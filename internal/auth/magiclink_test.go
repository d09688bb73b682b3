package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/debtflyhq/debtfly/internal/store"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// recordingSender captures sent links without delay.
type recordingSender struct {
	email string
	link  string
	fail  error
}

func (r *recordingSender) SendLink(_ context.Context, email, link string) error {
	if r.fail != nil {
		return r.fail
	}
	r.email = email
	r.link = link
	return nil
}

func newTestService(sender EmailSender) *Service {
	return NewService(store.NewMemoryStore(), sender, Config{
		BaseURL: "http://localhost:8080/verify",
		TTL:     time.Hour,
	}).WithClock(func() time.Time { return testNow })
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link %q: %v", link, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("link %q has no token parameter", link)
	}
	return token
}

func TestSendLink(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(sender)

	link, expiresAt, err := svc.SendLink(context.Background(), "Jane@Example.com")
	if err != nil {
		t.Fatalf("send link: %v", err)
	}

	if sender.email != "jane@example.com" {
		t.Errorf("sent to %q, want lowercased address", sender.email)
	}
	if sender.link != link {
		t.Errorf("sender link = %q, want %q", sender.link, link)
	}
	if !strings.HasPrefix(link, "http://localhost:8080/verify?") {
		t.Errorf("link = %q, want base URL prefix", link)
	}
	if want := testNow.Add(time.Hour); !expiresAt.Equal(want) {
		t.Errorf("expires at = %v, want %v", expiresAt, want)
	}
}

func TestSendLink_InvalidEmail(t *testing.T) {
	svc := newTestService(&recordingSender{})

	for _, email := range []string{"", "not-an-email", "jane@", "@example.com"} {
		_, _, err := svc.SendLink(context.Background(), email)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("SendLink(%q) error = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestSendLink_SenderFailure(t *testing.T) {
	svc := newTestService(&recordingSender{fail: errors.New("smtp down")})

	_, _, err := svc.SendLink(context.Background(), "jane@example.com")
	if err == nil {
		t.Fatal("expected error when sender fails, got nil")
	}
}

func TestVerify(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(sender)
	ctx := context.Background()

	link, _, err := svc.SendLink(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("send link: %v", err)
	}
	token := tokenFromLink(t, link)

	email, err := svc.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if email != "jane@example.com" {
		t.Errorf("email = %q, want 'jane@example.com'", email)
	}
}

func TestVerify_SingleUse(t *testing.T) {
	svc := newTestService(&recordingSender{})
	ctx := context.Background()

	link, _, err := svc.SendLink(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("send link: %v", err)
	}
	token := tokenFromLink(t, link)

	if _, err := svc.Verify(ctx, token); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, err := svc.Verify(ctx, token); !errors.Is(err, ErrTokenUsed) {
		t.Errorf("second verify error = %v, want ErrTokenUsed", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	clock := testNow
	svc := NewService(store.NewMemoryStore(), &recordingSender{}, Config{
		BaseURL: "http://localhost:8080/verify",
		TTL:     time.Hour,
	}).WithClock(func() time.Time { return clock })
	ctx := context.Background()

	link, _, err := svc.SendLink(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("send link: %v", err)
	}
	token := tokenFromLink(t, link)

	// Just inside the TTL still verifies; just past it does not.
	clock = testNow.Add(time.Hour)
	if _, err := svc.Verify(ctx, token); err != nil {
		t.Fatalf("verify at TTL boundary: %v", err)
	}

	link, _, err = svc.SendLink(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("send second link: %v", err)
	}
	token = tokenFromLink(t, link)

	clock = clock.Add(time.Hour + time.Second)
	if _, err := svc.Verify(ctx, token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("verify error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_UnknownToken(t *testing.T) {
	svc := newTestService(&recordingSender{})

	for _, token := range []string{"", "   ", "01HV3E8ZJW0000000000000000"} {
		_, err := svc.Verify(context.Background(), token)
		if !errors.Is(err, store.ErrTokenNotFound) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenNotFound", token, err)
		}
	}
}

func TestSendLink_TokensAreUnique(t *testing.T) {
	svc := newTestService(&recordingSender{})
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		link, _, err := svc.SendLink(ctx, "jane@example.com")
		if err != nil {
			t.Fatalf("send link: %v", err)
		}
		token := tokenFromLink(t, link)
		if seen[token] {
			t.Fatalf("duplicate token issued: %s", token)
		}
		seen[token] = true
	}
}
