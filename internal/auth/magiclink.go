// Package auth implements passwordless login: single-use magic-link tokens
// persisted in the store, delivered through an EmailSender, exchanged for a
// signed session token on verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/debtflyhq/debtfly/internal/store"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	ErrTokenExpired = errors.New("magic link expired")
	ErrTokenUsed    = errors.New("magic link already used")
)

// Service issues and verifies magic links.
type Service struct {
	store  store.Store
	sender EmailSender
	cfg    Config
	now    func() time.Time
}

// NewService creates a magic-link service.
func NewService(s store.Store, sender EmailSender, cfg Config) *Service {
	return &Service{
		store:  s,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Test seam.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SendLink issues a fresh single-use token for the address, persists it, and
// hands the link to the sender. Returns the link so dev mode can surface it
// without email delivery. The token expires after the configured TTL.
func (s *Service) SendLink(ctx context.Context, email string) (string, time.Time, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", time.Time{}, ErrInvalidEmail
	}
	addr := strings.ToLower(parsed.Address)

	now := s.now().UTC()
	expiresAt := now.Add(s.cfg.TTL)
	token := ulid.Make().String()

	if err := s.store.PutMagicLink(ctx, store.MagicLink{
		Token:     token,
		Email:     addr,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", time.Time{}, fmt.Errorf("store magic link: %w", err)
	}

	link, err := buildLinkURL(s.cfg.BaseURL, token)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build magic link url: %w", err)
	}

	if err := s.sender.SendLink(ctx, addr, link); err != nil {
		return "", time.Time{}, fmt.Errorf("send magic link: %w", err)
	}

	return link, expiresAt, nil
}

// Verify checks a token and, when valid, invalidates it and returns the
// email it was issued for. Expired and already-used tokens are terminal for
// that token; the client must request a new link.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", store.ErrTokenNotFound
	}

	link, err := s.store.GetMagicLink(ctx, token)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	if link.UsedAt != nil {
		return "", ErrTokenUsed
	}
	if now.After(link.ExpiresAt) {
		return "", ErrTokenExpired
	}

	if err := s.store.MarkMagicLinkUsed(ctx, token, now); err != nil {
		return "", fmt.Errorf("mark magic link used: %w", err)
	}
	return link.Email, nil
}

func buildLinkURL(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
