package auth

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// EmailSender delivers a magic link to an address. Implementations may
// block; they must honor context cancellation.
type EmailSender interface {
	SendLink(ctx context.Context, email, link string) error
}

// SimulatedSender stands in for a real email provider. It logs the link and
// sleeps a bounded pseudo-random interval to imitate provider latency.
// Cancelled sends abandon cleanly and report the context error.
type SimulatedSender struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewSimulatedSender creates a sender with the given latency bounds. Zero
// bounds disable the delay entirely, which is what tests want.
func NewSimulatedSender(minDelay, maxDelay time.Duration) *SimulatedSender {
	return &SimulatedSender{MinDelay: minDelay, MaxDelay: maxDelay}
}

// SendLink logs the link in place of delivering it.
func (s *SimulatedSender) SendLink(ctx context.Context, email, link string) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}
	slog.Info("magic link issued",
		"component", "auth",
		"email", email,
		"link", link,
	)
	return nil
}

func (s *SimulatedSender) sleep(ctx context.Context) error {
	delay := s.MinDelay
	if s.MaxDelay > s.MinDelay {
		delay += time.Duration(rand.Int63n(int64(s.MaxDelay - s.MinDelay)))
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
