package store

import (
	"context"
	"time"

	"github.com/debtflyhq/debtfly/internal/types"
)

// FlowMeta holds per-flow bookkeeping separate from the step payloads.
type FlowMeta struct {
	FlowID       types.FlowID `json:"flow_id"`
	FurthestStep string       `json:"furthest_step"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// MagicLink is a persisted single-use login token.
type MagicLink struct {
	Token     string     `json:"token"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// Store defines the persistence contract for the step ledger and the
// magic-link token table. Implementations are last-write-wins per
// (flow, step) key; the service assumes a single logical user.
type Store interface {
	PutStep(ctx context.Context, flowID types.FlowID, step string, payload []byte, savedAt time.Time) error
	GetStep(ctx context.Context, flowID types.FlowID, step string) ([]byte, error)
	ListSteps(ctx context.Context, flowID types.FlowID) (map[string][]byte, error)
	DeleteFlow(ctx context.Context, flowID types.FlowID) error

	GetFlowMeta(ctx context.Context, flowID types.FlowID) (*FlowMeta, error)
	SetFurthestStep(ctx context.Context, flowID types.FlowID, step string) error
	MarkFlowComplete(ctx context.Context, flowID types.FlowID, at time.Time) error

	PutMagicLink(ctx context.Context, link MagicLink) error
	GetMagicLink(ctx context.Context, token string) (*MagicLink, error)
	MarkMagicLinkUsed(ctx context.Context, token string, at time.Time) error

	Close() error
}
