package store

import (
	"context"
	"sync"
	"time"

	"github.com/debtflyhq/debtfly/internal/types"
)

// MemoryStore is an in-memory Store used by tests and the ephemeral demo
// mode. The mutex is belt-and-braces; the service assumes a single logical
// user.
type MemoryStore struct {
	mu    sync.RWMutex
	steps map[types.FlowID]map[string][]byte
	meta  map[types.FlowID]*FlowMeta
	links map[string]*MagicLink
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		steps: make(map[types.FlowID]map[string][]byte),
		meta:  make(map[types.FlowID]*FlowMeta),
		links: make(map[string]*MagicLink),
	}
}

func (s *MemoryStore) PutStep(_ context.Context, flowID types.FlowID, step string, payload []byte, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.steps[flowID] == nil {
		s.steps[flowID] = make(map[string][]byte)
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	s.steps[flowID][step] = buf
	return nil
}

func (s *MemoryStore) GetStep(_ context.Context, flowID types.FlowID, step string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.steps[flowID][step]
	if !ok {
		return nil, ErrNotFound
	}
	return payload, nil
}

func (s *MemoryStore) ListSteps(_ context.Context, flowID types.FlowID) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(s.steps[flowID]))
	for name, payload := range s.steps[flowID] {
		out[name] = payload
	}
	return out, nil
}

func (s *MemoryStore) DeleteFlow(_ context.Context, flowID types.FlowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.steps, flowID)
	delete(s.meta, flowID)
	return nil
}

func (s *MemoryStore) GetFlowMeta(_ context.Context, flowID types.FlowID) (*FlowMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if meta, ok := s.meta[flowID]; ok {
		copied := *meta
		return &copied, nil
	}
	return &FlowMeta{FlowID: flowID}, nil
}

func (s *MemoryStore) SetFurthestStep(_ context.Context, flowID types.FlowID, step string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.meta[flowID]
	if meta == nil {
		meta = &FlowMeta{FlowID: flowID}
		s.meta[flowID] = meta
	}
	meta.FurthestStep = step
	return nil
}

func (s *MemoryStore) MarkFlowComplete(_ context.Context, flowID types.FlowID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.meta[flowID]
	if meta == nil {
		meta = &FlowMeta{FlowID: flowID}
		s.meta[flowID] = meta
	}
	completed := at.UTC()
	meta.CompletedAt = &completed
	return nil
}

func (s *MemoryStore) PutMagicLink(_ context.Context, link MagicLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := link
	s.links[link.Token] = &copied
	return nil
}

func (s *MemoryStore) GetMagicLink(_ context.Context, token string) (*MagicLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.links[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	copied := *link
	return &copied, nil
}

func (s *MemoryStore) MarkMagicLinkUsed(_ context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link, ok := s.links[token]
	if !ok {
		return ErrTokenNotFound
	}
	used := at.UTC()
	link.UsedAt = &used
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
