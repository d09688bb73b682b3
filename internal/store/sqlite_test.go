package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/debtflyhq/debtfly/internal/types"
)

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "debtfly.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.PutStep(ctx, types.FlowPublic, "contact", []byte(`{"first_name":"Jane"}`), testNow); err != nil {
		t.Fatalf("put step: %v", err)
	}
	if err := s.SetFurthestStep(ctx, types.FlowPublic, "contact"); err != nil {
		t.Fatalf("set furthest: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Reopening runs migrations again; they must be idempotent.
	s, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()

	got, err := s.GetStep(ctx, types.FlowPublic, "contact")
	if err != nil {
		t.Fatalf("get step after reopen: %v", err)
	}
	if string(got) != `{"first_name":"Jane"}` {
		t.Errorf("payload = %s, want persisted value", got)
	}

	meta, err := s.GetFlowMeta(ctx, types.FlowPublic)
	if err != nil {
		t.Fatalf("get meta after reopen: %v", err)
	}
	if meta.FurthestStep != "contact" {
		t.Errorf("furthest = %q, want 'contact'", meta.FurthestStep)
	}
}

func TestSQLiteStore_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "debtfly.db")

	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open store with nested path: %v", err)
	}
	defer s.Close()
}
