package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/debtflyhq/debtfly/internal/types"
)

// SQLiteStore is the SQLite-backed ledger and token store.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath, applies
// pragmas, and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PutStep stores or overwrites a step payload. Last write wins.
func (s *SQLiteStore) PutStep(ctx context.Context, flowID types.FlowID, step string, payload []byte, savedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flow_steps (flow_id, step_name, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(flow_id, step_name) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`, string(flowID), step, payload, savedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put step %s/%s: %w", flowID, step, err)
	}
	return nil
}

// GetStep returns the payload for a step, or ErrNotFound when absent.
func (s *SQLiteStore) GetStep(ctx context.Context, flowID types.FlowID, step string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM flow_steps WHERE flow_id = ? AND step_name = ?",
		string(flowID), step,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get step %s/%s: %w", flowID, step, err)
	}
	return payload, nil
}

// ListSteps returns every stored payload for a flow keyed by step name.
func (s *SQLiteStore) ListSteps(ctx context.Context, flowID types.FlowID) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT step_name, payload FROM flow_steps WHERE flow_id = ?",
		string(flowID),
	)
	if err != nil {
		return nil, fmt.Errorf("list steps %s: %w", flowID, err)
	}
	defer rows.Close()

	steps := make(map[string][]byte)
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan step row: %w", err)
		}
		steps[name] = payload
	}
	return steps, rows.Err()
}

// DeleteFlow removes every payload and the meta row for a flow.
func (s *SQLiteStore) DeleteFlow(ctx context.Context, flowID types.FlowID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete flow: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM flow_steps WHERE flow_id = ?", string(flowID)); err != nil {
		return fmt.Errorf("delete flow steps: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM flow_meta WHERE flow_id = ?", string(flowID)); err != nil {
		return fmt.Errorf("delete flow meta: %w", err)
	}
	return tx.Commit()
}

// GetFlowMeta returns the flow's bookkeeping row, or a zero-value meta when
// the flow has never been written.
func (s *SQLiteStore) GetFlowMeta(ctx context.Context, flowID types.FlowID) (*FlowMeta, error) {
	var meta FlowMeta
	var completedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT furthest_step, completed_at FROM flow_meta WHERE flow_id = ?",
		string(flowID),
	).Scan(&meta.FurthestStep, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &FlowMeta{FlowID: flowID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get flow meta %s: %w", flowID, err)
	}

	meta.FlowID = flowID
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		meta.CompletedAt = &t
	}
	return &meta, nil
}

// SetFurthestStep records the furthest step reached for a flow.
func (s *SQLiteStore) SetFurthestStep(ctx context.Context, flowID types.FlowID, step string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flow_meta (flow_id, furthest_step)
		VALUES (?, ?)
		ON CONFLICT(flow_id) DO UPDATE SET furthest_step = excluded.furthest_step
	`, string(flowID), step)
	if err != nil {
		return fmt.Errorf("set furthest step %s/%s: %w", flowID, step, err)
	}
	return nil
}

// MarkFlowComplete sets the terminal completion flag for a flow.
func (s *SQLiteStore) MarkFlowComplete(ctx context.Context, flowID types.FlowID, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flow_meta (flow_id, furthest_step, completed_at)
		VALUES (?, '', ?)
		ON CONFLICT(flow_id) DO UPDATE SET completed_at = excluded.completed_at
	`, string(flowID), at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("mark flow complete %s: %w", flowID, err)
	}
	return nil
}

// PutMagicLink persists a login token.
func (s *SQLiteStore) PutMagicLink(ctx context.Context, link MagicLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO magic_links (token, email, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, link.Token, link.Email,
		link.CreatedAt.UTC().Format(time.RFC3339),
		link.ExpiresAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put magic link: %w", err)
	}
	return nil
}

// GetMagicLink returns a token row, or ErrTokenNotFound.
func (s *SQLiteStore) GetMagicLink(ctx context.Context, token string) (*MagicLink, error) {
	var link MagicLink
	var createdAt, expiresAt string
	var usedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT token, email, created_at, expires_at, used_at FROM magic_links WHERE token = ?",
		token,
	).Scan(&link.Token, &link.Email, &createdAt, &expiresAt, &usedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get magic link: %w", err)
	}

	if link.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if link.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt); err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	if usedAt.Valid {
		t, err := time.Parse(time.RFC3339, usedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse used_at: %w", err)
		}
		link.UsedAt = &t
	}
	return &link, nil
}

// MarkMagicLinkUsed invalidates a token after its first successful
// verification.
func (s *SQLiteStore) MarkMagicLinkUsed(ctx context.Context, token string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE magic_links SET used_at = ? WHERE token = ?",
		at.UTC().Format(time.RFC3339), token,
	)
	if err != nil {
		return fmt.Errorf("mark magic link used: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark magic link used: %w", err)
	}
	if affected == 0 {
		return ErrTokenNotFound
	}
	return nil
}
