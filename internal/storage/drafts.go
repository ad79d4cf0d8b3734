package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kakeibo/internal/core"

	_ "modernc.org/sqlite"
)

// DraftStore persists in-progress receipts keyed by form slot, so a draft
// survives restarts and several queued drafts (for example OCR-scanned
// receipts awaiting sequential confirmation) can coexist.
type DraftStore struct {
	db *sql.DB
}

func NewDraftStore(dbPath string) (*DraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DraftStore{db: db}, nil
}

func (s *DraftStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save serializes the receipt and upserts it under key. The payload is JSON
// with the purchase day stored as an ISO date string.
func (s *DraftStore) Save(ctx context.Context, key string, r core.Receipt) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		key, string(payload))
	if err != nil {
		return fmt.Errorf("save draft %s: %w", key, err)
	}
	return nil
}

// Load returns the draft stored under key, or nil if there is none. A
// malformed stored draft is treated the same as a missing one: it is logged
// and nil is returned, never a parse error.
func (s *DraftStore) Load(ctx context.Context, key string) (*core.Receipt, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM drafts WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", key, err)
	}

	var r core.Receipt
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		slog.WarnContext(ctx, "Discarding malformed stored draft", "key", key, "error", err)
		return nil, nil
	}
	return &r, nil
}

// Clear removes the draft stored under key. Clearing a missing key is not an error.
func (s *DraftStore) Clear(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear draft %s: %w", key, err)
	}
	return nil
}

// ListKeys returns every stored draft key, oldest first, so queued scanned
// receipts are confirmed in arrival order.
func (s *DraftStore) ListKeys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM drafts ORDER BY updated_at, key`)
	if err != nil {
		return nil, fmt.Errorf("list draft keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan draft key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate draft keys: %w", err)
	}
	return keys, nil
}

// SavePreference stores a lightweight per-form preference, such as the
// pricing mode, separately from any draft payload.
func (s *DraftStore) SavePreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}

// LoadPreference returns the stored preference value, or "" if unset.
func (s *DraftStore) LoadPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load preference %s: %w", key, err)
	}
	return value, nil
}
