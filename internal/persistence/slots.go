package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/talgya/squad-campaign/internal/storage"
)

// ReadAll returns the stored save document for key.
func (db *DB) ReadAll(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := db.conn.GetContext(ctx, &data, "SELECT data FROM save_slots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read %s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// WriteAll stores data under key, replacing any previous document.
func (db *DB) WriteAll(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("write: empty key")
	}
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO save_slots (key, data, updated_at) VALUES (?, ?, ?)",
		key, data, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Exists reports whether a document is stored under key.
func (db *DB) Exists(ctx context.Context, key string) bool {
	var n int
	if err := db.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM save_slots WHERE key = ?", key); err != nil {
		return false
	}
	return n > 0
}

// Delete removes the document stored under key.
func (db *DB) Delete(ctx context.Context, key string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM save_slots WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", key, storage.ErrNotFound)
	}
	return nil
}

var _ storage.Store = (*DB)(nil)
