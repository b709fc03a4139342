// internal/kv/sqlite.go
//
// SQLite-backed kv.Store over the `kv` table.
// Responsibilities:
//   - Get/Put/Delete by key, with Put as an upsert stamping updated_at.
//   - Map a missing row to ErrNotFound.

package kv

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLite stores values in the `kv` table created by the embedded migrations.
type SQLite struct{ db *sql.DB }

// NewSQLite wraps an open, migrated database.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key)
	return err
}
