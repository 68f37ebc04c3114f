// Package store persists client settings (access token, server URL) in a
// local SQLite database, so they survive restarts of the client.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const (
	keyToken     = "token"
	keyServerURL = "server_url"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init settings db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value for name, or "" when it was never set.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = $1`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %q: %w", name, err)
	}
	return value, nil
}

// Set stores the value for name, replacing any previous value.
func (s *Store) Set(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, name, value)
	if err != nil {
		return fmt.Errorf("write setting %q: %w", name, err)
	}
	return nil
}

func (s *Store) Token(ctx context.Context) (string, error) {
	return s.Get(ctx, keyToken)
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.Set(ctx, keyToken, token)
}

func (s *Store) ServerURL(ctx context.Context) (string, error) {
	return s.Get(ctx, keyServerURL)
}

func (s *Store) SetServerURL(ctx context.Context, url string) error {
	return s.Set(ctx, keyServerURL, url)
}
