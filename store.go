package vitrine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	settingAPIKey  = "google_api_key"
	settingPlaceID = "google_place_id"
)

// Store wraps a SQLite database holding site settings. It implements
// CredentialStore for the sqlite backend.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL plus a busy timeout lets the admin write while reviews read.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`)
	return err
}

// GetSetting returns the value for key and when it was written. A missing
// key returns sql.ErrNoRows.
func (s *Store) GetSetting(ctx context.Context, key string) (string, time.Time, error) {
	var value, updated string
	err := s.db.QueryRowContext(ctx, `SELECT value, updated_at FROM settings WHERE key = ?`, key).Scan(&value, &updated)
	if err != nil {
		return "", time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return value, time.Time{}, fmt.Errorf("vitrine: setting %s: bad timestamp %q", key, updated)
	}
	return value, t, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// setSetting upserts key through ex, the database or a transaction.
func setSetting(ctx context.Context, ex execer, key, value string, at time.Time) error {
	_, err := ex.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, key, value, at.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *Store) Load(ctx context.Context) (StoredCredentials, error) {
	var c StoredCredentials
	for _, f := range []struct {
		key string
		dst *string
	}{
		{settingAPIKey, &c.GoogleAPIKey},
		{settingPlaceID, &c.GooglePlaceID},
	} {
		v, updated, err := s.GetSetting(ctx, f.key)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return StoredCredentials{}, err
		}
		*f.dst = v
		if c.LastUpdated == nil || updated.After(*c.LastUpdated) {
			c.LastUpdated = &updated
		}
	}
	return c, nil
}

// Save writes both values in one transaction.
func (s *Store) Save(ctx context.Context, c StoredCredentials) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := s.now()
	for key, value := range map[string]string{
		settingAPIKey:  c.GoogleAPIKey,
		settingPlaceID: c.GooglePlaceID,
	} {
		if err := setSetting(ctx, tx, key, value, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
