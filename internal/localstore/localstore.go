// Package localstore is the persistent key-value store that survives
// restarts: the bearer token, its issuance timestamp, and the last-used
// calendar view. Values are opaque strings with no schema versioning.
// The gateway reads the token from here on every call.
package localstore

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Setting keys. Opaque strings on disk.
const (
	keyToken     = "token"
	keyTokenInit = "token-init-date"
	keyLastView  = "lastView"
)

// Store wraps the settings database.
type Store struct {
	db *sql.DB
}

// Open creates the store at the default data path.
func Open() (*Store, error) {
	path, err := defaultPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath creates the store at an explicit file path.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func defaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "organizer")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(appDir, "organizer.db"), nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key string) string {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

func (s *Store) set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Token returns the stored bearer token, reading from disk each call so
// a rotation is visible to the next request. Satisfies api.TokenSource.
func (s *Store) Token() string {
	return s.get(keyToken)
}

// SetToken stores a fresh token together with its issuance time.
func (s *Store) SetToken(token string) error {
	if err := s.set(keyToken, token); err != nil {
		return err
	}
	return s.set(keyTokenInit, strconv.FormatInt(time.Now().UnixMilli(), 10))
}

// TokenIssuedAt returns when the stored token was saved, or the zero
// time when none is stored.
func (s *Store) TokenIssuedAt() time.Time {
	millis, err := strconv.ParseInt(s.get(keyTokenInit), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(millis)
}

// LastView returns the last-used calendar view name, empty when unset.
func (s *Store) LastView() string {
	return s.get(keyLastView)
}

// SetLastView persists the calendar view name.
func (s *Store) SetLastView(view string) error {
	return s.set(keyLastView, view)
}

// Clear wipes every stored setting. Called on logout.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM settings")
	return err
}
