// Package store persists client-side session state between runs.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Storage keys shared with the original front end. They must not change:
// the backend contract treats these three values as a unit.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUsername     = "username"
	KeyLastView     = "last_view"
)

// Store wraps the settings database. Only the session manager writes
// credential keys; everything else reads.
type Store struct {
	*sql.DB
}

// Credentials is the persisted token/username triple
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Username     string
}

// New opens the settings database in the default data directory,
// or in dataDir when non-empty.
func New(dataDir string) (*Store, error) {
	path, err := storePath(dataDir)
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Open opens the settings database at path and initializes the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db}, nil
}

// storePath returns the path to the settings database file
func storePath(dataDir string) (string, error) {
	if dataDir == "" {
		// Use XDG data directory or fallback to home directory
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		dataDir = filepath.Join(dataDir, "taskdeck")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(dataDir, "taskdeck.db"), nil
}

// Get retrieves a setting value by key
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Set sets a setting value
func (s *Store) Set(key, value string) error {
	_, err := s.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Credentials reads the persisted token/username triple. Absent keys
// come back as empty strings.
func (s *Store) Credentials() (Credentials, error) {
	var c Credentials
	rows, err := s.Query("SELECT key, value FROM settings WHERE key IN (?, ?, ?)",
		KeyAccessToken, KeyRefreshToken, KeyUsername)
	if err != nil {
		return c, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return c, err
		}
		switch key {
		case KeyAccessToken:
			c.AccessToken = value
		case KeyRefreshToken:
			c.RefreshToken = value
		case KeyUsername:
			c.Username = value
		}
	}
	return c, rows.Err()
}

// SaveCredentials writes all three credential keys in one transaction
func (s *Store) SaveCredentials(access, refresh, username string) error {
	return s.inTx(func(tx *sql.Tx) error {
		for key, value := range map[string]string{
			KeyAccessToken:  access,
			KeyRefreshToken: refresh,
			KeyUsername:     username,
		} {
			if _, err := tx.Exec(`
				INSERT INTO settings (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetAccessToken replaces just the access token, as after a refresh
func (s *Store) SetAccessToken(access string) error {
	return s.Set(KeyAccessToken, access)
}

// ClearCredentials removes all three credential keys in one transaction
func (s *Store) ClearCredentials() error {
	return s.inTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM settings WHERE key IN (?, ?, ?)",
			KeyAccessToken, KeyRefreshToken, KeyUsername)
		return err
	})
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
