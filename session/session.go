package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"coworkly/db"
)

// TokenKey is the fixed key the bearer token is stored under.
const TokenKey = "coworkly_token"

// Store keeps durable client-side state in a small sqlite file under the
// user config directory. The only thing persisted today is the bearer token.
type Store struct {
	conn *sql.DB
}

// DefaultStatePath resolves the state database location, creating the
// application directory if needed.
func DefaultStatePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to get user config directory: %w", err)
	}

	appDir := filepath.Join(configDir, "coworkly")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("unable to create config directory: %w", err)
	}

	return filepath.Join(appDir, "state.db"), nil
}

func Open(path string) (*Store, error) {
	conn, err := db.InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	_, err = conn.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.CloseDB(conn)
		return nil, fmt.Errorf("schema exec failed: %w", err)
	}

	return &Store{conn: conn}, nil
}

func (s *Store) Close() {
	db.CloseDB(s.conn)
}

// LoadToken returns the persisted bearer token, or empty when none is stored.
func (s *Store) LoadToken() (string, error) {
	var token string
	err := s.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, TokenKey).Scan(&token)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (s *Store) SaveToken(token string) error {
	_, err := s.conn.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		TokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (s *Store) ClearToken() error {
	_, err := s.conn.Exec(`DELETE FROM kv WHERE key = ?`, TokenKey)
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
