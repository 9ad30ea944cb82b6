package main

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func ensureStubSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'resident',
			status TEXT NOT NULL DEFAULT 'ACTIVE'
		)`,
		`CREATE TABLE IF NOT EXISTS locations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			address TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS spaces (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			capacity INTEGER NOT NULL DEFAULT 1,
			type TEXT NOT NULL,
			tariff_plan_id INTEGER,
			hourly_rate_cents INTEGER NOT NULL DEFAULT 500,
			active INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY (location_id) REFERENCES locations(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			space_id INTEGER NOT NULL,
			starts_at TEXT NOT NULL,
			ends_at TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'PENDING',
			total_cents INTEGER,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (space_id) REFERENCES spaces(id)
		)`,
		`CREATE TABLE IF NOT EXISTS penalties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			type TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			limit_minutes INTEGER,
			amount_cents INTEGER,
			expires_at TEXT,
			created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
			revoked_at TEXT,
			created_by_admin_id INTEGER,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spaces_location ON spaces(location_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_space_time ON bookings(space_id, starts_at, ends_at)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_penalties_user ON penalties(user_id)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema exec failed: %w", err)
		}
	}

	return nil
}

// seedStubData provisions a default admin and demo inventory so the client
// has something to browse on first run. Idempotent.
func seedStubData(conn *sql.DB) error {
	var users int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = conn.Exec(
		`INSERT INTO users (email, full_name, password_hash, role) VALUES (?, ?, ?, 'ADMIN')`,
		"admin@coworkly.local", "Stub Admin", string(hash),
	)
	if err != nil {
		return err
	}

	res, err := conn.Exec(`INSERT INTO locations (name, address) VALUES ('Невский', 'Невский пр. 1')`)
	if err != nil {
		return err
	}
	locationID, _ := res.LastInsertId()

	spaces := []struct {
		name     string
		capacity int
		kind     string
		rate     int
	}{
		{"Open desk 1", 1, "OPEN_DESK", 300},
		{"Open desk 2", 1, "OPEN_DESK", 300},
		{"Meeting room A", 6, "MEETING_ROOM", 1500},
	}
	for _, s := range spaces {
		_, err = conn.Exec(
			`INSERT INTO spaces (location_id, name, capacity, type, hourly_rate_cents) VALUES (?, ?, ?, ?, ?)`,
			locationID, s.name, s.capacity, s.kind, s.rate,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
