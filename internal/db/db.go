package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens and pings a database. For sqlite, dsn is a file path; its
// directory is created and foreign keys and a busy timeout are enabled.
func Connect(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres:
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, ":memory:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
	}

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	for i, stmt := range schema(driver) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

func schema(driver string) []string {
	serial := "SERIAL PRIMARY KEY"
	if driver == DriverSQLite {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id ` + serial + `,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS reminders (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			task TEXT NOT NULL,
			date_kind TEXT NOT NULL,
			date_raw TEXT NOT NULL,
			day TEXT NOT NULL,
			time_of_day TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			starts_at BIGINT NOT NULL,
			calendar_url TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS reminders_user_idx ON reminders (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			product TEXT NOT NULL,
			company TEXT NOT NULL,
			price TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			payment_detail TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (user_id, kind, created_at)`,
		`CREATE TABLE IF NOT EXISTS analytics_events (
			id ` + serial + `,
			event_name TEXT NOT NULL,
			event_time BIGINT NOT NULL,
			user_id INTEGER NOT NULL,
			session_id TEXT,
			platform TEXT NOT NULL,
			app_version TEXT NOT NULL DEFAULT '',
			device_locale TEXT,
			source_event_key TEXT UNIQUE,
			properties TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS analytics_events_user_idx ON analytics_events (user_id, event_name)`,
	}
}
