// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"voicetracker-backend/internal/db"
)

// Open returns a migrated sqlite database in t's temp dir, closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	dbx, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { dbx.Close() })
	if err := db.Migrate(context.Background(), dbx, db.DriverSQLite); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return dbx
}

// CreateUser inserts a user and returns its id.
func CreateUser(t testing.TB, dbx *sql.DB, email string) int {
	t.Helper()
	var id int
	err := dbx.QueryRow(
		`INSERT INTO users (email, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id`,
		email, "-", 0,
	).Scan(&id)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}
