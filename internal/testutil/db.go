// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emilianohg/sitetrack/internal/db"
)

// SetupTestDB opens a fresh, fully migrated database file in a temporary
// directory. It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenPath(filepath.Join(t.TempDir(), "sitetrack.sqlite"))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.Migrate(conn), "failed to migrate test database")
	return conn
}

// MustExec runs a fixture statement and returns the inserted row id.
func MustExec(t *testing.T, conn *sql.DB, query string, args ...any) int64 {
	t.Helper()

	result, err := conn.Exec(query, args...)
	require.NoError(t, err)
	id, err := result.LastInsertId()
	require.NoError(t, err)
	return id
}
