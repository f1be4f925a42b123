package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_CreatesSchema(t *testing.T) {
	conn, err := OpenPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	defer conn.Close()

	status, err := Status(conn)
	require.NoError(t, err)
	assert.Equal(t, uint(0), status.CurrentVersion)
	assert.True(t, status.Pending)

	require.NoError(t, Migrate(conn))

	status, err = Status(conn)
	require.NoError(t, err)
	assert.Equal(t, status.LatestVersion, status.CurrentVersion)
	assert.False(t, status.Pending)
	assert.False(t, status.Dirty)

	for _, table := range []string{"companies", "company_representatives", "employees", "projects", "tasks"} {
		var name string
		err := conn.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	conn, err := OpenPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))
}

func TestForeignKeysEnforced(t *testing.T) {
	conn, err := OpenPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, Migrate(conn))

	_, err = conn.Exec("INSERT INTO company_representatives (company_id, name) VALUES (999, 'Nobody')")
	assert.Error(t, err)
}
