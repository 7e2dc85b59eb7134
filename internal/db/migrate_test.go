package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenDBRunsMigrations(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var name string
	err = database.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name='issues'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "issues", name)

	// Migrations are idempotent.
	require.NoError(t, Migrate(database))
}
