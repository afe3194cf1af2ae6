package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ErlanBelekov/groupsite-api/internal/infrastructure/database"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}
