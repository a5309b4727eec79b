package repository

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hitoshi/holocron/internal/database"
)

// newTestDB はマイグレーション適用済みの一時SQLiteデータベースを返す。
func newTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	dbURL := "sqlite://" + filepath.Join(t.TempDir(), "holocron.db")
	require.NoError(t, database.RunMigrations(dbURL))

	db, dialect, err := database.Open(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, dialect
}

func strPtr(s string) *string { return &s }
