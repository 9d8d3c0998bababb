package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_AppliesMigrations(t *testing.T) {
	sqlDB, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer sqlDB.Close()

	var count int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, len(sqliteMigrations), count)

	for _, table := range []string{"images", "tags", "image_tags"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	assert.Equal(t, len(sqliteMigrations), count)
}

func TestOpenSQLite_ForeignKeysOnEveryConnection(t *testing.T) {
	sqlDB, err := OpenSQLite(filepath.Join(t.TempDir(), "gallery.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	ctx := context.Background()

	// Hold two connections at once so the pool must open a second one
	first, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, conn := range []*sql.Conn{first, second} {
		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled))
		assert.Equal(t, 1, enabled)

		_, err := conn.ExecContext(ctx, `INSERT INTO image_tags (image_id, tag_id) VALUES ('missing-image', 'missing-tag')`)
		assert.Error(t, err, "dangling association must be rejected")
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)", sqliteDSN(":memory:"))
	assert.Equal(t, "file:gallery.db?mode=rwc&_pragma=foreign_keys(1)", sqliteDSN("file:gallery.db?mode=rwc"))
}
