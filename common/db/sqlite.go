package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// migration represents a single sqlite schema migration
type migration struct {
	version int
	name    string
	up      string
}

// sqliteMigrations is the ordered list of sqlite migrations. created_at is
// stored as unix nanoseconds so ordering is numeric.
var sqliteMigrations = []migration{
	{
		version: 1,
		name:    "create_gallery_tables",
		up: `
			CREATE TABLE IF NOT EXISTS images (
				id TEXT PRIMARY KEY,
				storage_path TEXT NOT NULL,
				alt TEXT NOT NULL DEFAULT '',
				width INTEGER,
				height INTEGER,
				position INTEGER,
				published INTEGER NOT NULL DEFAULT 0,
				created_at INTEGER NOT NULL
			);

			CREATE TABLE IF NOT EXISTS tags (
				id TEXT PRIMARY KEY,
				slug TEXT NOT NULL UNIQUE,
				label TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS image_tags (
				image_id TEXT NOT NULL REFERENCES images(id) ON DELETE CASCADE,
				tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
				PRIMARY KEY (image_id, tag_id)
			);
		`,
	},
	{
		version: 2,
		name:    "create_gallery_indexes",
		up: `
			CREATE INDEX IF NOT EXISTS idx_images_published
			ON images(published, position, created_at DESC);

			CREATE INDEX IF NOT EXISTS idx_image_tags_tag
			ON image_tags(tag_id, image_id);
		`,
	},
}

// OpenSQLite opens (or creates) a sqlite database at path and applies
// pending migrations. ":memory:" is pinned to one connection so every
// query sees the same database.
func OpenSQLite(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := runSQLiteMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return sqlDB, nil
}

// sqliteDSN appends connection pragmas. The driver applies them to every
// pooled connection; a one-off PRAGMA statement would reach only one.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

func runSQLiteMigrations(sqlDB *sql.DB) error {
	_, err := sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range sqliteMigrations {
		var exists bool
		err := sqlDB.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)`, m.version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.version, err)
		}
		if exists {
			continue
		}

		tx, err := sqlDB.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
