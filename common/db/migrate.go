package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var postgresSchema string

// Migrate applies the gallery schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	db.log.Info("database schema applied")
	return nil
}
