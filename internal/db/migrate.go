package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// gooseRun is a seam for testing goose.RunContext.
var gooseRun = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
	return goose.RunContext(ctx, command, db, dir, args...)
}

// Migrate runs a goose command ("up", "down", "status", ...) against the
// embedded migrations. sqlDB is typically stdlib.OpenDBFromPool(pool).
func Migrate(ctx context.Context, sqlDB *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseRun(ctx, command, sqlDB, migrationsDir, args...); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
