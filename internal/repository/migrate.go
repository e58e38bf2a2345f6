package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"github.com/pressly/goose/v3"

	"github.com/rolodex/rolodex/internal/repository/migrations"
)

// Migrate applies all pending schema migrations to the database at databaseURL.
func Migrate(ctx context.Context, databaseURL string) error {
	return withMigrator(databaseURL, func(db *sql.DB) error {
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	})
}

// ResetSchema rolls every migration back and re-applies them.
// It destroys all data and exists for integration tests.
func ResetSchema(ctx context.Context, databaseURL string) error {
	return withMigrator(databaseURL, func(db *sql.DB) error {
		if err := goose.DownToContext(ctx, db, ".", 0); err != nil {
			return fmt.Errorf("roll back migrations: %w", err)
		}
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	})
}

func withMigrator(databaseURL string, fn func(db *sql.DB) error) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	return fn(db)
}
