package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/clubhub/db/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/migrate"
)

// NewMigrator wraps an existing lib/pq connection in bun so that the schema
// migrations can run without a second driver.
func NewMigrator(sqlDB *sql.DB) *migrate.Migrator {
	bunDB := bun.NewDB(sqlDB, pgdialect.New())
	return migrate.NewMigrator(bunDB, migrations.Migrations)
}

// MigrateUp creates the bookkeeping tables if needed and applies every pending migration.
func MigrateUp(ctx context.Context, sqlDB *sql.DB) (*migrate.MigrationGroup, error) {
	migrator := NewMigrator(sqlDB)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init migration tables: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return group, nil
}

// MigrateRollback reverts the last applied migration group.
func MigrateRollback(ctx context.Context, sqlDB *sql.DB) (*migrate.MigrationGroup, error) {
	migrator := NewMigrator(sqlDB)
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return group, nil
}

func MigrationStatus(ctx context.Context, sqlDB *sql.DB) (migrate.MigrationSlice, error) {
	ms, err := NewMigrator(sqlDB).MigrationsWithStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}
	return ms, nil
}
