package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	goalmigrations "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/repositories/migrations"
	scoremigrations "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories/migrations"
	wastetypemigrations "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories/migrations"
)

// appTables lists every application table so tests can truncate them between
// runs without touching the migration bookkeeping tables.
var appTables = []string{"waste_types", "goals", "scores", "ranking_snapshots"}

// runMigrations brings a fresh test database up to the current schema,
// including the River job tables.
func runMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	migrator := migrate.NewMigrator(db, wastetypemigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	if err := runRiverMigrations(ctx, pgConnStr); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}

	// Order matters: scores reference goals, goals reference waste types.
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"wastetype", wastetypemigrations.Migrations},
		{"goal", goalmigrations.Migrations},
		{"score", scoremigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
	}

	for _, mod := range orderedModules {
		if err := runModuleMigrations(ctx, db, mod.migrations, mod.name); err != nil {
			return err
		}
	}
	log.Println("All migrations ran successfully")
	return nil
}

func runRiverMigrations(ctx context.Context, pgConnStr string) error {
	poolConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		return fmt.Errorf("failed to parse DSN for River migrations: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}

	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations)
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	if group.IsZero() {
		log.Printf("No %s migrations to run", name)
	} else {
		log.Printf("Ran %s migrations group #%d", name, group.ID)
	}
	return nil
}

// CleanupDatabase truncates all application tables and drains the River job
// queue so each test starts from a clean state.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil {
		if !strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("failed to cleanup river jobs: %w", err)
		}
	}
	return nil
}
