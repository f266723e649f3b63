package testutils

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"testing"

	natscontainer "github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/LiraCode/ecotrack-sub002/app/eventbus"
	"github.com/LiraCode/ecotrack-sub002/config"
	"github.com/LiraCode/ecotrack-sub002/db/bundb"
	"github.com/LiraCode/ecotrack-sub002/integration_tests/containers"
)

// TestEnvironment holds the containers and connections shared by every test
// in one package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *natscontainer.NATSContainer
	DBService     *bundb.DBService
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Config        *config.Config
	T             *testing.T
}

// NewTestEnvironment starts Postgres and NATS containers, migrates the
// schema, and connects the event bus.
func NewTestEnvironment(t *testing.T) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		T:             t,
	}

	if err := env.setup(ctx); err != nil {
		cancel()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setup(ctx context.Context) error {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	cfg := &config.Config{
		Postgres: config.PostgresConfig{DSN: pgConnStr},
		NATS:     config.NATSConfig{URL: natsURL},
	}
	env.Config = cfg

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		env.terminateContainers(ctx)
		return fmt.Errorf("failed to create DB service: %w", err)
	}
	env.DBService = dbService
	env.DB = dbService.GetDB()

	if err := runMigrations(ctx, env.DB, pgConnStr); err != nil {
		env.teardownPartial(ctx)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus, err := eventbus.NewEventBus(ctx, natsURL, discardLogger)
	if err != nil {
		env.teardownPartial(ctx)
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	env.EventBus = bus

	return nil
}

// Reset truncates all application tables for a clean per-test state.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return CleanupDatabase(ctx, env.DB)
}

// Teardown releases everything the environment started.
func (env *TestEnvironment) Teardown() {
	ctx := context.Background()

	if env.EventBus != nil {
		if err := env.EventBus.Close(); err != nil {
			log.Printf("Failed to close event bus: %v", err)
		}
	}
	env.teardownPartial(ctx)
	env.CancelContext()
}

func (env *TestEnvironment) teardownPartial(ctx context.Context) {
	if env.DBService != nil {
		if err := env.DBService.Close(); err != nil {
			log.Printf("Failed to close DB service: %v", err)
		}
	}
	env.terminateContainers(ctx)
}

func (env *TestEnvironment) terminateContainers(ctx context.Context) {
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate Postgres container: %v", err)
		}
	}
}
