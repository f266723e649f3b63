// Package bundb owns the Postgres connection shared by every module.
package bundb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
	leaderboarddb "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/repositories"
	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	"github.com/LiraCode/ecotrack-sub002/config"
)

// DBService holds the shared bun connection.
type DBService struct {
	db *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// NewBunDBService initializes a new DBService with the provided Postgres
// configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(&wastetypedb.WasteType{})
	db.RegisterModel(&goaldb.Goal{})
	db.RegisterModel(&scoredb.Score{})
	db.RegisterModel(&leaderboarddb.RankingSnapshot{})

	return &DBService{db: db}, nil
}

// Close closes the underlying connection pool.
func (dbService *DBService) Close() error {
	if dbService.db == nil {
		return nil
	}
	return dbService.db.Close()
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
