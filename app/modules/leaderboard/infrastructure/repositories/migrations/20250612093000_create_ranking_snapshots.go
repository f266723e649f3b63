package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	leaderboarddb "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating ranking_snapshots table...")

		if _, err := db.NewCreateTable().Model((*leaderboarddb.RankingSnapshot)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		// Latest-snapshot lookup orders on generated_at.
		if _, err := db.ExecContext(ctx, `
			CREATE INDEX IF NOT EXISTS idx_ranking_snapshots_generated_at ON ranking_snapshots(generated_at DESC);
		`); err != nil {
			return fmt.Errorf("failed to add generated_at index to ranking_snapshots: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping ranking_snapshots table...")

		if _, err := db.NewDropTable().Model((*leaderboarddb.RankingSnapshot)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
