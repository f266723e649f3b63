package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scores table...")

		if _, err := db.NewCreateTable().Model((*scoredb.Score)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			// One participation per user per goal.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_scores_user_goal ON scores(user_id, goal_id);
			`); err != nil {
				return fmt.Errorf("failed to add unique user/goal index to scores: %w", err)
			}
			// Progress application and sweeps both select on (user, status)
			// and (status) respectively.
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_scores_user_status ON scores(user_id, status);
			`); err != nil {
				return fmt.Errorf("failed to add user/status index to scores: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_scores_status ON scores(status);
			`); err != nil {
				return fmt.Errorf("failed to add status index to scores: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scores table...")

		if _, err := db.NewDropTable().Model((*scoredb.Score)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
