package goalmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating goals table...")

		if _, err := db.NewCreateTable().Model((*goaldb.Goal)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_goals_valid_until ON goals(valid_until);
			`); err != nil {
				return fmt.Errorf("failed to add validity index to goals: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping goals table...")

		if _, err := db.NewDropTable().Model((*goaldb.Goal)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
