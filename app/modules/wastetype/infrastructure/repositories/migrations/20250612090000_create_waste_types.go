package wastetypemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating waste_types table...")

		if _, err := db.NewCreateTable().Model((*wastetypedb.WasteType)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping waste_types table...")

		if _, err := db.NewDropTable().Model((*wastetypedb.WasteType)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
