package testutils

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
)

// SeedWasteTypes inserts the reference ledger rows.
func SeedWasteTypes(t *testing.T, ctx context.Context, db *bun.DB, types []wastetypedb.WasteType) {
	t.Helper()
	if _, err := db.NewInsert().Model(&types).Exec(ctx); err != nil {
		t.Fatalf("failed to seed waste types: %v", err)
	}
}

// SeedGoal inserts a goal template row.
func SeedGoal(t *testing.T, ctx context.Context, db *bun.DB, goal goaltypes.Goal) {
	t.Helper()
	row := &goaldb.Goal{
		ID:          uuid.UUID(goal.ID),
		Title:       goal.Title,
		TargetType:  goal.TargetType,
		TargetValue: goal.TargetValue,
		Points:      int(goal.Points),
		ValidFrom:   goal.ValidFrom,
		ValidUntil:  goal.ValidUntil,
		WasteTypes:  goal.WasteTypes,
	}
	if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
		t.Fatalf("failed to seed goal %s: %v", goal.Title, err)
	}
}
