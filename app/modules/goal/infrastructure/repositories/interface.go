package goaldb

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Repository is the read-only interface over goal templates. Goal authoring
// belongs to the host application's management workflow.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id sharedtypes.GoalID) (*goaltypes.Goal, error)
	GetByIDs(ctx context.Context, db bun.IDB, ids []sharedtypes.GoalID) (map[sharedtypes.GoalID]*goaltypes.Goal, error)
	ListActive(ctx context.Context, db bun.IDB, asOf time.Time) ([]*goaltypes.Goal, error)
}
