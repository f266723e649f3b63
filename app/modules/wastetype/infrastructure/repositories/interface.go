package wastetypedb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Repository is the read-only interface over the waste-type ledger.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id sharedtypes.WasteTypeID) (*WasteType, error)
	GetByIDs(ctx context.Context, db bun.IDB, ids []sharedtypes.WasteTypeID) (map[sharedtypes.WasteTypeID]*WasteType, error)
	List(ctx context.Context, db bun.IDB) ([]WasteType, error)
}
