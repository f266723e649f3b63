package wastetypedb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// WasteType is reference data describing a recyclable material. Seeded by the
// host application; the engine only reads it.
type WasteType struct {
	bun.BaseModel `bun:"table:waste_types,alias:wt"`

	ID   sharedtypes.WasteTypeID `bun:"id,pk"`
	Name string                  `bun:"name,notnull"`

	// AverageWeightKg is the fallback unit weight used when a collection
	// item carries no measured weight. Nil means no fallback exists.
	AverageWeightKg *float64 `bun:"average_weight_kg"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
