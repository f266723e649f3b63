package goaldb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Goal is the persisted goal template. The tracked waste types live in a
// jsonb column: they are part of the template snapshot, never queried
// relationally by the engine.
type Goal struct {
	bun.BaseModel `bun:"table:goals,alias:g"`

	ID          uuid.UUID                 `bun:"id,pk,type:uuid"`
	Title       string                    `bun:"title,notnull"`
	TargetType  goaltypes.TargetType      `bun:"target_type,notnull"`
	TargetValue float64                   `bun:"target_value,notnull"`
	Points      int                       `bun:"points,notnull"`
	ValidFrom   time.Time                 `bun:"valid_from,notnull"`
	ValidUntil  time.Time                 `bun:"valid_until,notnull"`
	WasteTypes  []goaltypes.GoalWasteType `bun:"waste_types,type:jsonb,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row to the immutable domain snapshot.
func (g *Goal) ToDomain() *goaltypes.Goal {
	wasteTypes := make([]goaltypes.GoalWasteType, len(g.WasteTypes))
	copy(wasteTypes, g.WasteTypes)
	return &goaltypes.Goal{
		ID:          sharedtypes.GoalID(g.ID),
		Title:       g.Title,
		TargetType:  g.TargetType,
		TargetValue: g.TargetValue,
		Points:      sharedtypes.Points(g.Points),
		ValidFrom:   g.ValidFrom,
		ValidUntil:  g.ValidUntil,
		WasteTypes:  wasteTypes,
	}
}
