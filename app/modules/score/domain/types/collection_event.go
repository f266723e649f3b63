package scoretypes

import (
	"errors"
	"time"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// CollectionItem is one waste-type line of a completed pickup.
type CollectionItem struct {
	WasteTypeID sharedtypes.WasteTypeID `json:"waste_type_id"`
	Quantity    float64                 `json:"quantity"`
	WeightKg    *float64                `json:"weight_kg,omitempty"`
}

// CollectionEvent is a completed waste pickup, the sole external trigger for
// progress updates.
type CollectionEvent struct {
	ID         sharedtypes.CollectionEventID `json:"id"`
	UserID     sharedtypes.UserID            `json:"user_id"`
	OccurredAt time.Time                     `json:"occurred_at"`
	Items      []CollectionItem              `json:"items"`
}

// Validate checks the hard preconditions. A failing event is rejected before
// any score is touched.
func (e *CollectionEvent) Validate() error {
	if e.UserID == "" {
		return errors.New("collection event is missing a user id")
	}
	if len(e.Items) == 0 {
		return errors.New("collection event has no items")
	}
	return nil
}
