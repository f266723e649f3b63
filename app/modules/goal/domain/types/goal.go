// Package goaltypes defines the goal template domain model. Goals are
// immutable challenge definitions; the engine never writes them.
package goaltypes

import (
	"time"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// TargetType selects which metric a goal measures.
type TargetType string

const (
	TargetQuantity TargetType = "quantity"
	TargetWeight   TargetType = "weight"
)

// IsValid reports whether the target type is a known metric.
func (t TargetType) IsValid() bool {
	switch t {
	case TargetQuantity, TargetWeight:
		return true
	default:
		return false
	}
}

// GoalWasteType lists a waste type a goal tracks, with an optional per-type
// sub-target that must be met individually before the goal completes.
type GoalWasteType struct {
	WasteTypeID sharedtypes.WasteTypeID `json:"waste_type_id"`
	SubTarget   *float64                `json:"sub_target,omitempty"`
}

// Goal is a time-bound challenge template.
type Goal struct {
	ID          sharedtypes.GoalID
	Title       string
	TargetType  TargetType
	TargetValue float64
	Points      sharedtypes.Points
	ValidFrom   time.Time
	ValidUntil  time.Time
	WasteTypes  []GoalWasteType
}

// IsActiveAt reports whether now falls inside the goal's validity window.
func (g *Goal) IsActiveAt(now time.Time) bool {
	return !now.Before(g.ValidFrom) && !now.After(g.ValidUntil)
}

// TracksWasteType reports whether the goal lists the given waste type.
func (g *Goal) TracksWasteType(id sharedtypes.WasteTypeID) bool {
	for _, wt := range g.WasteTypes {
		if wt.WasteTypeID == id {
			return true
		}
	}
	return false
}

// SubTargetFor returns the declared sub-target for a waste type, or nil when
// none is declared (or the type is not tracked).
func (g *Goal) SubTargetFor(id sharedtypes.WasteTypeID) *float64 {
	for _, wt := range g.WasteTypes {
		if wt.WasteTypeID == id {
			return wt.SubTarget
		}
	}
	return nil
}
