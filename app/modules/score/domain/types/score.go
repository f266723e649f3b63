// Package scoretypes defines the Score aggregate: one user's participation in
// one goal, with its progress ledger and lifecycle state machine.
package scoretypes

import (
	"fmt"
	"time"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Status is the Score lifecycle state. Transitions only move forward:
// active -> completed or active -> expired; terminal states never change.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// WasteProgress tracks cumulative progress for one waste type the goal lists.
type WasteProgress struct {
	WasteTypeID  sharedtypes.WasteTypeID `json:"waste_type_id"`
	CurrentValue float64                 `json:"current_value"`
}

// Score is the mutable unit of the engine.
type Score struct {
	ID            sharedtypes.ScoreID
	UserID        sharedtypes.UserID
	GoalID        sharedtypes.GoalID
	Status        Status
	CurrentValue  float64
	EarnedPoints  sharedtypes.Points
	WasteProgress []WasteProgress

	// AppliedEvents records which collection events already contributed to
	// this score, so redelivered events cannot double-count.
	AppliedEvents []sharedtypes.CollectionEventID

	CreatedAt   time.Time
	CompletedAt *time.Time

	// Version backs the optimistic compare-and-swap in the repository.
	Version int64
}

// HasAppliedEvent reports whether the given collection event already
// contributed to this score.
func (s *Score) HasAppliedEvent(id sharedtypes.CollectionEventID) bool {
	for _, applied := range s.AppliedEvents {
		if applied == id {
			return true
		}
	}
	return false
}

// AddContribution adds progress for one waste type and to the aggregate,
// creating the per-type entry at zero if absent. Negative contributions are
// rejected so CurrentValue stays monotonic while active.
func (s *Score) AddContribution(wasteTypeID sharedtypes.WasteTypeID, contribution float64) error {
	if s.Status != StatusActive {
		return fmt.Errorf("cannot add progress to %s score %s", s.Status, s.ID)
	}
	if contribution < 0 {
		return fmt.Errorf("negative contribution %f for waste type %s", contribution, wasteTypeID)
	}
	if contribution == 0 {
		return nil
	}
	for i := range s.WasteProgress {
		if s.WasteProgress[i].WasteTypeID == wasteTypeID {
			s.WasteProgress[i].CurrentValue += contribution
			s.CurrentValue += contribution
			return nil
		}
	}
	s.WasteProgress = append(s.WasteProgress, WasteProgress{
		WasteTypeID:  wasteTypeID,
		CurrentValue: contribution,
	})
	s.CurrentValue += contribution
	return nil
}

// MarkEventApplied records the event in the idempotence ledger.
func (s *Score) MarkEventApplied(id sharedtypes.CollectionEventID) {
	if !s.HasAppliedEvent(id) {
		s.AppliedEvents = append(s.AppliedEvents, id)
	}
}

// MeetsTarget reports whether the score satisfies the goal: aggregate value
// at or above the target AND every declared per-type sub-target met
// individually.
func (s *Score) MeetsTarget(goal *goaltypes.Goal) bool {
	if s.CurrentValue < goal.TargetValue {
		return false
	}
	for _, gwt := range goal.WasteTypes {
		if gwt.SubTarget == nil {
			continue
		}
		met := false
		for _, wp := range s.WasteProgress {
			if wp.WasteTypeID == gwt.WasteTypeID && wp.CurrentValue >= *gwt.SubTarget {
				met = true
				break
			}
		}
		if !met {
			return false
		}
	}
	return true
}

// Complete transitions the score to completed, freezing the goal's point
// value into the score. Completing a non-active score is an error; callers
// that need re-entrancy check Status first.
func (s *Score) Complete(goal *goaltypes.Goal, now time.Time) error {
	if s.Status != StatusActive {
		return fmt.Errorf("invalid transition %s -> %s for score %s", s.Status, StatusCompleted, s.ID)
	}
	s.Status = StatusCompleted
	s.EarnedPoints = goal.Points
	completedAt := now
	s.CompletedAt = &completedAt
	return nil
}

// Expire transitions the score to expired. Progress fields are preserved for
// audit; only the status changes.
func (s *Score) Expire() error {
	if s.Status != StatusActive {
		return fmt.Errorf("invalid transition %s -> %s for score %s", s.Status, StatusExpired, s.ID)
	}
	s.Status = StatusExpired
	return nil
}
