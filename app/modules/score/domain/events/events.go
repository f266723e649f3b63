// Package scoreevents defines the versioned topics and payloads the score
// module consumes and publishes.
package scoreevents

import (
	"time"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Topics. Versioned so payload changes can roll out side by side.
const (
	// Published by the host application when a pickup is marked complete.
	CollectionEventRecordedV1 = "collection.event.recorded.v1"

	// Published by the score module after applying an event.
	CollectionEventAppliedV1 = "score.collection.applied.v1"
	CollectionEventFailedV1  = "score.collection.failed.v1"

	// Published when a score transitions to completed and points are awarded.
	GoalCompletedV1 = "score.goal.completed.v1"

	// Sweep trigger and result.
	SweepRequestedV1 = "score.sweep.requested.v1"
	SweepCompletedV1 = "score.sweep.completed.v1"
)

// CollectionEventRecordedPayloadV1 carries the pickup into the engine.
type CollectionEventRecordedPayloadV1 struct {
	Event scoretypes.CollectionEvent `json:"event"`
}

// ScoreFailure names a single score that could not be updated during a batch
// operation, with enough context to reproduce.
type ScoreFailure struct {
	ScoreID sharedtypes.ScoreID `json:"score_id"`
	UserID  sharedtypes.UserID  `json:"user_id"`
	GoalID  sharedtypes.GoalID  `json:"goal_id"`
	Reason  string              `json:"reason"`
}

// CollectionEventAppliedPayloadV1 reports which scores an event updated.
// Per-score failures ride alongside the successes; they never abort the batch.
type CollectionEventAppliedPayloadV1 struct {
	EventID         sharedtypes.CollectionEventID `json:"event_id"`
	UserID          sharedtypes.UserID            `json:"user_id"`
	UpdatedScoreIDs []sharedtypes.ScoreID         `json:"updated_score_ids"`
	Completed       []GoalCompletedPayloadV1      `json:"completed,omitempty"`
	Failures        []ScoreFailure                `json:"failures,omitempty"`
}

// CollectionEventFailedPayloadV1 reports an event rejected before any
// mutation (malformed input).
type CollectionEventFailedPayloadV1 struct {
	EventID sharedtypes.CollectionEventID `json:"event_id"`
	UserID  sharedtypes.UserID            `json:"user_id"`
	Reason  string                        `json:"reason"`
}

// GoalCompletedPayloadV1 announces a completed score and its frozen reward.
type GoalCompletedPayloadV1 struct {
	ScoreID     sharedtypes.ScoreID `json:"score_id"`
	GoalID      sharedtypes.GoalID  `json:"goal_id"`
	UserID      sharedtypes.UserID  `json:"user_id"`
	Points      sharedtypes.Points  `json:"points"`
	CompletedAt time.Time           `json:"completed_at"`
}

// SweepRequestedPayloadV1 asks for an expiration sweep as of a cutoff.
type SweepRequestedPayloadV1 struct {
	AsOf time.Time `json:"as_of"`
}

// SweepCompletedPayloadV1 reports a sweep's outcome.
type SweepCompletedPayloadV1 struct {
	AsOf     time.Time      `json:"as_of"`
	Expired  int            `json:"expired"`
	Failures []ScoreFailure `json:"failures,omitempty"`
}
