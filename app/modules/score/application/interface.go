package scoreservice

import (
	"context"
	"time"

	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	"github.com/LiraCode/ecotrack-sub002/app/shared/results"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// CollectionEventResult is the outcome of applying a collection event.
type CollectionEventResult = results.OperationResult[
	scoreevents.CollectionEventAppliedPayloadV1,
	scoreevents.CollectionEventFailedPayloadV1,
]

// SweepResult reports what an expiration sweep did.
type SweepResult struct {
	Expired   int
	Completed []scoreevents.GoalCompletedPayloadV1
	Failures  []scoreevents.ScoreFailure
}

// Service is the score module's application interface.
type Service interface {
	// JoinGoal opts a user into a goal, creating their score.
	JoinGoal(ctx context.Context, userID sharedtypes.UserID, goalID sharedtypes.GoalID) (*scoretypes.Score, error)

	// ApplyCollectionEvent applies a completed pickup to every matching
	// active score of the event's user and evaluates completion for each.
	ApplyCollectionEvent(ctx context.Context, event scoretypes.CollectionEvent) (CollectionEventResult, error)

	// EvaluateCompletion checks one score against its goal and completes it
	// when satisfied. No-op on terminal scores.
	EvaluateCompletion(ctx context.Context, scoreID sharedtypes.ScoreID) (*scoretypes.Score, *scoreevents.GoalCompletedPayloadV1, error)

	// SweepExpired transitions overdue active scores to expired.
	SweepExpired(ctx context.Context, asOf time.Time) (SweepResult, error)

	// GetUserPoints sums earned points over the user's completed scores.
	// Unknown users yield 0, never an error.
	GetUserPoints(ctx context.Context, userID sharedtypes.UserID) (sharedtypes.Points, error)
}
