package scorehandlers

import (
	"context"
	"time"

	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// ------------------------
// Fake Score Service
// ------------------------

// FakeScoreService provides a programmable stub for the scoreservice.Service
// interface. It allows you to inject custom behavior for each method and track
// calls via Trace.
type FakeScoreService struct {
	trace []string

	JoinGoalFunc             func(ctx context.Context, userID sharedtypes.UserID, goalID sharedtypes.GoalID) (*scoretypes.Score, error)
	ApplyCollectionEventFunc func(ctx context.Context, event scoretypes.CollectionEvent) (scoreservice.CollectionEventResult, error)
	EvaluateCompletionFunc   func(ctx context.Context, scoreID sharedtypes.ScoreID) (*scoretypes.Score, *scoreevents.GoalCompletedPayloadV1, error)
	SweepExpiredFunc         func(ctx context.Context, asOf time.Time) (scoreservice.SweepResult, error)
	GetUserPointsFunc        func(ctx context.Context, userID sharedtypes.UserID) (sharedtypes.Points, error)
}

// NewFakeScoreService initializes a new FakeScoreService.
func NewFakeScoreService() *FakeScoreService {
	return &FakeScoreService{
		trace: []string{},
	}
}

func (f *FakeScoreService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeScoreService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Service Interface Implementation ---

func (f *FakeScoreService) JoinGoal(ctx context.Context, userID sharedtypes.UserID, goalID sharedtypes.GoalID) (*scoretypes.Score, error) {
	f.record("JoinGoal")
	if f.JoinGoalFunc != nil {
		return f.JoinGoalFunc(ctx, userID, goalID)
	}
	return nil, nil
}

func (f *FakeScoreService) ApplyCollectionEvent(ctx context.Context, event scoretypes.CollectionEvent) (scoreservice.CollectionEventResult, error) {
	f.record("ApplyCollectionEvent")
	if f.ApplyCollectionEventFunc != nil {
		return f.ApplyCollectionEventFunc(ctx, event)
	}
	return scoreservice.CollectionEventResult{}, nil
}

func (f *FakeScoreService) EvaluateCompletion(ctx context.Context, scoreID sharedtypes.ScoreID) (*scoretypes.Score, *scoreevents.GoalCompletedPayloadV1, error) {
	f.record("EvaluateCompletion")
	if f.EvaluateCompletionFunc != nil {
		return f.EvaluateCompletionFunc(ctx, scoreID)
	}
	return nil, nil, nil
}

func (f *FakeScoreService) SweepExpired(ctx context.Context, asOf time.Time) (scoreservice.SweepResult, error) {
	f.record("SweepExpired")
	if f.SweepExpiredFunc != nil {
		return f.SweepExpiredFunc(ctx, asOf)
	}
	return scoreservice.SweepResult{}, nil
}

func (f *FakeScoreService) GetUserPoints(ctx context.Context, userID sharedtypes.UserID) (sharedtypes.Points, error) {
	f.record("GetUserPoints")
	if f.GetUserPointsFunc != nil {
		return f.GetUserPointsFunc(ctx, userID)
	}
	return 0, nil
}

// Ensure the fake satisfies the Service interface
var _ scoreservice.Service = (*FakeScoreService)(nil)
