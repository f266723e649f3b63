package scoreapi

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// ------------------------
// Fake Score Service
// ------------------------

// FakeScoreService provides a programmable stub for the scoreservice.Service
// interface.
type FakeScoreService struct {
	GetUserPointsFunc func(ctx context.Context, userID sharedtypes.UserID) (sharedtypes.Points, error)
}

func (f *FakeScoreService) JoinGoal(ctx context.Context, userID sharedtypes.UserID, goalID sharedtypes.GoalID) (*scoretypes.Score, error) {
	return nil, nil
}

func (f *FakeScoreService) ApplyCollectionEvent(ctx context.Context, event scoretypes.CollectionEvent) (scoreservice.CollectionEventResult, error) {
	return scoreservice.CollectionEventResult{}, nil
}

func (f *FakeScoreService) EvaluateCompletion(ctx context.Context, scoreID sharedtypes.ScoreID) (*scoretypes.Score, *scoreevents.GoalCompletedPayloadV1, error) {
	return nil, nil, nil
}

func (f *FakeScoreService) SweepExpired(ctx context.Context, asOf time.Time) (scoreservice.SweepResult, error) {
	return scoreservice.SweepResult{}, nil
}

func (f *FakeScoreService) GetUserPoints(ctx context.Context, userID sharedtypes.UserID) (sharedtypes.Points, error) {
	if f.GetUserPointsFunc != nil {
		return f.GetUserPointsFunc(ctx, userID)
	}
	return 0, nil
}

var _ scoreservice.Service = (*FakeScoreService)(nil)

// ------------------------
// Fake Publisher
// ------------------------

// FakePublisher records published messages per topic.
type FakePublisher struct {
	Published  map[string][]*message.Message
	PublishErr error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: make(map[string][]*message.Message)}
}

func (f *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if f.PublishErr != nil {
		return f.PublishErr
	}
	f.Published[topic] = append(f.Published[topic], messages...)
	return nil
}

func (f *FakePublisher) Close() error { return nil }

var _ message.Publisher = (*FakePublisher)(nil)
