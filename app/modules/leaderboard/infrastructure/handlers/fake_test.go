package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/application"
	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// ------------------------
// Fake Leaderboard Service
// ------------------------

// FakeLeaderboardService provides a programmable stub for the
// leaderboardservice.Service interface.
type FakeLeaderboardService struct {
	trace []string

	RefreshRankingFunc  func(ctx context.Context) (leaderboardtypes.Ranking, error)
	GetRankingFunc      func(ctx context.Context) (leaderboardtypes.Ranking, error)
	GetUserPositionFunc func(ctx context.Context, userID sharedtypes.UserID) (int, error)
}

// NewFakeLeaderboardService initializes a new FakeLeaderboardService.
func NewFakeLeaderboardService() *FakeLeaderboardService {
	return &FakeLeaderboardService{
		trace: []string{},
	}
}

func (f *FakeLeaderboardService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeLeaderboardService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Service Interface Implementation ---

func (f *FakeLeaderboardService) RefreshRanking(ctx context.Context) (leaderboardtypes.Ranking, error) {
	f.record("RefreshRanking")
	if f.RefreshRankingFunc != nil {
		return f.RefreshRankingFunc(ctx)
	}
	return leaderboardtypes.Ranking{}, nil
}

func (f *FakeLeaderboardService) GetRanking(ctx context.Context) (leaderboardtypes.Ranking, error) {
	f.record("GetRanking")
	if f.GetRankingFunc != nil {
		return f.GetRankingFunc(ctx)
	}
	return leaderboardtypes.Ranking{}, nil
}

func (f *FakeLeaderboardService) GetUserPosition(ctx context.Context, userID sharedtypes.UserID) (int, error) {
	f.record("GetUserPosition")
	if f.GetUserPositionFunc != nil {
		return f.GetUserPositionFunc(ctx, userID)
	}
	return 0, nil
}

// Ensure the fake satisfies the Service interface
var _ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
