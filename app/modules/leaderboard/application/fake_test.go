package leaderboardservice

import (
	"context"

	"github.com/uptrace/bun"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
	leaderboarddb "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/repositories"
)

// ------------------------
// Fake Leaderboard Repository
// ------------------------

// FakeRepository provides a programmable stub for the leaderboarddb.Repository
// interface. It allows you to inject custom behavior for each method and track
// calls via Trace.
type FakeRepository struct {
	trace []string

	AggregateStandingsFunc func(ctx context.Context, db bun.IDB) ([]leaderboardtypes.RankingEntry, error)
	SaveSnapshotFunc       func(ctx context.Context, db bun.IDB, ranking leaderboardtypes.Ranking) error
	GetLatestSnapshotFunc  func(ctx context.Context, db bun.IDB) (leaderboardtypes.Ranking, error)
}

// NewFakeRepository initializes a new FakeRepository.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		trace: []string{},
	}
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of repository methods called.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeRepository) AggregateStandings(ctx context.Context, db bun.IDB) ([]leaderboardtypes.RankingEntry, error) {
	f.record("AggregateStandings")
	if f.AggregateStandingsFunc != nil {
		return f.AggregateStandingsFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeRepository) SaveSnapshot(ctx context.Context, db bun.IDB, ranking leaderboardtypes.Ranking) error {
	f.record("SaveSnapshot")
	if f.SaveSnapshotFunc != nil {
		return f.SaveSnapshotFunc(ctx, db, ranking)
	}
	return nil
}

func (f *FakeRepository) GetLatestSnapshot(ctx context.Context, db bun.IDB) (leaderboardtypes.Ranking, error) {
	f.record("GetLatestSnapshot")
	if f.GetLatestSnapshotFunc != nil {
		return f.GetLatestSnapshotFunc(ctx, db)
	}
	return leaderboardtypes.Ranking{}, leaderboarddb.ErrNotFound
}

// Ensure the fake satisfies the Repository interface
var _ leaderboarddb.Repository = (*FakeRepository)(nil)
