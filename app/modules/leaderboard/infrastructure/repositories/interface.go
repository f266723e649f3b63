package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
)

// Repository is the leaderboard persistence interface. The db parameter lets
// callers pass a transaction; nil falls back to the repository's own handle.
type Repository interface {
	// AggregateStandings sums completed scores per user, ordered by total
	// points descending, goals completed descending, user ID ascending.
	// Positions are not assigned here.
	AggregateStandings(ctx context.Context, db bun.IDB) ([]leaderboardtypes.RankingEntry, error)

	// SaveSnapshot persists a ranking.
	SaveSnapshot(ctx context.Context, db bun.IDB, ranking leaderboardtypes.Ranking) error

	// GetLatestSnapshot returns the most recent ranking, ErrNotFound when no
	// snapshot was ever taken.
	GetLatestSnapshot(ctx context.Context, db bun.IDB) (leaderboardtypes.Ranking, error)
}
