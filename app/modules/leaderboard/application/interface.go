package leaderboardservice

import (
	"context"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Service is the leaderboard module's application interface.
type Service interface {
	// RefreshRanking recomputes the ranking from completed scores, persists it
	// as a new snapshot, and returns it.
	RefreshRanking(ctx context.Context) (leaderboardtypes.Ranking, error)

	// GetRanking returns the latest snapshot, recomputing when none exists.
	GetRanking(ctx context.Context) (leaderboardtypes.Ranking, error)

	// GetUserPosition returns the user's 1-based position in the latest
	// ranking; 0 when the user has no completed goals.
	GetUserPosition(ctx context.Context, userID sharedtypes.UserID) (int, error)
}
