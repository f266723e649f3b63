package scoreservice

import (
	"context"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// GetUserPoints sums earned points over the user's completed scores.
// Identities with no scores yield 0, never an error.
func (s *ScoreService) GetUserPoints(ctx context.Context, userID sharedtypes.UserID) (sharedtypes.Points, error) {
	return withTelemetry(s, ctx, "GetUserPoints", func(ctx context.Context) (sharedtypes.Points, error) {
		return s.scoreRepo.SumCompletedPoints(ctx, nil, userID)
	})
}
