package scoreservice

import (
	"context"
	"testing"

	"github.com/google/uuid"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

func TestScoreService_GetUserPoints(t *testing.T) {
	f := newFixture()
	seed := func(userID string, status scoretypes.Status, points int) {
		f.scoreRepo.Seed(&scoretypes.Score{
			UserID:       sharedtypes.UserID(userID),
			GoalID:       sharedtypes.GoalID(uuid.New()),
			Status:       status,
			EarnedPoints: sharedtypes.Points(points),
		})
	}

	seed("user-1", scoretypes.StatusCompleted, 50)
	seed("user-1", scoretypes.StatusCompleted, 30)
	seed("user-1", scoretypes.StatusActive, 0)
	seed("user-1", scoretypes.StatusExpired, 0)
	seed("user-2", scoretypes.StatusCompleted, 80)

	t.Run("sums only completed scores", func(t *testing.T) {
		got, err := f.service.GetUserPoints(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("GetUserPoints() error = %v", err)
		}
		if got != 80 {
			t.Errorf("expected 80 points, got %d", got)
		}
	})

	t.Run("unknown user yields zero, not an error", func(t *testing.T) {
		got, err := f.service.GetUserPoints(context.Background(), "user-unknown")
		if err != nil {
			t.Fatalf("GetUserPoints() error = %v", err)
		}
		if got != 0 {
			t.Errorf("expected 0 points, got %d", got)
		}
	})
}
