package scoreintegrationtests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

func TestSweep_ExpiresOverdueScores(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Ctx

	SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	// One goal still in its window, one whose window lies in the past, with a
	// participant in each. Joining the expired goal would be rejected, so its
	// participation is seeded while the window is still open.
	activeOpts := GoalOptionsQuantity(10, 50)
	activeOpts.ValidUntil = time.Now().UTC().Add(30 * 24 * time.Hour)
	activeGoal := deps.Generator.GenerateGoal(activeOpts)
	SeedGoal(t, ctx, deps.BunDB, activeGoal)

	closingGoal := deps.Generator.GenerateGoal(GoalOptionsQuantity(10, 30))
	SeedGoal(t, ctx, deps.BunDB, closingGoal)

	userID := deps.Generator.GenerateUserID()

	activeScore, err := deps.Service.JoinGoal(ctx, userID, activeGoal.ID)
	require.NoError(t, err)
	overdueScore, err := deps.Service.JoinGoal(ctx, userID, closingGoal.ID)
	require.NoError(t, err)

	// Partial progress on the soon-to-expire score; it must survive expiry.
	event := deps.Generator.GenerateCollectionEvent(userID,
		scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 4},
	)
	result, err := deps.Service.ApplyCollectionEvent(ctx, event)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	// Sweep past the closing goal's window but before the active goal's end.
	asOf := closingGoal.ValidUntil.Add(time.Hour)
	sweep, err := deps.Service.SweepExpired(ctx, asOf)
	require.NoError(t, err)
	require.Equal(t, 1, sweep.Expired)
	require.Empty(t, sweep.Failures)

	expired, err := deps.ScoreRepo.GetByID(ctx, deps.BunDB, overdueScore.ID)
	require.NoError(t, err)
	require.Equal(t, scoretypes.StatusExpired, expired.Status)
	require.InDelta(t, 4, expired.CurrentValue, 1e-9, "progress is preserved at expiry")
	require.Zero(t, expired.EarnedPoints)

	untouched, err := deps.ScoreRepo.GetByID(ctx, deps.BunDB, activeScore.ID)
	require.NoError(t, err)
	require.Equal(t, scoretypes.StatusActive, untouched.Status)

	// A second sweep finds nothing.
	sweep, err = deps.Service.SweepExpired(ctx, asOf)
	require.NoError(t, err)
	require.Zero(t, sweep.Expired)
}

func TestSweep_CompletionTakesPrecedence(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Ctx

	SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	goal := deps.Generator.GenerateGoal(GoalOptionsQuantity(5, 40))
	SeedGoal(t, ctx, deps.BunDB, goal)

	userID := deps.Generator.GenerateUserID()
	score, err := deps.Service.JoinGoal(ctx, userID, goal.ID)
	require.NoError(t, err)

	// The target was reached inside the window; a sweep after the window must
	// complete the score, not expire it.
	event := deps.Generator.GenerateCollectionEvent(userID,
		scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 6},
	)
	result, err := deps.Service.ApplyCollectionEvent(ctx, event)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	if len(result.Success.Completed) == 1 {
		// Completed inline before the sweep ever saw it; the invariant holds
		// trivially. Keep going to assert the sweep stays a no-op.
		t.Log("score completed inline during apply")
	}

	sweep, err := deps.Service.SweepExpired(ctx, goal.ValidUntil.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, sweep.Expired)

	stored, err := deps.ScoreRepo.GetByID(ctx, deps.BunDB, score.ID)
	require.NoError(t, err)
	require.Equal(t, scoretypes.StatusCompleted, stored.Status)
	require.Equal(t, sharedtypes.Points(40), stored.EarnedPoints)
}
