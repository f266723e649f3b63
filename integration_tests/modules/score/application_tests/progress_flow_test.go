package scoreintegrationtests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

func TestProgressFlow_JoinApplyComplete(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Ctx

	SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	goal := deps.Generator.GenerateGoal(GoalOptionsQuantity(5, 50))
	SeedGoal(t, ctx, deps.BunDB, goal)

	userID := deps.Generator.GenerateUserID()

	score, err := deps.Service.JoinGoal(ctx, userID, goal.ID)
	require.NoError(t, err)
	require.Equal(t, scoretypes.StatusActive, score.Status)
	require.Zero(t, score.CurrentValue)

	// A second join must fail without touching the first score.
	_, err = deps.Service.JoinGoal(ctx, userID, goal.ID)
	require.ErrorIs(t, err, scoreservice.ErrAlreadyParticipating)

	// Partial progress.
	event := deps.Generator.GenerateCollectionEvent(userID,
		scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 3},
	)
	result, err := deps.Service.ApplyCollectionEvent(ctx, event)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Empty(t, result.Success.Completed)

	stored, err := deps.ScoreRepo.GetByID(ctx, deps.BunDB, score.ID)
	require.NoError(t, err)
	require.InDelta(t, 3, stored.CurrentValue, 1e-9)
	require.Equal(t, scoretypes.StatusActive, stored.Status)

	// Redelivery of the same event must not double-count.
	result, err = deps.Service.ApplyCollectionEvent(ctx, event)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	stored, err = deps.ScoreRepo.GetByID(ctx, deps.BunDB, score.ID)
	require.NoError(t, err)
	require.InDelta(t, 3, stored.CurrentValue, 1e-9)

	// Crossing the target completes the score and freezes the points.
	finish := deps.Generator.GenerateCollectionEvent(userID,
		scoretypes.CollectionItem{WasteTypeID: "paper", Quantity: 2},
	)
	result, err = deps.Service.ApplyCollectionEvent(ctx, finish)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Len(t, result.Success.Completed, 1)
	require.Equal(t, sharedtypes.Points(50), result.Success.Completed[0].Points)

	stored, err = deps.ScoreRepo.GetByID(ctx, deps.BunDB, score.ID)
	require.NoError(t, err)
	require.Equal(t, scoretypes.StatusCompleted, stored.Status)
	require.Equal(t, sharedtypes.Points(50), stored.EarnedPoints)
	require.NotNil(t, stored.CompletedAt)

	points, err := deps.Service.GetUserPoints(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, sharedtypes.Points(50), points)
}

func TestProgressFlow_WeightGoalUsesFallback(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Ctx

	SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	goal := deps.Generator.GenerateGoal(GoalOptionsWeight(2.0, 80))
	SeedGoal(t, ctx, deps.BunDB, goal)

	userID := deps.Generator.GenerateUserID()
	_, err := deps.Service.JoinGoal(ctx, userID, goal.ID)
	require.NoError(t, err)

	// Measured weight wins; unweighed items fall back to quantity times the
	// type's average weight.
	measured := 0.8
	event := deps.Generator.GenerateCollectionEvent(userID,
		scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 1, WeightKg: &measured},
		scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 4}, // 4 * 0.3
	)
	result, err := deps.Service.ApplyCollectionEvent(ctx, event)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	scores, err := deps.ScoreRepo.GetActiveByUser(ctx, deps.BunDB, userID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.InDelta(t, 2.0, scores[0].CurrentValue, 1e-9)
}

func TestProgressFlow_UnknownUserHasZeroPoints(t *testing.T) {
	deps := SetupTestScoreService(t)

	points, err := deps.Service.GetUserPoints(deps.Ctx, "user-never-seen")
	require.NoError(t, err)
	require.Zero(t, points)
}

func TestProgressFlow_JoinInactiveGoal(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Ctx

	SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	goal := deps.Generator.GenerateGoal(GoalOptionsExpired(5, 50))
	SeedGoal(t, ctx, deps.BunDB, goal)

	_, err := deps.Service.JoinGoal(ctx, deps.Generator.GenerateUserID(), goal.ID)
	require.Error(t, err)
	require.True(t, errors.Is(err, scoreservice.ErrGoalNotActive))
}

func TestProgressFlow_SubTargetGatesCompletion(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Ctx

	SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	subTarget := 4.0
	goal := deps.Generator.GenerateGoal(GoalOptionsQuantityWith(6, 50, []goaltypes.GoalWasteType{
		{WasteTypeID: "plastic", SubTarget: &subTarget},
		{WasteTypeID: "paper"},
	}))
	SeedGoal(t, ctx, deps.BunDB, goal)

	userID := deps.Generator.GenerateUserID()
	score, err := deps.Service.JoinGoal(ctx, userID, goal.ID)
	require.NoError(t, err)

	// Aggregate hits the target but plastic stays below its sub-target.
	event := deps.Generator.GenerateCollectionEvent(userID,
		scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 2},
		scoretypes.CollectionItem{WasteTypeID: "paper", Quantity: 4},
	)
	result, err := deps.Service.ApplyCollectionEvent(ctx, event)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Empty(t, result.Success.Completed)

	stored, err := deps.ScoreRepo.GetByID(ctx, deps.BunDB, score.ID)
	require.NoError(t, err)
	require.Equal(t, scoretypes.StatusActive, stored.Status)

	// Meeting the sub-target unlocks completion.
	topUp := deps.Generator.GenerateCollectionEvent(userID,
		scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 2},
	)
	result, err = deps.Service.ApplyCollectionEvent(ctx, topUp)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	require.Len(t, result.Success.Completed, 1)
}
