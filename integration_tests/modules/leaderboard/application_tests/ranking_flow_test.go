package leaderboardintegrationtests

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
	"github.com/LiraCode/ecotrack-sub002/integration_tests/testutils"
)

func TestRankingFlow_OrdersByPointsThenGoalsThenUser(t *testing.T) {
	deps := SetupTestLeaderboardService(t)
	ctx := deps.Ctx

	testutils.SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	bigGoal := deps.Generator.GenerateGoal(testutils.GoalOptions{TargetValue: 2, Points: 50})
	smallGoal := deps.Generator.GenerateGoal(testutils.GoalOptions{TargetValue: 2, Points: 30})
	testutils.SeedGoal(t, ctx, deps.BunDB, bigGoal)
	testutils.SeedGoal(t, ctx, deps.BunDB, smallGoal)

	champion := deps.Generator.GenerateUserID()
	runnerUp := deps.Generator.GenerateUserID()
	third := deps.Generator.GenerateUserID()

	complete := func(userID sharedtypes.UserID, goalID sharedtypes.GoalID) {
		t.Helper()
		_, err := deps.ScoreService.JoinGoal(ctx, userID, goalID)
		require.NoError(t, err)
		event := deps.Generator.GenerateCollectionEvent(userID,
			scoretypes.CollectionItem{WasteTypeID: "plastic", Quantity: 2},
		)
		result, err := deps.ScoreService.ApplyCollectionEvent(ctx, event)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
	}

	complete(champion, bigGoal.ID)
	complete(champion, smallGoal.ID)
	complete(runnerUp, bigGoal.ID)
	complete(third, smallGoal.ID)

	ranking, err := deps.Service.RefreshRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking.Entries, 3)

	require.Equal(t, champion, ranking.Entries[0].UserID)
	require.Equal(t, 1, ranking.Entries[0].Position)
	require.Equal(t, sharedtypes.Points(80), ranking.Entries[0].TotalPoints)
	require.Equal(t, 2, ranking.Entries[0].GoalsCompleted)

	require.Equal(t, runnerUp, ranking.Entries[1].UserID)
	require.Equal(t, 2, ranking.Entries[1].Position)

	require.Equal(t, third, ranking.Entries[2].UserID)
	require.Equal(t, 3, ranking.Entries[2].Position)

	// GetRanking serves the persisted snapshot.
	cached, err := deps.Service.GetRanking(ctx)
	require.NoError(t, err)
	require.Equal(t, ranking.Entries, cached.Entries)

	pos, err := deps.Service.GetUserPosition(ctx, runnerUp)
	require.NoError(t, err)
	require.Equal(t, 2, pos)

	pos, err = deps.Service.GetUserPosition(ctx, "user-never-seen")
	require.NoError(t, err)
	require.Zero(t, pos)
}

func TestRankingFlow_TiesBreakByUserID(t *testing.T) {
	deps := SetupTestLeaderboardService(t)
	ctx := deps.Ctx

	testutils.SeedWasteTypes(t, ctx, deps.BunDB, deps.Generator.GenerateWasteTypes())

	goal := deps.Generator.GenerateGoal(testutils.GoalOptions{TargetValue: 1, Points: 25})
	testutils.SeedGoal(t, ctx, deps.BunDB, goal)

	users := []sharedtypes.UserID{
		deps.Generator.GenerateUserID(),
		deps.Generator.GenerateUserID(),
		deps.Generator.GenerateUserID(),
	}
	for _, userID := range users {
		_, err := deps.ScoreService.JoinGoal(ctx, userID, goal.ID)
		require.NoError(t, err)
		event := deps.Generator.GenerateCollectionEvent(userID,
			scoretypes.CollectionItem{WasteTypeID: "paper", Quantity: 1},
		)
		result, err := deps.ScoreService.ApplyCollectionEvent(ctx, event)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
	}

	ranking, err := deps.Service.RefreshRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranking.Entries, 3)

	sorted := make([]string, len(users))
	for i, u := range users {
		sorted[i] = u.String()
	}
	sort.Strings(sorted)

	for i, entry := range ranking.Entries {
		require.Equal(t, sorted[i], entry.UserID.String())
		require.Equal(t, i+1, entry.Position, "positions are strict even in a tie")
		require.Equal(t, sharedtypes.Points(25), entry.TotalPoints)
	}
}

func TestRankingFlow_EmptyStandings(t *testing.T) {
	deps := SetupTestLeaderboardService(t)

	ranking, err := deps.Service.RefreshRanking(deps.Ctx)
	require.NoError(t, err)
	require.Empty(t, ranking.Entries)
}
