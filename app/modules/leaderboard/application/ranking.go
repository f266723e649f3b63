package leaderboardservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
	leaderboarddb "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/repositories"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// RefreshRanking recomputes the ranking from completed scores and persists it
// as a new snapshot. The aggregation and the snapshot write share one
// transaction so a refresh never stores a standings view it did not read.
func (s *LeaderboardService) RefreshRanking(ctx context.Context) (leaderboardtypes.Ranking, error) {
	return withTelemetry(s, ctx, "RefreshRanking", func(ctx context.Context) (leaderboardtypes.Ranking, error) {
		ranking, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (leaderboardtypes.Ranking, error) {
			entries, err := s.repo.AggregateStandings(ctx, db)
			if err != nil {
				return leaderboardtypes.Ranking{}, err
			}

			ranking := leaderboardtypes.BuildRanking(s.now().UTC(), entries)
			if err := s.repo.SaveSnapshot(ctx, db, ranking); err != nil {
				return leaderboardtypes.Ranking{}, err
			}
			return ranking, nil
		})
		if err != nil {
			return leaderboardtypes.Ranking{}, err
		}

		s.metrics.RecordRankingSize(ctx, len(ranking.Entries))
		s.logger.InfoContext(ctx, "ranking refreshed",
			attr.ExtractCorrelationID(ctx),
			attr.Int("users", len(ranking.Entries)),
		)
		return ranking, nil
	})
}

// GetRanking returns the latest snapshot, computing a fresh one when no
// snapshot was ever taken.
func (s *LeaderboardService) GetRanking(ctx context.Context) (leaderboardtypes.Ranking, error) {
	return withTelemetry(s, ctx, "GetRanking", func(ctx context.Context) (leaderboardtypes.Ranking, error) {
		ranking, err := s.repo.GetLatestSnapshot(ctx, nil)
		if errors.Is(err, leaderboarddb.ErrNotFound) {
			return s.RefreshRanking(ctx)
		}
		if err != nil {
			return leaderboardtypes.Ranking{}, fmt.Errorf("failed to load ranking snapshot: %w", err)
		}
		return ranking, nil
	})
}

// GetUserPosition returns the user's 1-based position in the latest ranking,
// 0 when the user has no completed goals.
func (s *LeaderboardService) GetUserPosition(ctx context.Context, userID sharedtypes.UserID) (int, error) {
	return withTelemetry(s, ctx, "GetUserPosition", func(ctx context.Context) (int, error) {
		ranking, err := s.GetRanking(ctx)
		if err != nil {
			return 0, err
		}
		return ranking.PositionOf(userID), nil
	})
}
