package scoreservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// JoinGoal opts a user into a goal. The goal must be inside its validity
// window, and the user must not already hold a score for it.
func (s *ScoreService) JoinGoal(ctx context.Context, userID sharedtypes.UserID, goalID sharedtypes.GoalID) (*scoretypes.Score, error) {
	return withTelemetry(s, ctx, "JoinGoal", func(ctx context.Context) (*scoretypes.Score, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (*scoretypes.Score, error) {
			goal, err := s.goalRepo.GetByID(ctx, db, goalID)
			if err != nil {
				return nil, err
			}

			now := s.now()
			if !goal.IsActiveAt(now) {
				s.logger.WarnContext(ctx, "join rejected, goal outside validity window",
					attr.ExtractCorrelationID(ctx),
					attr.UserID("user_id", userID),
					attr.GoalID("goal_id", goalID),
					attr.Time("valid_from", goal.ValidFrom),
					attr.Time("valid_until", goal.ValidUntil),
				)
				return nil, ErrGoalNotActive
			}

			score := &scoretypes.Score{
				UserID:    userID,
				GoalID:    goalID,
				Status:    scoretypes.StatusActive,
				CreatedAt: now,
			}
			if err := s.scoreRepo.Create(ctx, db, score); err != nil {
				if errors.Is(err, scoredb.ErrDuplicate) {
					return nil, ErrAlreadyParticipating
				}
				return nil, fmt.Errorf("failed to create score: %w", err)
			}

			s.logger.InfoContext(ctx, "user joined goal",
				attr.ExtractCorrelationID(ctx),
				attr.UserID("user_id", userID),
				attr.GoalID("goal_id", goalID),
				attr.ScoreID("score_id", score.ID),
			)
			return score, nil
		})
	})
}
