package scoreservice

import (
	"context"

	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// EvaluateCompletion checks one score against its goal and completes it when
// the aggregate target and every declared sub-target are satisfied.
// Re-entrant safe: a terminal score is returned unchanged with no payload, so
// repeated invocations can never re-award points.
func (s *ScoreService) EvaluateCompletion(ctx context.Context, scoreID sharedtypes.ScoreID) (*scoretypes.Score, *scoreevents.GoalCompletedPayloadV1, error) {
	type evalResult struct {
		score     *scoretypes.Score
		completed *scoreevents.GoalCompletedPayloadV1
	}

	result, err := withTelemetry(s, ctx, "EvaluateCompletion", func(ctx context.Context) (evalResult, error) {
		var res evalResult
		err := s.withCASRetry(ctx, func(ctx context.Context) error {
			res = evalResult{}

			score, err := s.scoreRepo.GetByID(ctx, nil, scoreID)
			if err != nil {
				return err
			}
			res.score = score

			if score.Status != scoretypes.StatusActive {
				return nil
			}

			goal, err := s.goalRepo.GetByID(ctx, nil, score.GoalID)
			if err != nil {
				return err
			}
			if !score.MeetsTarget(goal) {
				return nil
			}

			now := s.now()
			if err := score.Complete(goal, now); err != nil {
				return err
			}
			if err := s.scoreRepo.UpdateCAS(ctx, nil, score); err != nil {
				return err
			}

			res.completed = &scoreevents.GoalCompletedPayloadV1{
				ScoreID:     score.ID,
				GoalID:      score.GoalID,
				UserID:      score.UserID,
				Points:      score.EarnedPoints,
				CompletedAt: now,
			}
			return nil
		})
		return res, err
	})
	if err != nil {
		return nil, nil, err
	}

	if result.completed != nil {
		s.metrics.RecordScoreCompleted(ctx, int(result.completed.Points))
		s.logger.InfoContext(ctx, "score completed, points awarded",
			attr.ExtractCorrelationID(ctx),
			attr.ScoreID("score_id", result.score.ID),
			attr.UserID("user_id", result.score.UserID),
			attr.GoalID("goal_id", result.score.GoalID),
			attr.Int("points", int(result.completed.Points)),
		)
	}
	return result.score, result.completed, nil
}
