package scoreservice

import (
	"context"
	"fmt"
	"time"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// sweepBatchSize bounds how many scores one batch pulls from the repository.
const sweepBatchSize = 500

// SweepExpired transitions every active score whose goal window closed before
// asOf to expired. Progress fields are untouched. Idempotent: already-terminal
// scores are never re-expired, so repeated sweeps with a fixed cutoff yield a
// stable cumulative count. Per-score failures are collected, never fatal.
//
// Completion takes precedence: a score that already satisfies its goal when
// the sweep reaches it is completed, not expired.
func (s *ScoreService) SweepExpired(ctx context.Context, asOf time.Time) (SweepResult, error) {
	return withTelemetry(s, ctx, "SweepExpired", func(ctx context.Context) (SweepResult, error) {
		var result SweepResult
		var afterID *sharedtypes.ScoreID

		for {
			if err := ctx.Err(); err != nil {
				// Caller abandoned the sweep; transitions already written
				// stay committed.
				return result, err
			}
			if s.sweepLimiter != nil {
				if err := s.sweepLimiter.Wait(ctx); err != nil {
					return result, err
				}
			}

			scores, err := s.scoreRepo.ListActiveExpirable(ctx, nil, asOf, afterID, s.sweepBatchSize)
			if err != nil {
				return result, fmt.Errorf("failed to list expirable scores: %w", err)
			}
			if len(scores) == 0 {
				break
			}

			goalIDs := make([]sharedtypes.GoalID, 0, len(scores))
			for _, score := range scores {
				goalIDs = append(goalIDs, score.GoalID)
			}
			goals, err := s.goalRepo.GetByIDs(ctx, nil, goalIDs)
			if err != nil {
				return result, fmt.Errorf("failed to load goals for sweep: %w", err)
			}

			for _, score := range scores {
				s.sweepScore(ctx, score.ID, goals[score.GoalID], &result)
			}

			lastID := scores[len(scores)-1].ID
			afterID = &lastID
			if len(scores) < s.sweepBatchSize {
				break
			}
		}

		s.logger.InfoContext(ctx, "expiration sweep finished",
			attr.ExtractCorrelationID(ctx),
			attr.Time("as_of", asOf),
			attr.Int("expired", result.Expired),
			attr.Int("completed", len(result.Completed)),
			attr.Int("failed", len(result.Failures)),
		)
		return result, nil
	})
}

// sweepScore expires (or completes) a single score in its own CAS cycle and
// records the outcome into result. Failures are appended, never returned.
func (s *ScoreService) sweepScore(ctx context.Context, scoreID sharedtypes.ScoreID, goal *goaltypes.Goal, result *SweepResult) {
	err := s.withCASRetry(ctx, func(ctx context.Context) error {
		score, err := s.scoreRepo.GetByID(ctx, nil, scoreID)
		if err != nil {
			return err
		}
		if score.Status != scoretypes.StatusActive {
			// Another writer already finished this score.
			return nil
		}
		if goal == nil {
			return fmt.Errorf("goal %s not found", score.GoalID)
		}

		if score.MeetsTarget(goal) {
			now := s.now()
			if err := score.Complete(goal, now); err != nil {
				return err
			}
			if err := s.scoreRepo.UpdateCAS(ctx, nil, score); err != nil {
				return err
			}
			result.Completed = append(result.Completed, scoreevents.GoalCompletedPayloadV1{
				ScoreID:     score.ID,
				GoalID:      score.GoalID,
				UserID:      score.UserID,
				Points:      score.EarnedPoints,
				CompletedAt: now,
			})
			s.metrics.RecordScoreCompleted(ctx, int(score.EarnedPoints))
			return nil
		}

		if err := score.Expire(); err != nil {
			return err
		}
		if err := s.scoreRepo.UpdateCAS(ctx, nil, score); err != nil {
			return err
		}
		result.Expired++
		s.metrics.RecordScoreExpired(ctx)
		return nil
	})
	if err != nil {
		score, loadErr := s.scoreRepo.GetByID(ctx, nil, scoreID)
		failure := scoreevents.ScoreFailure{ScoreID: scoreID, Reason: err.Error()}
		if loadErr == nil {
			failure.UserID = score.UserID
			failure.GoalID = score.GoalID
		}
		s.logger.ErrorContext(ctx, "failed to sweep score",
			attr.ExtractCorrelationID(ctx),
			attr.ScoreID("score_id", scoreID),
			attr.UserID("user_id", failure.UserID),
			attr.GoalID("goal_id", failure.GoalID),
			attr.Error(err),
		)
		result.Failures = append(result.Failures, failure)
	}
}
