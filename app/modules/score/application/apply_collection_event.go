package scoreservice

import (
	"context"
	"fmt"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// metricExtractor computes one item's contribution toward a goal's metric.
// The waste type may be nil when the ledger has no entry for the item.
type metricExtractor func(item scoretypes.CollectionItem, wt *wastetypedb.WasteType) float64

// metricExtractors keeps progress tracking a single code path: the goal's
// target type selects the extraction function, nothing branches on it later.
var metricExtractors = map[goaltypes.TargetType]metricExtractor{
	goaltypes.TargetQuantity: func(item scoretypes.CollectionItem, _ *wastetypedb.WasteType) float64 {
		return item.Quantity
	},
	goaltypes.TargetWeight: func(item scoretypes.CollectionItem, wt *wastetypedb.WasteType) float64 {
		if item.WeightKg != nil {
			return *item.WeightKg
		}
		if wt != nil && wt.AverageWeightKg != nil {
			return *wt.AverageWeightKg * item.Quantity
		}
		// No measured weight and no ledger fallback: contributes nothing,
		// never fails the event.
		return 0
	},
}

// ApplyCollectionEvent applies a completed pickup to every matching active
// score of the event's user and evaluates completion for each. Scores are
// independent aggregates: each is updated in its own compare-and-swap cycle,
// and one failing score never aborts the rest.
func (s *ScoreService) ApplyCollectionEvent(ctx context.Context, event scoretypes.CollectionEvent) (CollectionEventResult, error) {
	return withTelemetry(s, ctx, "ApplyCollectionEvent", func(ctx context.Context) (CollectionEventResult, error) {
		if err := event.Validate(); err != nil {
			return CollectionEventResult{
				Failure: &scoreevents.CollectionEventFailedPayloadV1{
					EventID: event.ID,
					UserID:  event.UserID,
					Reason:  err.Error(),
				},
			}, fmt.Errorf("%w: %s", ErrInvalidEvent, err)
		}

		scores, err := s.scoreRepo.GetActiveByUser(ctx, nil, event.UserID)
		if err != nil {
			return CollectionEventResult{}, fmt.Errorf("failed to load active scores: %w", err)
		}

		wasteTypes, err := s.loadEventWasteTypes(ctx, event)
		if err != nil {
			return CollectionEventResult{}, err
		}

		goalIDs := make([]sharedtypes.GoalID, 0, len(scores))
		for _, score := range scores {
			goalIDs = append(goalIDs, score.GoalID)
		}
		goals, err := s.goalRepo.GetByIDs(ctx, nil, goalIDs)
		if err != nil {
			return CollectionEventResult{}, fmt.Errorf("failed to load goals: %w", err)
		}

		payload := scoreevents.CollectionEventAppliedPayloadV1{
			EventID: event.ID,
			UserID:  event.UserID,
		}

		for _, score := range scores {
			goal, ok := goals[score.GoalID]
			if !ok {
				// Dangling goal reference: isolate, report, move on.
				s.logger.ErrorContext(ctx, "score references missing goal",
					attr.ExtractCorrelationID(ctx),
					attr.ScoreID("score_id", score.ID),
					attr.UserID("user_id", score.UserID),
					attr.GoalID("goal_id", score.GoalID),
				)
				payload.Failures = append(payload.Failures, scoreevents.ScoreFailure{
					ScoreID: score.ID,
					UserID:  score.UserID,
					GoalID:  score.GoalID,
					Reason:  "goal not found",
				})
				continue
			}

			updated, completed, err := s.applyEventToScore(ctx, score.ID, goal, event, wasteTypes)
			if err != nil {
				s.logger.ErrorContext(ctx, "failed to apply event to score",
					attr.ExtractCorrelationID(ctx),
					attr.ScoreID("score_id", score.ID),
					attr.UserID("user_id", score.UserID),
					attr.GoalID("goal_id", score.GoalID),
					attr.Error(err),
				)
				payload.Failures = append(payload.Failures, scoreevents.ScoreFailure{
					ScoreID: score.ID,
					UserID:  score.UserID,
					GoalID:  score.GoalID,
					Reason:  err.Error(),
				})
				continue
			}
			if updated {
				payload.UpdatedScoreIDs = append(payload.UpdatedScoreIDs, score.ID)
			}
			if completed != nil {
				payload.Completed = append(payload.Completed, *completed)
				s.metrics.RecordScoreCompleted(ctx, int(completed.Points))
			}
		}

		s.logger.InfoContext(ctx, "collection event applied",
			attr.ExtractCorrelationID(ctx),
			attr.String("event_id", event.ID.String()),
			attr.UserID("user_id", event.UserID),
			attr.Int("updated_scores", len(payload.UpdatedScoreIDs)),
			attr.Int("completed_scores", len(payload.Completed)),
			attr.Int("failed_scores", len(payload.Failures)),
		)
		return CollectionEventResult{Success: &payload}, nil
	})
}

// loadEventWasteTypes resolves the event's waste types against the ledger.
// Unknown types are simply absent from the map.
func (s *ScoreService) loadEventWasteTypes(ctx context.Context, event scoretypes.CollectionEvent) (map[sharedtypes.WasteTypeID]*wastetypedb.WasteType, error) {
	ids := make([]sharedtypes.WasteTypeID, 0, len(event.Items))
	seen := make(map[sharedtypes.WasteTypeID]bool, len(event.Items))
	for _, item := range event.Items {
		if !seen[item.WasteTypeID] {
			seen[item.WasteTypeID] = true
			ids = append(ids, item.WasteTypeID)
		}
	}
	wasteTypes, err := s.wasteTypeRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load waste types: %w", err)
	}
	return wasteTypes, nil
}

// applyEventToScore runs one score's read-modify-write cycle: add the event's
// contributions, record the event in the idempotence ledger, evaluate
// completion, and CAS the result back. Reloads and retries on version
// conflicts so progress and completion are observed as a single step.
func (s *ScoreService) applyEventToScore(
	ctx context.Context,
	scoreID sharedtypes.ScoreID,
	goal *goaltypes.Goal,
	event scoretypes.CollectionEvent,
	wasteTypes map[sharedtypes.WasteTypeID]*wastetypedb.WasteType,
) (updated bool, completed *scoreevents.GoalCompletedPayloadV1, err error) {
	extract, ok := metricExtractors[goal.TargetType]
	if !ok {
		return false, nil, fmt.Errorf("unknown target type %q on goal %s", goal.TargetType, goal.ID)
	}

	err = s.withCASRetry(ctx, func(ctx context.Context) error {
		updated, completed = false, nil

		score, err := s.scoreRepo.GetByID(ctx, nil, scoreID)
		if err != nil {
			return err
		}
		if score.Status != scoretypes.StatusActive {
			return nil
		}
		if score.HasAppliedEvent(event.ID) {
			// Redelivery: the ledger already holds this event.
			return nil
		}

		contributed := false
		for _, item := range event.Items {
			if !goal.TracksWasteType(item.WasteTypeID) {
				continue
			}
			wt, known := wasteTypes[item.WasteTypeID]
			if !known {
				s.metrics.RecordEventSkipped(ctx, "unknown_waste_type")
				continue
			}
			contribution := extract(item, wt)
			if contribution == 0 {
				s.metrics.RecordEventSkipped(ctx, "zero_contribution")
				continue
			}
			if err := score.AddContribution(item.WasteTypeID, contribution); err != nil {
				return err
			}
			contributed = true
		}
		if !contributed {
			return nil
		}

		score.MarkEventApplied(event.ID)

		if score.MeetsTarget(goal) {
			now := s.now()
			if err := score.Complete(goal, now); err != nil {
				return err
			}
			completed = &scoreevents.GoalCompletedPayloadV1{
				ScoreID:     score.ID,
				GoalID:      score.GoalID,
				UserID:      score.UserID,
				Points:      score.EarnedPoints,
				CompletedAt: now,
			}
		}

		if err := s.scoreRepo.UpdateCAS(ctx, nil, score); err != nil {
			return err
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return updated, completed, nil
}
