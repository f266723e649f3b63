package leaderboardhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	leaderboardevents "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/events"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
)

// HandleGoalCompleted refreshes the ranking snapshot after a goal completion
// and publishes the new standings. Refresh failures are returned so the
// message is retried; the snapshot is recomputed from scratch each time, so
// redelivery is harmless.
func (h *LeaderboardHandlers) HandleGoalCompleted(msg *message.Message) ([]*message.Message, error) {
	wrapped := h.handlerWrapper(
		"HandleGoalCompleted",
		func() any { return &scoreevents.GoalCompletedPayloadV1{} },
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			completed := payload.(*scoreevents.GoalCompletedPayloadV1)

			h.logger.InfoContext(ctx, "refreshing ranking after goal completion",
				attr.ExtractCorrelationID(ctx),
				attr.UserID("user_id", completed.UserID),
				attr.GoalID("goal_id", completed.GoalID),
			)

			ranking, err := h.service.RefreshRanking(ctx)
			if err != nil {
				return nil, err
			}

			updatedPayload := &leaderboardevents.RankingUpdatedPayloadV1{
				GeneratedAt: ranking.GeneratedAt,
				Entries:     ranking.Entries,
			}
			updatedMsg, err := h.helpers.CreateResultMessage(msg, updatedPayload, leaderboardevents.RankingUpdatedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create ranking updated message: %w", err)
			}
			return []*message.Message{updatedMsg}, nil
		},
	)
	return wrapped(msg)
}
