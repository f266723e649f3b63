package scorehandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
)

// HandleSweepRequested runs an expiration sweep as of the requested cutoff and
// publishes the outcome. Scores whose goal was already satisfied complete
// instead of expiring, so a sweep can also emit goal completions.
func (h *ScoreHandlers) HandleSweepRequested(msg *message.Message) ([]*message.Message, error) {
	wrapped := h.handlerWrapper(
		"HandleSweepRequested",
		func() any { return &scoreevents.SweepRequestedPayloadV1{} },
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			requested := payload.(*scoreevents.SweepRequestedPayloadV1)

			result, err := h.service.SweepExpired(ctx, requested.AsOf)
			if err != nil {
				return nil, err
			}

			h.logger.InfoContext(ctx, "sweep finished",
				attr.ExtractCorrelationID(ctx),
				attr.Time("as_of", requested.AsOf),
				attr.Int("expired", result.Expired),
				attr.Int("completed", len(result.Completed)),
				attr.Int("failures", len(result.Failures)),
			)

			completedPayload := &scoreevents.SweepCompletedPayloadV1{
				AsOf:     requested.AsOf,
				Expired:  result.Expired,
				Failures: result.Failures,
			}
			sweepMsg, err := h.helpers.CreateResultMessage(msg, completedPayload, scoreevents.SweepCompletedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create sweep completed message: %w", err)
			}

			out := []*message.Message{sweepMsg}
			for i := range result.Completed {
				completedMsg, err := h.helpers.CreateResultMessage(msg, &result.Completed[i], scoreevents.GoalCompletedV1)
				if err != nil {
					return nil, fmt.Errorf("failed to create goal completed message: %w", err)
				}
				out = append(out, completedMsg)
			}
			return out, nil
		},
	)
	return wrapped(msg)
}
