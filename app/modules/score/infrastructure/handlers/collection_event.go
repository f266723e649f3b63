package scorehandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
)

// HandleCollectionEventRecorded applies a recorded pickup to the user's active
// scores and publishes the outcome. Malformed events produce a failure message
// and are acked; per-score failures ride inside the applied payload.
func (h *ScoreHandlers) HandleCollectionEventRecorded(msg *message.Message) ([]*message.Message, error) {
	wrapped := h.handlerWrapper(
		"HandleCollectionEventRecorded",
		func() any { return &scoreevents.CollectionEventRecordedPayloadV1{} },
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			recorded := payload.(*scoreevents.CollectionEventRecordedPayloadV1)

			result, err := h.service.ApplyCollectionEvent(ctx, recorded.Event)
			if err != nil && result.Failure == nil {
				return nil, err
			}

			if result.Failure != nil {
				h.logger.InfoContext(ctx, "collection event rejected",
					attr.ExtractCorrelationID(ctx),
					attr.CollectionEventID("event_id", result.Failure.EventID),
					attr.String("reason", result.Failure.Reason),
				)
				failMsg, err := h.helpers.CreateResultMessage(msg, result.Failure, scoreevents.CollectionEventFailedV1)
				if err != nil {
					return nil, fmt.Errorf("failed to create failure message: %w", err)
				}
				return []*message.Message{failMsg}, nil
			}

			applied := result.Success
			if applied == nil {
				return nil, fmt.Errorf("unexpected result from service: neither success nor failure")
			}
			appliedMsg, err := h.helpers.CreateResultMessage(msg, applied, scoreevents.CollectionEventAppliedV1)
			if err != nil {
				return nil, fmt.Errorf("failed to create applied message: %w", err)
			}

			out := []*message.Message{appliedMsg}
			for i := range applied.Completed {
				completedMsg, err := h.helpers.CreateResultMessage(msg, &applied.Completed[i], scoreevents.GoalCompletedV1)
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
