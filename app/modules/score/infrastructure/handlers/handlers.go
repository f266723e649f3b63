package scorehandlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
)

// ScoreHandlers handles score-related events.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics scoremetrics.ScoreMetrics
	helpers sharedutils.Helpers

	handlerWrapper func(handlerName string, newPayload func() any, handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error)) message.HandlerFunc
}

// NewScoreHandlers creates a new ScoreHandlers.
func NewScoreHandlers(
	service scoreservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	helpers sharedutils.Helpers,
	metrics scoremetrics.ScoreMetrics,
) Handlers {
	return &ScoreHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		helpers: helpers,
		metrics: metrics,
		handlerWrapper: func(handlerName string, newPayload func() any, handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error)) message.HandlerFunc {
			return handlerWrapper(handlerName, newPayload, handlerFunc, logger, metrics, tracer, helpers)
		},
	}
}

// handlerWrapper handles the tracing, logging, metrics, and payload
// unmarshalling common to every handler.
func handlerWrapper(
	handlerName string,
	newPayload func() any,
	handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error),
	logger *slog.Logger,
	metrics scoremetrics.ScoreMetrics,
	tracer trace.Tracer,
	helpers sharedutils.Helpers,
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := sharedutils.ContextWithCorrelationID(msg.Context(), msg)
		ctx, span := tracer.Start(ctx, handlerName)
		defer span.End()

		metrics.RecordHandlerAttempt(handlerName)

		startTime := time.Now()
		defer func() {
			metrics.RecordHandlerDuration(handlerName, time.Since(startTime).Seconds())
		}()

		logger.InfoContext(ctx, handlerName+" triggered",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", msg.UUID),
		)

		var payload any
		if newPayload != nil {
			payload = newPayload()
			if err := helpers.UnmarshalPayload(msg, payload); err != nil {
				logger.ErrorContext(ctx, "failed to unmarshal payload",
					attr.ExtractCorrelationID(ctx),
					attr.Error(err),
				)
				metrics.RecordHandlerFailure(handlerName)
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		result, err := handlerFunc(ctx, msg, payload)
		if err != nil {
			logger.ErrorContext(ctx, "error in "+handlerName,
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			metrics.RecordHandlerFailure(handlerName)
			return nil, err
		}

		metrics.RecordHandlerSuccess(handlerName)
		return result, nil
	}
}
