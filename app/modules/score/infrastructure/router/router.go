package scorerouter

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/LiraCode/ecotrack-sub002/app/eventbus"
	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	scorehandlers "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/handlers"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
	"github.com/LiraCode/ecotrack-sub002/config"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// ScoreRouter subscribes the score module's handlers to the event bus and
// publishes whatever they return.
type ScoreRouter struct {
	logger             *slog.Logger
	Router             *message.Router
	subscriber         eventbus.EventBus
	publisher          eventbus.EventBus
	config             *config.Config
	helper             sharedutils.Helpers
	tracer             trace.Tracer
	metricsBuilder     *metrics.PrometheusMetricsBuilder
	prometheusRegistry *prometheus.Registry
	metricsEnabled     bool
}

func NewScoreRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	config *config.Config,
	helper sharedutils.Helpers,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *ScoreRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && !inTestEnv {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &ScoreRouter{
		logger:             logger,
		Router:             router,
		subscriber:         subscriber,
		publisher:          publisher,
		config:             config,
		helper:             helper,
		tracer:             tracer,
		metricsBuilder:     metricsBuilder,
		prometheusRegistry: prometheusRegistry,
		metricsEnabled:     prometheusRegistry != nil && !inTestEnv,
	}
}

// Configure registers the score handlers and middleware on the router held by
// the ScoreRouter.
func (r *ScoreRouter) Configure(routerCtx context.Context, scoreService scoreservice.Service, scoreMetrics scoremetrics.ScoreMetrics) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	handlers := scorehandlers.NewScoreHandlers(scoreService, r.logger, r.tracer, r.helper, scoreMetrics)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	if err := r.RegisterHandlers(routerCtx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers wires each subscribed topic to its handler. Outgoing
// messages carry their destination topic in metadata; anything without one is
// dropped rather than failing the batch.
func (r *ScoreRouter) RegisterHandlers(ctx context.Context, handlers scorehandlers.Handlers) error {
	eventsToHandlers := map[string]message.HandlerFunc{
		scoreevents.CollectionEventRecordedV1: handlers.HandleCollectionEventRecorded,
		scoreevents.SweepRequestedV1:          handlers.HandleSweepRequested,
	}

	for topic, handlerFunc := range eventsToHandlers {
		handlerName := fmt.Sprintf("score.%s", topic)
		r.Router.AddHandler(
			handlerName,
			topic,
			r.subscriber,
			"",
			nil,
			func(msg *message.Message) ([]*message.Message, error) {
				messages, err := handlerFunc(msg)
				if err != nil {
					r.logger.ErrorContext(ctx, "Error processing message", attr.String("message_id", msg.UUID), attr.Any("error", err))
					return nil, err
				}
				for _, m := range messages {
					publishTopic := m.Metadata.Get("topic")
					if publishTopic == "" {
						r.logger.Error("router failed to resolve publish topic - MESSAGE DROPPED",
							attr.String("handler", handlerName),
							attr.String("msg_uuid", m.UUID),
							attr.String("correlation_id", m.Metadata.Get("correlation_id")),
						)
						continue
					}

					r.logger.InfoContext(ctx, "publishing message",
						attr.String("topic", publishTopic),
						attr.String("handler", handlerName),
						attr.String("correlation_id", m.Metadata.Get("correlation_id")),
					)

					if err := r.publisher.Publish(publishTopic, m); err != nil {
						return nil, fmt.Errorf("failed to publish to %s: %w", publishTopic, err)
					}
				}
				return nil, nil
			},
		)
	}
	return nil
}

func (r *ScoreRouter) Close() error {
	return r.Router.Close()
}
