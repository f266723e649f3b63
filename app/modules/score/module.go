// Package score wires the score module: progress tracking, completion
// evaluation, expiration sweeps, and points accrual.
package score

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"

	"github.com/LiraCode/ecotrack-sub002/app/eventbus"
	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoreapi "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/api"
	"github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/parsers"
	scorequeue "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/queue"
	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/router"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	"github.com/LiraCode/ecotrack-sub002/app/observability"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/app/shared/auth"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
	"github.com/LiraCode/ecotrack-sub002/config"
	"github.com/LiraCode/ecotrack-sub002/db/bundb"
)

// Module represents the score module.
type Module struct {
	EventBus      eventbus.EventBus
	ScoreService  scoreservice.Service
	ScoreRouter   *scorerouter.ScoreRouter
	QueueService  scorequeue.QueueService
	config        *config.Config
	observability *observability.Observability
	helper        sharedutils.Helpers
	cancelFunc    context.CancelFunc
}

// NewScoreModule creates a new instance of the score module.
func NewScoreModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	dbService *bundb.DBService,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	helpers sharedutils.Helpers,
) (*Module, error) {
	obs.Logger.Info("score.NewScoreModule called")

	metrics := scoremetrics.NewPrometheus(obs.Registry)

	scoreService := scoreservice.NewScoreService(
		scoredb.New(dbService.GetDB()),
		goaldb.New(dbService.GetDB()),
		wastetypedb.New(dbService.GetDB()),
		obs.Logger,
		metrics,
		obs.Tracer,
		dbService.GetDB(),
	)
	scoreService.SetSweepBatchSize(cfg.Sweep.BatchSize)
	scoreService.SetSweepRateLimit(cfg.Sweep.RateLimit)

	scoreRouter := scorerouter.NewScoreRouter(
		obs.Logger,
		router,
		eventBus,
		eventBus,
		cfg,
		helpers,
		obs.Tracer,
		obs.Registry,
	)

	if err := scoreRouter.Configure(ctx, scoreService, metrics); err != nil {
		return nil, fmt.Errorf("failed to configure score router: %w", err)
	}

	queueService, err := scorequeue.NewService(
		ctx,
		dbService.GetDB(),
		obs.Logger,
		cfg.Postgres.DSN,
		cfg.Sweep.Interval,
		metrics,
		eventBus,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create score queue service: %w", err)
	}

	if httpRouter != nil {
		apiHandlers := scoreapi.NewHandlers(
			scoreService,
			parsers.NewXLSXParser(),
			eventBus,
			obs.Logger,
			metrics,
		)
		apiHandlers.RegisterRoutes(httpRouter, auth.NewVerifier(cfg.JWT.Secret))
	}

	return &Module{
		EventBus:      eventBus,
		ScoreService:  scoreService,
		ScoreRouter:   scoreRouter,
		QueueService:  queueService,
		config:        cfg,
		observability: obs,
		helper:        helpers,
	}, nil
}

// Run keeps the module alive until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.observability.Logger.Info("Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.QueueService.Start(ctx); err != nil {
		m.observability.Logger.Error("Failed to start score queue service", "error", err)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := m.QueueService.Stop(stopCtx); err != nil {
		m.observability.Logger.Error("Failed to stop score queue service", "error", err)
	}

	m.observability.Logger.Info("Score module goroutine stopped")
}

func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping score module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
