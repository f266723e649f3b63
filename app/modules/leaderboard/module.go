// Package leaderboard wires the leaderboard module: ranking aggregation and
// snapshot publication.
package leaderboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"

	"github.com/LiraCode/ecotrack-sub002/app/eventbus"
	leaderboardservice "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/application"
	leaderboardapi "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/api"
	leaderboarddb "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/router"
	"github.com/LiraCode/ecotrack-sub002/app/observability"
	leaderboardmetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/leaderboard"
	"github.com/LiraCode/ecotrack-sub002/app/shared/auth"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
	"github.com/LiraCode/ecotrack-sub002/config"
	"github.com/LiraCode/ecotrack-sub002/db/bundb"
)

// Module represents the leaderboard module.
type Module struct {
	EventBus           eventbus.EventBus
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	config             *config.Config
	observability      *observability.Observability
	helper             sharedutils.Helpers
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	dbService *bundb.DBService,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	helpers sharedutils.Helpers,
) (*Module, error) {
	obs.Logger.Info("leaderboard.NewLeaderboardModule called")

	metrics := leaderboardmetrics.NewPrometheus(obs.Registry)

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.New(dbService.GetDB()),
		obs.Logger,
		metrics,
		obs.Tracer,
		dbService.GetDB(),
	)

	lbRouter := leaderboardrouter.NewLeaderboardRouter(
		obs.Logger,
		router,
		eventBus,
		eventBus,
		cfg,
		helpers,
		obs.Tracer,
		obs.Registry,
	)

	if err := lbRouter.Configure(ctx, service, metrics); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	if httpRouter != nil {
		apiHandlers := leaderboardapi.NewHandlers(service, obs.Logger, metrics)
		apiHandlers.RegisterRoutes(httpRouter, auth.NewVerifier(cfg.JWT.Secret))
	}

	return &Module{
		EventBus:           eventBus,
		LeaderboardService: service,
		LeaderboardRouter:  lbRouter,
		config:             cfg,
		observability:      obs,
		helper:             helpers,
	}, nil
}

// Run keeps the module alive until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.observability.Logger.Info("Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.observability.Logger.Info("Leaderboard module goroutine stopped")
}

func (m *Module) Close() error {
	m.observability.Logger.Info("Stopping leaderboard module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
