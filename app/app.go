// Package app bootstraps the engine: config, observability, database, event
// bus, the watermill router, and the score and leaderboard modules.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/LiraCode/ecotrack-sub002/app/eventbus"
	"github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard"
	leaderboardevents "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/events"
	"github.com/LiraCode/ecotrack-sub002/app/modules/score"
	"github.com/LiraCode/ecotrack-sub002/app/observability"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	"github.com/LiraCode/ecotrack-sub002/app/shared/auth"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
	"github.com/LiraCode/ecotrack-sub002/config"
	"github.com/LiraCode/ecotrack-sub002/db/bundb"
)

// App holds the application components.
type App struct {
	Config            *config.Config
	Observability     *observability.Observability
	DB                *bundb.DBService
	EventBus          eventbus.EventBus
	WatermillRouter   *message.Router
	ScoreModule       *score.Module
	LeaderboardModule *leaderboard.Module

	apiServer     *http.Server
	metricsServer *observability.MetricsServer
	helpers       sharedutils.Helpers
}

// NewApp builds the full application graph. Nothing starts running until Run.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:    "ecotrack-engine",
		Environment:    cfg.Observability.Environment,
		MetricsAddress: cfg.Observability.MetricsAddress,
		SampleRate:     cfg.Observability.SampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	eventBus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	if err := initializeStreams(ctx, eventBus); err != nil {
		return nil, fmt.Errorf("failed to initialize streams: %w", err)
	}

	watermillRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	helpers := sharedutils.NewHelpers()

	httpRouter := chi.NewRouter()
	httpRouter.Use(middleware.Recoverer)
	httpRouter.Use(auth.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	httpRouter.Use(auth.RateLimitMiddleware(auth.NewIPRateLimiter(5, 10)))

	scoreModule, err := score.NewScoreModule(ctx, cfg, obs, dbService, eventBus, watermillRouter, httpRouter, helpers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize score module: %w", err)
	}

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, dbService, eventBus, watermillRouter, httpRouter, helpers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	application := &App{
		Config:            cfg,
		Observability:     obs,
		DB:                dbService,
		EventBus:          eventBus,
		WatermillRouter:   watermillRouter,
		ScoreModule:       scoreModule,
		LeaderboardModule: leaderboardModule,
		helpers:           helpers,
	}
	application.apiServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	application.metricsServer = observability.NewMetricsServer(obs, cfg.Observability.MetricsAddress,
		func(ctx context.Context) error {
			return dbService.GetDB().PingContext(ctx)
		})

	return application, nil
}

// initializeStreams declares the JetStream streams the engine publishes and
// consumes. Subjects are grouped per producing domain.
func initializeStreams(ctx context.Context, eventBus eventbus.EventBus) error {
	streams := map[string][]string{
		"collection":  {"collection.event.>"},
		"score":       {"score.>"},
		"leaderboard": {leaderboardevents.RankingUpdatedV1, leaderboardevents.RankingUpdateFailedV1},
	}
	for name, subjects := range streams {
		if err := eventBus.CreateStream(ctx, name, subjects...); err != nil {
			return err
		}
	}
	return nil
}

// Run starts the watermill router, both modules, and the metrics server, then
// blocks until ctx is canceled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger
	logger.Info("Starting application")

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.WatermillRouter.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Watermill router stopped unexpectedly", attr.Error(err))
		}
	}()

	// Handlers are registered before Run; wait until the router is actually
	// consuming before starting the sweep scheduler.
	select {
	case <-app.WatermillRouter.Running():
	case <-ctx.Done():
		return ctx.Err()
	}

	wg.Add(1)
	go app.ScoreModule.Run(ctx, &wg)

	wg.Add(1)
	go app.LeaderboardModule.Run(ctx, &wg)

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("API server listening", attr.String("address", app.apiServer.Addr))
		if err := app.apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server stopped unexpectedly", attr.Error(err))
		}
	}()

	app.metricsServer.Start()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down API server", attr.Error(err))
	}
	if err := app.metricsServer.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to shut down metrics server", attr.Error(err))
	}

	wg.Wait()
	return nil
}

// Close releases everything Run left open. Safe to call after Run returns.
func (app *App) Close() {
	logger := app.Observability.Logger

	if err := app.ScoreModule.Close(); err != nil {
		logger.Error("Failed to close score module", attr.Error(err))
	}
	if err := app.LeaderboardModule.Close(); err != nil {
		logger.Error("Failed to close leaderboard module", attr.Error(err))
	}
	if err := app.WatermillRouter.Close(); err != nil {
		logger.Error("Failed to close watermill router", attr.Error(err))
	}
	if err := app.EventBus.Close(); err != nil {
		logger.Error("Failed to close event bus", attr.Error(err))
	}
	if err := app.DB.Close(); err != nil {
		logger.Error("Failed to close database", attr.Error(err))
	}
	if err := app.Observability.Shutdown(context.Background()); err != nil {
		logger.Error("Failed to shut down observability", attr.Error(err))
	}
}
