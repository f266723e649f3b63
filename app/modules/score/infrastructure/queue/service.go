// Package scorequeue schedules the recurring expiration sweep with River.
// River runs on its own pgx pool against the same Postgres instance as the
// rest of the module, so sweep scheduling survives restarts without extra
// infrastructure.
package scorequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"

	"github.com/LiraCode/ecotrack-sub002/app/eventbus"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
)

// QueueService is the scheduling contract exposed to the score module.
type QueueService interface {
	// ScheduleSweep enqueues a one-off sweep for the given cutoff.
	ScheduleSweep(ctx context.Context, asOf time.Time) error
	// HealthCheck verifies the queue service is healthy.
	HealthCheck(ctx context.Context) error
	// Start starts job processing and the periodic sweep.
	Start(ctx context.Context) error
	// Stop stops the queue service.
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service drives sweep scheduling for the score module using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	db      *bun.DB
	logger  *slog.Logger
	metrics scoremetrics.ScoreMetrics
}

// NewService creates a River-backed queue service. The periodic job fires a
// sweep every sweepInterval; each run publishes a sweep request with the
// execution time as cutoff.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, sweepInterval time.Duration, metrics scoremetrics.ScoreMetrics, eventBus eventbus.EventBus) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_score_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_queue")

	ctxLogger.Info("Initializing score queue service",
		attr.Duration("sweep_interval", sweepInterval))

	// River requires pgx, not database/sql.
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSweepWorker(ctxLogger, eventBus))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			"score":            {MaxWorkers: 5},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(sweepInterval),
				func() (river.JobArgs, *river.InsertOpts) {
					return SweepJob{}, &river.InsertOpts{Queue: "score"}
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_queue")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	service := &Service{
		client:  riverClient,
		pool:    pool,
		db:      bunDB,
		logger:  ctxLogger,
		metrics: metrics,
	}

	metrics.RecordOperationSuccess(ctx, "initialize_queue")
	metrics.RecordOperationDuration(ctx, "initialize_queue", time.Since(start))

	ctxLogger.Info("Score queue service initialized successfully")
	return service, nil
}

// Start starts the River client and with it the periodic sweep.
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_queue")

	s.logger.Info("Starting score queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_queue")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_queue")
	s.metrics.RecordOperationDuration(ctx, "start_queue", time.Since(start))

	s.logger.Info("Score queue service started successfully")
	return nil
}

// Stop stops the River client and releases the pgx pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_queue")

	s.logger.Info("Stopping score queue service")

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_queue")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()

	s.metrics.RecordOperationSuccess(ctx, "stop_queue")
	s.metrics.RecordOperationDuration(ctx, "stop_queue", time.Since(start))

	s.logger.Info("Score queue service stopped successfully")
	return nil
}

// ScheduleSweep enqueues a one-off sweep for the given cutoff, on top of the
// periodic schedule. Duplicate requests for the same cutoff collapse into one
// job.
func (s *Service) ScheduleSweep(ctx context.Context, asOf time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_sweep")

	ctxLogger := s.logger.With(
		attr.Time("as_of", asOf),
		attr.String("operation", "schedule_sweep"),
	)

	jobResult, err := s.client.Insert(ctx, SweepJob{AsOf: asOf}, &river.InsertOpts{
		Queue: "score",
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to schedule sweep job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "schedule_sweep")
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_sweep")
	s.metrics.RecordOperationDuration(ctx, "schedule_sweep", time.Since(start))

	ctxLogger.Info("Sweep job scheduled",
		attr.Int64("job_id", jobResult.Job.ID))
	return nil
}

// HealthCheck verifies the queue service can reach its job table.
func (s *Service) HealthCheck(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "queue_health_check")

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "queue_health_check")
		return fmt.Errorf("river client is nil")
	}

	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "queue_health_check")
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "queue_health_check")
	s.metrics.RecordOperationDuration(ctx, "queue_health_check", time.Since(start))

	s.logger.Debug("Queue service health check passed", attr.Int("total_jobs", count))
	return nil
}

// GetClient returns the underlying River client for advanced operations.
func (s *Service) GetClient() *river.Client[pgx.Tx] {
	return s.client
}
