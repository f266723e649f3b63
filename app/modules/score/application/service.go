package scoreservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
)

// casRetries bounds how often a read-modify-write is retried after losing an
// optimistic concurrency race against another writer.
const casRetries = 3

// ScoreService implements the Service interface.
type ScoreService struct {
	scoreRepo     scoredb.Repository
	goalRepo      goaldb.Repository
	wasteTypeRepo wastetypedb.Repository
	logger        *slog.Logger
	metrics       scoremetrics.ScoreMetrics
	tracer        trace.Tracer
	db            *bun.DB

	sweepBatchSize int
	sweepLimiter   *rate.Limiter

	// now is swappable in tests.
	now func() time.Time
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	scoreRepo scoredb.Repository,
	goalRepo goaldb.Repository,
	wasteTypeRepo wastetypedb.Repository,
	logger *slog.Logger,
	metrics scoremetrics.ScoreMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoreService {
	return &ScoreService{
		scoreRepo:      scoreRepo,
		goalRepo:       goalRepo,
		wasteTypeRepo:  wasteTypeRepo,
		logger:         logger,
		metrics:        metrics,
		tracer:         tracer,
		db:             db,
		sweepBatchSize: sweepBatchSize,
		now:            time.Now,
	}
}

// SetSweepBatchSize overrides the default sweep batch size.
func (s *ScoreService) SetSweepBatchSize(n int) {
	if n > 0 {
		s.sweepBatchSize = n
	}
}

// SetSweepRateLimit caps how many sweep batches per second hit the database.
// Zero or negative disables the limiter.
func (s *ScoreService) SetSweepRateLimit(batchesPerSecond float64) {
	if batchesPerSecond > 0 {
		s.sweepLimiter = rate.NewLimiter(rate.Limit(batchesPerSecond), 1)
	} else {
		s.sweepLimiter = nil
	}
}

var _ Service = (*ScoreService)(nil)

// withTelemetry wraps a service operation with tracing, metrics, and panic
// recovery.
func withTelemetry[T any](
	s *ScoreService,
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := s.now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "critical panic recovered",
				attr.String("operation", operationName),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "operation failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// runInTx runs fn inside a transaction when a DB handle is configured; unit
// tests run without one.
func runInTx[T any](
	s *ScoreService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// withCASRetry repeats fn until it succeeds or the retry budget is spent.
// fn must reload its score on every attempt; ErrVersionConflict is the only
// retried error.
func (s *ScoreService) withCASRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < casRetries; attempt++ {
		err = fn(ctx)
		if !errors.Is(err, scoredb.ErrVersionConflict) {
			return err
		}
	}
	return err
}
