// Package scoremetrics defines the metrics surface of the score module with a
// prometheus-backed implementation and a no-op for tests.
package scoremetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScoreMetrics records score service and handler activity.
type ScoreMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)

	RecordHandlerAttempt(handler string)
	RecordHandlerSuccess(handler string)
	RecordHandlerFailure(handler string)
	RecordHandlerDuration(handler string, seconds float64)

	RecordScoreCompleted(ctx context.Context, points int)
	RecordScoreExpired(ctx context.Context)
	RecordEventSkipped(ctx context.Context, reason string)
}

type prometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec

	handlerAttempts  *prometheus.CounterVec
	handlerSuccesses *prometheus.CounterVec
	handlerFailures  *prometheus.CounterVec
	handlerDuration  *prometheus.HistogramVec

	scoresCompleted prometheus.Counter
	scoresExpired   prometheus.Counter
	pointsAwarded   prometheus.Counter
	eventsSkipped   *prometheus.CounterVec
}

// NewPrometheus registers and returns the prometheus-backed metrics.
func NewPrometheus(reg prometheus.Registerer) ScoreMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "operation_attempts_total",
			Help: "Attempted score service operations.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "operation_successes_total",
			Help: "Successful score service operations.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "operation_failures_total",
			Help: "Failed score service operations.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "operation_duration_seconds",
			Help:    "Score service operation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		handlerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "handler_attempts_total",
			Help: "Messages received by score handlers.",
		}, []string{"handler"}),
		handlerSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "handler_successes_total",
			Help: "Messages handled successfully by score handlers.",
		}, []string{"handler"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "handler_failures_total",
			Help: "Messages that failed in score handlers.",
		}, []string{"handler"}),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "handler_duration_seconds",
			Help:    "Score handler duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
		scoresCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "completed_total",
			Help: "Scores transitioned to completed.",
		}),
		scoresExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "expired_total",
			Help: "Scores transitioned to expired.",
		}),
		pointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "points_awarded_total",
			Help: "Points awarded at goal completion.",
		}),
		eventsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "score", Name: "event_items_skipped_total",
			Help: "Collection event items skipped, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.operationAttempts, m.operationSuccesses, m.operationFailures, m.operationDuration,
		m.handlerAttempts, m.handlerSuccesses, m.handlerFailures, m.handlerDuration,
		m.scoresCompleted, m.scoresExpired, m.pointsAwarded, m.eventsSkipped,
	)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, op string) {
	m.operationAttempts.WithLabelValues(op).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, op string) {
	m.operationSuccesses.WithLabelValues(op).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, op string) {
	m.operationFailures.WithLabelValues(op).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, op string, d time.Duration) {
	m.operationDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (m *prometheusMetrics) RecordHandlerAttempt(h string) { m.handlerAttempts.WithLabelValues(h).Inc() }

func (m *prometheusMetrics) RecordHandlerSuccess(h string) {
	m.handlerSuccesses.WithLabelValues(h).Inc()
}

func (m *prometheusMetrics) RecordHandlerFailure(h string) { m.handlerFailures.WithLabelValues(h).Inc() }

func (m *prometheusMetrics) RecordHandlerDuration(h string, seconds float64) {
	m.handlerDuration.WithLabelValues(h).Observe(seconds)
}

func (m *prometheusMetrics) RecordScoreCompleted(_ context.Context, points int) {
	m.scoresCompleted.Inc()
	m.pointsAwarded.Add(float64(points))
}

func (m *prometheusMetrics) RecordScoreExpired(_ context.Context) { m.scoresExpired.Inc() }

func (m *prometheusMetrics) RecordEventSkipped(_ context.Context, reason string) {
	m.eventsSkipped.WithLabelValues(reason).Inc()
}

// NoOpMetrics discards everything. Used in unit tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string) {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string) {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string) {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordHandlerAttempt(string) {}
func (NoOpMetrics) RecordHandlerSuccess(string) {}
func (NoOpMetrics) RecordHandlerFailure(string) {}
func (NoOpMetrics) RecordHandlerDuration(string, float64) {}
func (NoOpMetrics) RecordScoreCompleted(context.Context, int) {}
func (NoOpMetrics) RecordScoreExpired(context.Context) {}
func (NoOpMetrics) RecordEventSkipped(context.Context, string) {}
