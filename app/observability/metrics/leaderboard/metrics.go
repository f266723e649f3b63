// Package leaderboardmetrics mirrors scoremetrics for the leaderboard module.
package leaderboardmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type LeaderboardMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)

	RecordHandlerAttempt(handler string)
	RecordHandlerSuccess(handler string)
	RecordHandlerFailure(handler string)
	RecordHandlerDuration(handler string, seconds float64)

	RecordRankingSize(ctx context.Context, users int)
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

	rankingSize prometheus.Gauge
}

func NewPrometheus(reg prometheus.Registerer) LeaderboardMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "operation_attempts_total",
			Help: "Attempted leaderboard operations.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "operation_successes_total",
			Help: "Successful leaderboard operations.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "operation_failures_total",
			Help: "Failed leaderboard operations.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "operation_duration_seconds",
			Help:    "Leaderboard operation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		handlerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "handler_attempts_total",
			Help: "Messages received by leaderboard handlers.",
		}, []string{"handler"}),
		handlerSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "handler_successes_total",
			Help: "Messages handled successfully by leaderboard handlers.",
		}, []string{"handler"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "handler_failures_total",
			Help: "Messages that failed in leaderboard handlers.",
		}, []string{"handler"}),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "handler_duration_seconds",
			Help:    "Leaderboard handler duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
		rankingSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ecotrack", Subsystem: "leaderboard", Name: "ranking_users",
			Help: "Users in the most recently computed ranking.",
		}),
	}

	reg.MustRegister(
		m.operationAttempts, m.operationSuccesses, m.operationFailures, m.operationDuration,
		m.handlerAttempts, m.handlerSuccesses, m.handlerFailures, m.handlerDuration,
		m.rankingSize,
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

func (m *prometheusMetrics) RecordRankingSize(_ context.Context, users int) {
	m.rankingSize.Set(float64(users))
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
func (NoOpMetrics) RecordRankingSize(context.Context, int) {}
