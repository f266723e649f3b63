package scoreservice

import (
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
)

// testNow is the fixed clock every service test runs on.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(
	scoreRepo *FakeScoreRepository,
	goalRepo *FakeGoalRepository,
	wasteTypeRepo *FakeWasteTypeRepository,
) *ScoreService {
	s := NewScoreService(
		scoreRepo,
		goalRepo,
		wasteTypeRepo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		&scoremetrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	s.now = func() time.Time { return testNow }
	return s
}

func float64Ptr(v float64) *float64 { return &v }
