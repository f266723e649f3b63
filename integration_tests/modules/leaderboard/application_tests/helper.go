package leaderboardintegrationtests

import (
	"context"
	"io"
	"log"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
	leaderboardservice "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/application"
	leaderboarddb "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/infrastructure/repositories"
	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	leaderboardmetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/leaderboard"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/integration_tests/testutils"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvErr  error
	testEnvOnce sync.Once
)

// LeaderboardTestDeps bundles the leaderboard service plus the score service
// used to produce real standings.
type LeaderboardTestDeps struct {
	Ctx          context.Context
	BunDB        *bun.DB
	Service      leaderboardservice.Service
	ScoreService scoreservice.Service
	Generator    *testutils.TestDataGenerator
}

func GetTestEnv(t *testing.T) *testutils.TestEnvironment {
	t.Helper()

	testEnvOnce.Do(func() {
		log.Println("Initializing leaderboard test environment...")
		env, err := testutils.NewTestEnvironment(t)
		if err != nil {
			testEnvErr = err
			log.Printf("Failed to set up test environment: %v", err)
			return
		}
		testEnv = env
	})

	if testEnvErr != nil {
		t.Fatalf("Leaderboard test environment initialization failed: %v", testEnvErr)
	}
	if testEnv == nil {
		t.Fatalf("Leaderboard test environment not initialized")
	}
	return testEnv
}

// SetupTestLeaderboardService resets the database and builds real services
// over it.
func SetupTestLeaderboardService(t *testing.T) LeaderboardTestDeps {
	t.Helper()

	env := GetTestEnv(t)

	resetCtx, resetCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer resetCancel()
	if err := env.Reset(resetCtx); err != nil {
		t.Fatalf("Failed to reset environment: %v", err)
	}

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	noOpTracer := noop.NewTracerProvider().Tracer("test_leaderboard_service")

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.New(env.DB),
		testLogger,
		leaderboardmetrics.NoOpMetrics{},
		noOpTracer,
		env.DB,
	)

	scoreSvc := scoreservice.NewScoreService(
		scoredb.New(env.DB),
		goaldb.New(env.DB),
		wastetypedb.New(env.DB),
		testLogger,
		scoremetrics.NoOpMetrics{},
		noOpTracer,
		env.DB,
	)

	return LeaderboardTestDeps{
		Ctx:          env.Ctx,
		BunDB:        env.DB,
		Service:      service,
		ScoreService: scoreSvc,
		Generator:    testutils.NewTestDataGenerator(),
	}
}
