package scoreintegrationtests

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

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
	scoreservice "github.com/LiraCode/ecotrack-sub002/app/modules/score/application"
	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	scoremetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/score"
	"github.com/LiraCode/ecotrack-sub002/integration_tests/testutils"
)

var (
	testEnv     *testutils.TestEnvironment
	testEnvErr  error
	testEnvOnce sync.Once
)

// ScoreTestDeps bundles everything a score integration test needs.
type ScoreTestDeps struct {
	Ctx       context.Context
	BunDB     *bun.DB
	ScoreRepo scoredb.Repository
	Service   scoreservice.Service
	Generator *testutils.TestDataGenerator
}

func GetTestEnv(t *testing.T) *testutils.TestEnvironment {
	t.Helper()

	testEnvOnce.Do(func() {
		log.Println("Initializing score test environment...")
		env, err := testutils.NewTestEnvironment(t)
		if err != nil {
			testEnvErr = err
			log.Printf("Failed to set up test environment: %v", err)
			return
		}
		testEnv = env
	})

	if testEnvErr != nil {
		t.Fatalf("Score test environment initialization failed: %v", testEnvErr)
	}
	if testEnv == nil {
		t.Fatalf("Score test environment not initialized")
	}
	return testEnv
}

// SetupTestScoreService resets the database and builds a real score service
// over it.
func SetupTestScoreService(t *testing.T) ScoreTestDeps {
	t.Helper()

	env := GetTestEnv(t)

	resetCtx, resetCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer resetCancel()
	if err := env.Reset(resetCtx); err != nil {
		t.Fatalf("Failed to reset environment: %v", err)
	}

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	noOpTracer := noop.NewTracerProvider().Tracer("test_score_service")

	scoreRepo := scoredb.New(env.DB)
	service := scoreservice.NewScoreService(
		scoreRepo,
		goaldb.New(env.DB),
		wastetypedb.New(env.DB),
		testLogger,
		scoremetrics.NoOpMetrics{},
		noOpTracer,
		env.DB,
	)

	return ScoreTestDeps{
		Ctx:       env.Ctx,
		BunDB:     env.DB,
		ScoreRepo: scoreRepo,
		Service:   service,
		Generator: testutils.NewTestDataGenerator(),
	}
}

// GoalOptionsQuantity describes a quantity goal over plastic and paper,
// active around now.
func GoalOptionsQuantity(target float64, points int) testutils.GoalOptions {
	return testutils.GoalOptions{
		TargetType:  goaltypes.TargetQuantity,
		TargetValue: target,
		Points:      points,
	}
}

// GoalOptionsQuantityWith is GoalOptionsQuantity with explicit waste types.
func GoalOptionsQuantityWith(target float64, points int, wasteTypes []goaltypes.GoalWasteType) testutils.GoalOptions {
	opts := GoalOptionsQuantity(target, points)
	opts.WasteTypes = wasteTypes
	return opts
}

// GoalOptionsWeight describes a weight goal over plastic and paper.
func GoalOptionsWeight(targetKg float64, points int) testutils.GoalOptions {
	return testutils.GoalOptions{
		TargetType:  goaltypes.TargetWeight,
		TargetValue: targetKg,
		Points:      points,
	}
}

// GoalOptionsExpired describes a goal whose window already closed.
func GoalOptionsExpired(target float64, points int) testutils.GoalOptions {
	now := time.Now().UTC()
	return testutils.GoalOptions{
		TargetType:  goaltypes.TargetQuantity,
		TargetValue: target,
		Points:      points,
		ValidFrom:   now.Add(-72 * time.Hour),
		ValidUntil:  now.Add(-24 * time.Hour),
	}
}

// SeedWasteTypes inserts the reference ledger rows.
func SeedWasteTypes(t *testing.T, ctx context.Context, db *bun.DB, types []wastetypedb.WasteType) {
	testutils.SeedWasteTypes(t, ctx, db, types)
}

// SeedGoal inserts a goal template row.
func SeedGoal(t *testing.T, ctx context.Context, db *bun.DB, goal goaltypes.Goal) {
	testutils.SeedGoal(t, ctx, db, goal)
}
