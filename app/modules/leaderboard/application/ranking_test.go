package leaderboardservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
	leaderboardmetrics "github.com/LiraCode/ecotrack-sub002/app/observability/metrics/leaderboard"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

func newTestService(repo *FakeRepository) *LeaderboardService {
	s := NewLeaderboardService(
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		&leaderboardmetrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
	s.now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestLeaderboardService_RefreshRanking(t *testing.T) {
	standings := []leaderboardtypes.RankingEntry{
		{UserID: "user-a", TotalPoints: 100, GoalsCompleted: 2},
		{UserID: "user-b", TotalPoints: 80, GoalsCompleted: 3},
		{UserID: "user-c", TotalPoints: 80, GoalsCompleted: 3},
	}

	t.Run("assigns strict positions and persists the snapshot", func(t *testing.T) {
		repo := NewFakeRepository()
		repo.AggregateStandingsFunc = func(ctx context.Context, db bun.IDB) ([]leaderboardtypes.RankingEntry, error) {
			return standings, nil
		}
		var saved leaderboardtypes.Ranking
		repo.SaveSnapshotFunc = func(ctx context.Context, db bun.IDB, ranking leaderboardtypes.Ranking) error {
			saved = ranking
			return nil
		}

		s := newTestService(repo)
		got, err := s.RefreshRanking(context.Background())
		if err != nil {
			t.Fatalf("RefreshRanking() error = %v", err)
		}

		want := []leaderboardtypes.RankingEntry{
			{Position: 1, UserID: "user-a", TotalPoints: 100, GoalsCompleted: 2},
			{Position: 2, UserID: "user-b", TotalPoints: 80, GoalsCompleted: 3},
			{Position: 3, UserID: "user-c", TotalPoints: 80, GoalsCompleted: 3},
		}
		if diff := cmp.Diff(want, got.Entries); diff != "" {
			t.Errorf("ranking entries mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(got, saved); diff != "" {
			t.Errorf("persisted snapshot differs from returned ranking (-returned +saved):\n%s", diff)
		}
	})

	t.Run("empty standings produce an empty ranking", func(t *testing.T) {
		repo := NewFakeRepository()
		s := newTestService(repo)

		got, err := s.RefreshRanking(context.Background())
		if err != nil {
			t.Fatalf("RefreshRanking() error = %v", err)
		}
		if len(got.Entries) != 0 {
			t.Errorf("expected empty ranking, got %d entries", len(got.Entries))
		}
	})

	t.Run("aggregation failure aborts without saving", func(t *testing.T) {
		repo := NewFakeRepository()
		repo.AggregateStandingsFunc = func(ctx context.Context, db bun.IDB) ([]leaderboardtypes.RankingEntry, error) {
			return nil, fmt.Errorf("db down")
		}

		s := newTestService(repo)
		if _, err := s.RefreshRanking(context.Background()); err == nil {
			t.Fatal("expected error, got nil")
		}
		for _, step := range repo.Trace() {
			if step == "SaveSnapshot" {
				t.Error("SaveSnapshot called after aggregation failure")
			}
		}
	})
}

func TestBuildRanking_Ordering(t *testing.T) {
	entries := []leaderboardtypes.RankingEntry{
		{UserID: "user-z", TotalPoints: 50, GoalsCompleted: 1},
		{UserID: "user-a", TotalPoints: 50, GoalsCompleted: 1},
		{UserID: "user-m", TotalPoints: 50, GoalsCompleted: 2},
		{UserID: "user-q", TotalPoints: 90, GoalsCompleted: 1},
	}

	got := leaderboardtypes.BuildRanking(time.Now(), entries)

	wantOrder := []sharedtypes.UserID{"user-q", "user-m", "user-a", "user-z"}
	for i, want := range wantOrder {
		if got.Entries[i].UserID != want {
			t.Errorf("position %d: expected %s, got %s", i+1, want, got.Entries[i].UserID)
		}
		if got.Entries[i].Position != i+1 {
			t.Errorf("expected position %d, got %d", i+1, got.Entries[i].Position)
		}
	}
}

func TestLeaderboardService_GetRanking(t *testing.T) {
	t.Run("returns the latest snapshot when one exists", func(t *testing.T) {
		snapshot := leaderboardtypes.Ranking{
			GeneratedAt: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			Entries: []leaderboardtypes.RankingEntry{
				{Position: 1, UserID: "user-a", TotalPoints: 10, GoalsCompleted: 1},
			},
		}
		repo := NewFakeRepository()
		repo.GetLatestSnapshotFunc = func(ctx context.Context, db bun.IDB) (leaderboardtypes.Ranking, error) {
			return snapshot, nil
		}

		s := newTestService(repo)
		got, err := s.GetRanking(context.Background())
		if err != nil {
			t.Fatalf("GetRanking() error = %v", err)
		}
		if diff := cmp.Diff(snapshot, got); diff != "" {
			t.Errorf("ranking mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("recomputes when no snapshot exists", func(t *testing.T) {
		repo := NewFakeRepository()
		repo.AggregateStandingsFunc = func(ctx context.Context, db bun.IDB) ([]leaderboardtypes.RankingEntry, error) {
			return []leaderboardtypes.RankingEntry{
				{UserID: "user-a", TotalPoints: 10, GoalsCompleted: 1},
			}, nil
		}

		s := newTestService(repo)
		got, err := s.GetRanking(context.Background())
		if err != nil {
			t.Fatalf("GetRanking() error = %v", err)
		}
		if len(got.Entries) != 1 || got.Entries[0].Position != 1 {
			t.Errorf("expected a recomputed one-entry ranking, got %+v", got.Entries)
		}
		if !strings.Contains(strings.Join(repo.Trace(), ","), "AggregateStandings") {
			t.Error("expected a refresh after snapshot miss")
		}
	})
}

func TestLeaderboardService_GetUserPosition(t *testing.T) {
	snapshot := leaderboardtypes.Ranking{
		GeneratedAt: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Entries: []leaderboardtypes.RankingEntry{
			{Position: 1, UserID: "user-a", TotalPoints: 90, GoalsCompleted: 2},
			{Position: 2, UserID: "user-b", TotalPoints: 40, GoalsCompleted: 1},
		},
	}
	repo := NewFakeRepository()
	repo.GetLatestSnapshotFunc = func(ctx context.Context, db bun.IDB) (leaderboardtypes.Ranking, error) {
		return snapshot, nil
	}
	s := newTestService(repo)

	pos, err := s.GetUserPosition(context.Background(), "user-b")
	if err != nil {
		t.Fatalf("GetUserPosition() error = %v", err)
	}
	if pos != 2 {
		t.Errorf("expected position 2, got %d", pos)
	}

	pos, err = s.GetUserPosition(context.Background(), "user-unknown")
	if err != nil {
		t.Fatalf("GetUserPosition() error = %v", err)
	}
	if pos != 0 {
		t.Errorf("expected position 0 for unranked user, got %d", pos)
	}
}
