package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
)

// Impl is the bun-backed leaderboard repository.
type Impl struct {
	db *bun.DB
}

func New(db *bun.DB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

func (r *Impl) AggregateStandings(ctx context.Context, db bun.IDB) ([]leaderboardtypes.RankingEntry, error) {
	if db == nil {
		db = r.db
	}

	entries := []leaderboardtypes.RankingEntry{}
	err := db.NewSelect().
		TableExpr("scores AS s").
		ColumnExpr("s.user_id AS user_id").
		ColumnExpr("SUM(s.earned_points) AS total_points").
		ColumnExpr("COUNT(*) AS goals_completed").
		Where("s.status = ?", scoretypes.StatusCompleted).
		GroupExpr("s.user_id").
		OrderExpr("total_points DESC, goals_completed DESC, user_id ASC").
		Scan(ctx, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate standings: %w", err)
	}
	return entries, nil
}

func (r *Impl) SaveSnapshot(ctx context.Context, db bun.IDB, ranking leaderboardtypes.Ranking) error {
	if db == nil {
		db = r.db
	}

	row := &RankingSnapshot{
		GeneratedAt: ranking.GeneratedAt,
		Entries:     ranking.Entries,
	}
	if _, err := db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("failed to save ranking snapshot: %w", err)
	}
	return nil
}

func (r *Impl) GetLatestSnapshot(ctx context.Context, db bun.IDB) (leaderboardtypes.Ranking, error) {
	if db == nil {
		db = r.db
	}

	row := new(RankingSnapshot)
	err := db.NewSelect().
		Model(row).
		OrderExpr("rs.generated_at DESC, rs.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return leaderboardtypes.Ranking{}, ErrNotFound
	}
	if err != nil {
		return leaderboardtypes.Ranking{}, fmt.Errorf("failed to get latest ranking snapshot: %w", err)
	}
	return row.ToDomain(), nil
}
