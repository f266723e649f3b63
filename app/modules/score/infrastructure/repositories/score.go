package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Impl is the bun-backed score repository.
type Impl struct {
	db *bun.DB
}

func New(db *bun.DB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == pgUniqueViolation
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, score *scoretypes.Score) error {
	if db == nil {
		db = r.db
	}
	row := FromDomain(score)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
		score.ID = sharedtypes.ScoreID(row.ID)
	}
	_, err := db.NewInsert().Model(row).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("scoredb.Create: %w", err)
	}
	score.Version = row.Version
	return nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*scoretypes.Score, error) {
	if db == nil {
		db = r.db
	}
	var row Score
	err := db.NewSelect().
		Model(&row).
		Where("s.id = ?", uuid.UUID(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoredb.GetByID: %w", err)
	}
	return row.ToDomain()
}

func (r *Impl) GetActiveByUser(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) ([]*scoretypes.Score, error) {
	if db == nil {
		db = r.db
	}
	var rows []Score
	err := db.NewSelect().
		Model(&rows).
		Where("s.user_id = ?", string(userID)).
		Where("s.status = ?", scoretypes.StatusActive).
		Order("s.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoredb.GetActiveByUser: %w", err)
	}
	return toDomainSlice(rows)
}

// ListActiveExpirable pages active scores whose goal window closed before
// asOf. Keyset pagination on score ID keeps batches stable while concurrent
// writes move rows to terminal states.
func (r *Impl) ListActiveExpirable(ctx context.Context, db bun.IDB, asOf time.Time, afterID *sharedtypes.ScoreID, limit int) ([]*scoretypes.Score, error) {
	if db == nil {
		db = r.db
	}
	q := db.NewSelect().
		Model((*Score)(nil)).
		Join("JOIN goals AS g ON g.id = s.goal_id").
		Where("s.status = ?", scoretypes.StatusActive).
		Where("g.valid_until < ?", asOf).
		Order("s.id ASC").
		Limit(limit)
	if afterID != nil {
		q = q.Where("s.id > ?", uuid.UUID(*afterID))
	}

	var rows []Score
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("scoredb.ListActiveExpirable: %w", err)
	}
	return toDomainSlice(rows)
}

// UpdateCAS writes the score only if the stored version is untouched, bumping
// the version in the same statement. This is the per-score mutual exclusion
// for the read-modify-write cycles of progress, completion, and expiry.
func (r *Impl) UpdateCAS(ctx context.Context, db bun.IDB, score *scoretypes.Score) error {
	if db == nil {
		db = r.db
	}
	row := FromDomain(score)
	res, err := db.NewUpdate().
		Model(row).
		Set("status = ?", row.Status).
		Set("current_value = ?", row.CurrentValue).
		Set("earned_points = ?", row.EarnedPoints).
		Set("waste_progress = ?", row.WasteProgress).
		Set("applied_events = ?", row.AppliedEvents).
		Set("completed_at = ?", row.CompletedAt).
		Set("version = version + 1").
		Where("id = ?", row.ID).
		Where("version = ?", row.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.UpdateCAS: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("scoredb.UpdateCAS rows affected: %w", err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	score.Version++
	return nil
}

func (r *Impl) SumCompletedPoints(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) (sharedtypes.Points, error) {
	if db == nil {
		db = r.db
	}
	var total int
	err := db.NewSelect().
		Model((*Score)(nil)).
		ColumnExpr("COALESCE(SUM(s.earned_points), 0)").
		Where("s.user_id = ?", string(userID)).
		Where("s.status = ?", scoretypes.StatusCompleted).
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("scoredb.SumCompletedPoints: %w", err)
	}
	return sharedtypes.Points(total), nil
}

func toDomainSlice(rows []Score) ([]*scoretypes.Score, error) {
	out := make([]*scoretypes.Score, 0, len(rows))
	for i := range rows {
		s, err := rows[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("scoredb: corrupt score row %s: %w", rows[i].ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}
