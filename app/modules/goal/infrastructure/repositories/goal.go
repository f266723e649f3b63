package goaldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Impl is the bun-backed goal repository.
type Impl struct {
	db *bun.DB
}

func New(db *bun.DB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.GoalID) (*goaltypes.Goal, error) {
	if db == nil {
		db = r.db
	}
	var goal Goal
	err := db.NewSelect().
		Model(&goal).
		Where("g.id = ?", uuid.UUID(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("goaldb.GetByID: %w", err)
	}
	return goal.ToDomain(), nil
}

// GetByIDs batch-loads goal snapshots; missing IDs are absent from the map.
func (r *Impl) GetByIDs(ctx context.Context, db bun.IDB, ids []sharedtypes.GoalID) (map[sharedtypes.GoalID]*goaltypes.Goal, error) {
	if db == nil {
		db = r.db
	}
	if len(ids) == 0 {
		return map[sharedtypes.GoalID]*goaltypes.Goal{}, nil
	}
	raw := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		raw[i] = uuid.UUID(id)
	}
	var rows []Goal
	err := db.NewSelect().
		Model(&rows).
		Where("g.id IN (?)", bun.In(raw)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("goaldb.GetByIDs: %w", err)
	}
	out := make(map[sharedtypes.GoalID]*goaltypes.Goal, len(rows))
	for i := range rows {
		out[sharedtypes.GoalID(rows[i].ID)] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *Impl) ListActive(ctx context.Context, db bun.IDB, asOf time.Time) ([]*goaltypes.Goal, error) {
	if db == nil {
		db = r.db
	}
	var rows []Goal
	err := db.NewSelect().
		Model(&rows).
		Where("g.valid_from <= ?", asOf).
		Where("g.valid_until >= ?", asOf).
		Order("g.valid_until ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("goaldb.ListActive: %w", err)
	}
	out := make([]*goaltypes.Goal, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
