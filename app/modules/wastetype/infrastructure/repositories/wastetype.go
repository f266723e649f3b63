package wastetypedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Impl is the bun-backed waste-type repository.
type Impl struct {
	db *bun.DB
}

func New(db *bun.DB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.WasteTypeID) (*WasteType, error) {
	if db == nil {
		db = r.db
	}
	var wt WasteType
	err := db.NewSelect().
		Model(&wt).
		Where("wt.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("wastetypedb.GetByID: %w", err)
	}
	return &wt, nil
}

// GetByIDs fetches several waste types at once; missing IDs are simply absent
// from the result, not errors.
func (r *Impl) GetByIDs(ctx context.Context, db bun.IDB, ids []sharedtypes.WasteTypeID) (map[sharedtypes.WasteTypeID]*WasteType, error) {
	if db == nil {
		db = r.db
	}
	if len(ids) == 0 {
		return map[sharedtypes.WasteTypeID]*WasteType{}, nil
	}
	var rows []WasteType
	err := db.NewSelect().
		Model(&rows).
		Where("wt.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("wastetypedb.GetByIDs: %w", err)
	}
	out := make(map[sharedtypes.WasteTypeID]*WasteType, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB) ([]WasteType, error) {
	if db == nil {
		db = r.db
	}
	var rows []WasteType
	err := db.NewSelect().
		Model(&rows).
		Order("wt.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("wastetypedb.List: %w", err)
	}
	return rows, nil
}
