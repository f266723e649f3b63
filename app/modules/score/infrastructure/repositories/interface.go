package scoredb

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Repository is the persistence interface for scores. Every method accepts a
// bun.IDB so calls can run inside or outside a transaction.
type Repository interface {
	// Create inserts a fresh score. Returns ErrDuplicate when a score for
	// the (user, goal) pair already exists.
	Create(ctx context.Context, db bun.IDB, score *scoretypes.Score) error

	// GetByID loads one score.
	GetByID(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*scoretypes.Score, error)

	// GetActiveByUser loads all active scores for a user.
	GetActiveByUser(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) ([]*scoretypes.Score, error)

	// ListActiveExpirable pages through active scores whose goal validity
	// ended before the cutoff, ordered by score ID for stable batching.
	ListActiveExpirable(ctx context.Context, db bun.IDB, asOf time.Time, afterID *sharedtypes.ScoreID, limit int) ([]*scoretypes.Score, error)

	// UpdateCAS writes the score back if and only if the stored version
	// still matches score.Version, then bumps the version. Returns
	// ErrVersionConflict when the row changed underneath the caller.
	UpdateCAS(ctx context.Context, db bun.IDB, score *scoretypes.Score) error

	// SumCompletedPoints totals earned points over completed scores.
	SumCompletedPoints(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) (sharedtypes.Points, error)
}
