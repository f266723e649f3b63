package scoredb

import "errors"

// Sentinel errors for the repository layer. These signal database state; the
// service layer decides whether they are domain failures.
var (
	// ErrNotFound indicates the requested score record does not exist.
	ErrNotFound = errors.New("score not found")

	// ErrDuplicate indicates a score already exists for the (user, goal)
	// pair. Surfaces the unique constraint.
	ErrDuplicate = errors.New("score already exists for user and goal")

	// ErrVersionConflict indicates a compare-and-swap write lost the race;
	// the caller should reload and retry.
	ErrVersionConflict = errors.New("score version conflict")
)
