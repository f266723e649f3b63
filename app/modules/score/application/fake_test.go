package scoreservice

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	goaldb "github.com/LiraCode/ecotrack-sub002/app/modules/goal/infrastructure/repositories"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	scoredb "github.com/LiraCode/ecotrack-sub002/app/modules/score/infrastructure/repositories"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// ------------------------
// Fake Score Repository
// ------------------------

// FakeScoreRepository is an in-memory stand-in with the same compare-and-swap
// semantics as the bun-backed repository. Individual methods can be overridden
// to inject failures.
type FakeScoreRepository struct {
	mu     sync.Mutex
	trace  []string
	scores map[sharedtypes.ScoreID]*scoretypes.Score

	// goalWindows stands in for the SQL join against goals that feeds
	// ListActiveExpirable: goal ID -> validUntil.
	goalWindows map[sharedtypes.GoalID]time.Time

	CreateFunc    func(ctx context.Context, db bun.IDB, score *scoretypes.Score) error
	GetByIDFunc   func(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*scoretypes.Score, error)
	UpdateCASFunc func(ctx context.Context, db bun.IDB, score *scoretypes.Score) error
}

func NewFakeScoreRepository() *FakeScoreRepository {
	return &FakeScoreRepository{
		trace:       []string{},
		scores:      map[sharedtypes.ScoreID]*scoretypes.Score{},
		goalWindows: map[sharedtypes.GoalID]time.Time{},
	}
}

func (f *FakeScoreRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of repository methods called.
func (f *FakeScoreRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Seed stores a score, assigning an ID and version when absent.
func (f *FakeScoreRepository) Seed(score *scoretypes.Score) *scoretypes.Score {
	f.mu.Lock()
	defer f.mu.Unlock()
	if score.ID == sharedtypes.ScoreID(uuid.Nil) {
		score.ID = sharedtypes.ScoreID(uuid.New())
	}
	if score.Version == 0 {
		score.Version = 1
	}
	f.scores[score.ID] = copyScore(score)
	return score
}

// SetGoalWindow registers a goal's validUntil for ListActiveExpirable.
func (f *FakeScoreRepository) SetGoalWindow(goalID sharedtypes.GoalID, validUntil time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goalWindows[goalID] = validUntil
}

// Stored returns a copy of the stored score, nil when absent.
func (f *FakeScoreRepository) Stored(id sharedtypes.ScoreID) *scoretypes.Score {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.scores[id]
	if !ok {
		return nil
	}
	return copyScore(stored)
}

func copyScore(s *scoretypes.Score) *scoretypes.Score {
	out := *s
	out.WasteProgress = append([]scoretypes.WasteProgress(nil), s.WasteProgress...)
	out.AppliedEvents = append([]sharedtypes.CollectionEventID(nil), s.AppliedEvents...)
	if s.CompletedAt != nil {
		completedAt := *s.CompletedAt
		out.CompletedAt = &completedAt
	}
	return &out
}

// --- Repository Interface Implementation ---

func (f *FakeScoreRepository) Create(ctx context.Context, db bun.IDB, score *scoretypes.Score) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, score)
	}
	for _, existing := range f.scores {
		if existing.UserID == score.UserID && existing.GoalID == score.GoalID {
			return scoredb.ErrDuplicate
		}
	}
	if score.ID == sharedtypes.ScoreID(uuid.Nil) {
		score.ID = sharedtypes.ScoreID(uuid.New())
	}
	score.Version = 1
	f.scores[score.ID] = copyScore(score)
	return nil
}

func (f *FakeScoreRepository) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.ScoreID) (*scoretypes.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	stored, ok := f.scores[id]
	if !ok {
		return nil, scoredb.ErrNotFound
	}
	return copyScore(stored), nil
}

func (f *FakeScoreRepository) GetActiveByUser(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) ([]*scoretypes.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetActiveByUser")
	var out []*scoretypes.Score
	for _, s := range f.scores {
		if s.UserID == userID && s.Status == scoretypes.StatusActive {
			out = append(out, copyScore(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeScoreRepository) ListActiveExpirable(ctx context.Context, db bun.IDB, asOf time.Time, afterID *sharedtypes.ScoreID, limit int) ([]*scoretypes.Score, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListActiveExpirable")
	var out []*scoretypes.Score
	for _, s := range f.scores {
		if s.Status != scoretypes.StatusActive {
			continue
		}
		validUntil, ok := f.goalWindows[s.GoalID]
		if !ok || !validUntil.Before(asOf) {
			continue
		}
		if afterID != nil && s.ID.String() <= afterID.String() {
			continue
		}
		out = append(out, copyScore(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *FakeScoreRepository) UpdateCAS(ctx context.Context, db bun.IDB, score *scoretypes.Score) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateCAS")
	if f.UpdateCASFunc != nil {
		return f.UpdateCASFunc(ctx, db, score)
	}
	stored, ok := f.scores[score.ID]
	if !ok || stored.Version != score.Version {
		return scoredb.ErrVersionConflict
	}
	score.Version++
	f.scores[score.ID] = copyScore(score)
	return nil
}

func (f *FakeScoreRepository) SumCompletedPoints(ctx context.Context, db bun.IDB, userID sharedtypes.UserID) (sharedtypes.Points, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SumCompletedPoints")
	var total sharedtypes.Points
	for _, s := range f.scores {
		if s.UserID == userID && s.Status == scoretypes.StatusCompleted {
			total += s.EarnedPoints
		}
	}
	return total, nil
}

var _ scoredb.Repository = (*FakeScoreRepository)(nil)

// ------------------------
// Fake Goal Repository
// ------------------------

// FakeGoalRepository serves goals from an in-memory map.
type FakeGoalRepository struct {
	mu    sync.Mutex
	goals map[sharedtypes.GoalID]*goaltypes.Goal

	GetByIDFunc func(ctx context.Context, db bun.IDB, id sharedtypes.GoalID) (*goaltypes.Goal, error)
}

func NewFakeGoalRepository() *FakeGoalRepository {
	return &FakeGoalRepository{goals: map[sharedtypes.GoalID]*goaltypes.Goal{}}
}

// Seed stores a goal, assigning an ID when absent.
func (f *FakeGoalRepository) Seed(goal *goaltypes.Goal) *goaltypes.Goal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if goal.ID == sharedtypes.GoalID(uuid.Nil) {
		goal.ID = sharedtypes.GoalID(uuid.New())
	}
	f.goals[goal.ID] = goal
	return goal
}

func (f *FakeGoalRepository) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.GoalID) (*goaltypes.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	goal, ok := f.goals[id]
	if !ok {
		return nil, goaldb.ErrNotFound
	}
	return goal, nil
}

func (f *FakeGoalRepository) GetByIDs(ctx context.Context, db bun.IDB, ids []sharedtypes.GoalID) (map[sharedtypes.GoalID]*goaltypes.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[sharedtypes.GoalID]*goaltypes.Goal, len(ids))
	for _, id := range ids {
		if goal, ok := f.goals[id]; ok {
			out[id] = goal
		}
	}
	return out, nil
}

func (f *FakeGoalRepository) ListActive(ctx context.Context, db bun.IDB, asOf time.Time) ([]*goaltypes.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*goaltypes.Goal
	for _, goal := range f.goals {
		if goal.IsActiveAt(asOf) {
			out = append(out, goal)
		}
	}
	return out, nil
}

var _ goaldb.Repository = (*FakeGoalRepository)(nil)

// ------------------------
// Fake Waste Type Repository
// ------------------------

// FakeWasteTypeRepository serves the waste-type ledger from an in-memory map.
type FakeWasteTypeRepository struct {
	mu    sync.Mutex
	types map[sharedtypes.WasteTypeID]*wastetypedb.WasteType
}

func NewFakeWasteTypeRepository() *FakeWasteTypeRepository {
	return &FakeWasteTypeRepository{types: map[sharedtypes.WasteTypeID]*wastetypedb.WasteType{}}
}

// Seed stores a waste type.
func (f *FakeWasteTypeRepository) Seed(wt *wastetypedb.WasteType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types[wt.ID] = wt
}

func (f *FakeWasteTypeRepository) GetByID(ctx context.Context, db bun.IDB, id sharedtypes.WasteTypeID) (*wastetypedb.WasteType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wt, ok := f.types[id]
	if !ok {
		return nil, wastetypedb.ErrNotFound
	}
	return wt, nil
}

func (f *FakeWasteTypeRepository) GetByIDs(ctx context.Context, db bun.IDB, ids []sharedtypes.WasteTypeID) (map[sharedtypes.WasteTypeID]*wastetypedb.WasteType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[sharedtypes.WasteTypeID]*wastetypedb.WasteType, len(ids))
	for _, id := range ids {
		if wt, ok := f.types[id]; ok {
			out[id] = wt
		}
	}
	return out, nil
}

func (f *FakeWasteTypeRepository) List(ctx context.Context, db bun.IDB) ([]wastetypedb.WasteType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []wastetypedb.WasteType
	for _, wt := range f.types {
		out = append(out, *wt)
	}
	return out, nil
}

var _ wastetypedb.Repository = (*FakeWasteTypeRepository)(nil)
