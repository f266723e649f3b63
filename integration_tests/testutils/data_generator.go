package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	goaltypes "github.com/LiraCode/ecotrack-sub002/app/modules/goal/domain/types"
	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	wastetypedb "github.com/LiraCode/ecotrack-sub002/app/modules/wastetype/infrastructure/repositories"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// TestDataGenerator produces domain fixtures for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator, seeded for reproducibility when a
// seed is given.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// GenerateUserID returns a host-app style user identifier.
func (g *TestDataGenerator) GenerateUserID() sharedtypes.UserID {
	return sharedtypes.UserID("user-" + g.faker.Numerify("#########"))
}

// GenerateWasteTypes returns the standard reference ledger used in tests.
// Glass deliberately has no average weight so fallback-less paths get covered.
func (g *TestDataGenerator) GenerateWasteTypes() []wastetypedb.WasteType {
	avg := func(v float64) *float64 { return &v }
	return []wastetypedb.WasteType{
		{ID: "plastic", Name: "Plastic", AverageWeightKg: avg(0.3)},
		{ID: "paper", Name: "Paper", AverageWeightKg: avg(0.1)},
		{ID: "metal", Name: "Metal", AverageWeightKg: avg(0.5)},
		{ID: "glass", Name: "Glass"},
	}
}

// GoalOptions tweaks generated goals.
type GoalOptions struct {
	TargetType  goaltypes.TargetType
	TargetValue float64
	Points      int
	ValidFrom   time.Time
	ValidUntil  time.Time
	WasteTypes  []goaltypes.GoalWasteType
}

// GenerateGoal returns a goal active around now unless the options say
// otherwise.
func (g *TestDataGenerator) GenerateGoal(opts GoalOptions) goaltypes.Goal {
	now := time.Now().UTC()

	goal := goaltypes.Goal{
		ID:          sharedtypes.GoalID(uuid.New()),
		Title:       g.faker.Sentence(3),
		TargetType:  opts.TargetType,
		TargetValue: opts.TargetValue,
		Points:      sharedtypes.Points(opts.Points),
		ValidFrom:   opts.ValidFrom,
		ValidUntil:  opts.ValidUntil,
		WasteTypes:  opts.WasteTypes,
	}
	if goal.TargetType == "" {
		goal.TargetType = goaltypes.TargetQuantity
	}
	if goal.TargetValue == 0 {
		goal.TargetValue = 10
	}
	if goal.Points == 0 {
		goal.Points = 50
	}
	if goal.ValidFrom.IsZero() {
		goal.ValidFrom = now.Add(-24 * time.Hour)
	}
	if goal.ValidUntil.IsZero() {
		goal.ValidUntil = now.Add(24 * time.Hour)
	}
	if len(goal.WasteTypes) == 0 {
		goal.WasteTypes = []goaltypes.GoalWasteType{
			{WasteTypeID: "plastic"},
			{WasteTypeID: "paper"},
		}
	}
	return goal
}

// GenerateCollectionEvent returns a pickup for the given user and items.
func (g *TestDataGenerator) GenerateCollectionEvent(userID sharedtypes.UserID, items ...scoretypes.CollectionItem) scoretypes.CollectionEvent {
	return scoretypes.CollectionEvent{
		ID:         sharedtypes.CollectionEventID(uuid.New()),
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Items:      items,
	}
}
