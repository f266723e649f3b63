package sharedtypes

import (
	"github.com/google/uuid"
)

// UserID is the stable identity handed to us by the auth boundary.
// The engine never inspects or validates it.
type UserID string

func (u UserID) String() string { return string(u) }

// GoalID identifies a goal template.
type GoalID uuid.UUID

func (g GoalID) String() string { return uuid.UUID(g).String() }

func (g GoalID) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *GoalID) UnmarshalText(data []byte) error {
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return err
	}
	*g = GoalID(id)
	return nil
}

// ScoreID identifies a single user's participation in a goal.
type ScoreID uuid.UUID

func (s ScoreID) String() string { return uuid.UUID(s).String() }

func (s ScoreID) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ScoreID) UnmarshalText(data []byte) error {
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return err
	}
	*s = ScoreID(id)
	return nil
}

// CollectionEventID identifies a completed pickup event. Used as the
// idempotence key when applying progress.
type CollectionEventID uuid.UUID

func (c CollectionEventID) String() string { return uuid.UUID(c).String() }

func (c CollectionEventID) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CollectionEventID) UnmarshalText(data []byte) error {
	id, err := uuid.ParseBytes(data)
	if err != nil {
		return err
	}
	*c = CollectionEventID(id)
	return nil
}

// WasteTypeID identifies a waste type in the reference ledger ("plastic",
// "glass", ...). Reference data is seeded externally, so these are plain
// strings rather than UUIDs.
type WasteTypeID string

func (w WasteTypeID) String() string { return string(w) }

// Points is a non-negative point amount awarded for a completed goal.
type Points int
