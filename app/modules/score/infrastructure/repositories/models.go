package scoredb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoretypes "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/types"
	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// Score is the persisted participation record. Per-type progress and the
// applied-event ledger live in jsonb: they are always read and written with
// the row, never queried relationally.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID            uuid.UUID                 `bun:"id,pk,type:uuid"`
	UserID        string                    `bun:"user_id,notnull"`
	GoalID        uuid.UUID                 `bun:"goal_id,type:uuid,notnull"`
	Status        scoretypes.Status         `bun:"status,notnull"`
	CurrentValue  float64                   `bun:"current_value,notnull,default:0"`
	EarnedPoints  int                       `bun:"earned_points,notnull,default:0"`
	WasteProgress []scoretypes.WasteProgress `bun:"waste_progress,type:jsonb,notnull,default:'[]'"`
	AppliedEvents []string                  `bun:"applied_events,type:jsonb,notnull,default:'[]'"`
	Version       int64                     `bun:"version,notnull,default:1"`

	CreatedAt   time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	CompletedAt *time.Time `bun:"completed_at,nullzero"`
}

// ToDomain converts the row to the domain aggregate.
func (m *Score) ToDomain() (*scoretypes.Score, error) {
	applied := make([]sharedtypes.CollectionEventID, 0, len(m.AppliedEvents))
	for _, raw := range m.AppliedEvents {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, err
		}
		applied = append(applied, sharedtypes.CollectionEventID(id))
	}
	progress := make([]scoretypes.WasteProgress, len(m.WasteProgress))
	copy(progress, m.WasteProgress)

	return &scoretypes.Score{
		ID:            sharedtypes.ScoreID(m.ID),
		UserID:        sharedtypes.UserID(m.UserID),
		GoalID:        sharedtypes.GoalID(m.GoalID),
		Status:        m.Status,
		CurrentValue:  m.CurrentValue,
		EarnedPoints:  sharedtypes.Points(m.EarnedPoints),
		WasteProgress: progress,
		AppliedEvents: applied,
		CreatedAt:     m.CreatedAt,
		CompletedAt:   m.CompletedAt,
		Version:       m.Version,
	}, nil
}

// FromDomain converts the aggregate back into a row, keeping Version as the
// caller last observed it; the repository bumps it on write.
func FromDomain(s *scoretypes.Score) *Score {
	applied := make([]string, 0, len(s.AppliedEvents))
	for _, id := range s.AppliedEvents {
		applied = append(applied, id.String())
	}
	progress := make([]scoretypes.WasteProgress, len(s.WasteProgress))
	copy(progress, s.WasteProgress)

	return &Score{
		ID:            uuid.UUID(s.ID),
		UserID:        string(s.UserID),
		GoalID:        uuid.UUID(s.GoalID),
		Status:        s.Status,
		CurrentValue:  s.CurrentValue,
		EarnedPoints:  int(s.EarnedPoints),
		WasteProgress: progress,
		AppliedEvents: applied,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		CompletedAt:   s.CompletedAt,
	}
}
