package leaderboarddb

import (
	"time"

	"github.com/uptrace/bun"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
)

// RankingSnapshot is a persisted ranking. Entries live in jsonb: the snapshot
// is always served whole.
type RankingSnapshot struct {
	bun.BaseModel `bun:"table:ranking_snapshots,alias:rs"`

	ID          int64                           `bun:"id,pk,autoincrement"`
	GeneratedAt time.Time                       `bun:"generated_at,notnull"`
	Entries     []leaderboardtypes.RankingEntry `bun:"entries,type:jsonb,notnull,default:'[]'"`
}

// ToDomain converts the row to the domain snapshot.
func (m *RankingSnapshot) ToDomain() leaderboardtypes.Ranking {
	entries := make([]leaderboardtypes.RankingEntry, len(m.Entries))
	copy(entries, m.Entries)
	return leaderboardtypes.Ranking{
		GeneratedAt: m.GeneratedAt,
		Entries:     entries,
	}
}
