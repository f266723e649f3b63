// Package leaderboardtypes holds the leaderboard module's domain model.
package leaderboardtypes

import (
	"sort"
	"time"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
)

// RankingEntry is one user's row in the ranking.
type RankingEntry struct {
	Position       int                `json:"position"`
	UserID         sharedtypes.UserID `json:"user_id"`
	TotalPoints    sharedtypes.Points `json:"total_points"`
	GoalsCompleted int                `json:"goals_completed"`
}

// Ranking is an ordered snapshot of every user with at least one completed
// goal.
type Ranking struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Entries     []RankingEntry `json:"entries"`
}

// BuildRanking orders entries by total points descending, then goals completed
// descending, then user ID ascending, and assigns strict 1-based positions.
// Ties in points and completions never share a position; the user ID break
// keeps the order deterministic.
func BuildRanking(generatedAt time.Time, entries []RankingEntry) Ranking {
	ordered := make([]RankingEntry, len(entries))
	copy(ordered, entries)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TotalPoints != ordered[j].TotalPoints {
			return ordered[i].TotalPoints > ordered[j].TotalPoints
		}
		if ordered[i].GoalsCompleted != ordered[j].GoalsCompleted {
			return ordered[i].GoalsCompleted > ordered[j].GoalsCompleted
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	for i := range ordered {
		ordered[i].Position = i + 1
	}

	return Ranking{GeneratedAt: generatedAt, Entries: ordered}
}

// PositionOf returns the user's 1-based position, or 0 when the user is not
// ranked.
func (r Ranking) PositionOf(userID sharedtypes.UserID) int {
	for _, e := range r.Entries {
		if e.UserID == userID {
			return e.Position
		}
	}
	return 0
}
