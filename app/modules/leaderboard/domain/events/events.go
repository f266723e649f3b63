// Package leaderboardevents defines the versioned topics and payloads the
// leaderboard module consumes and publishes.
package leaderboardevents

import (
	"time"

	leaderboardtypes "github.com/LiraCode/ecotrack-sub002/app/modules/leaderboard/domain/types"
)

// Topics.
const (
	// Published after a snapshot refresh.
	RankingUpdatedV1 = "leaderboard.ranking.updated.v1"

	// Published when a refresh could not produce a snapshot.
	RankingUpdateFailedV1 = "leaderboard.ranking.update.failed.v1"
)

// RankingUpdatedPayloadV1 announces a fresh ranking snapshot.
type RankingUpdatedPayloadV1 struct {
	GeneratedAt time.Time                       `json:"generated_at"`
	Entries     []leaderboardtypes.RankingEntry `json:"entries"`
}

// RankingUpdateFailedPayloadV1 reports a failed refresh.
type RankingUpdateFailedPayloadV1 struct {
	Reason string `json:"reason"`
}
