package leaderboardhandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers exposes the leaderboard module's message handlers to the router.
type Handlers interface {
	HandleGoalCompleted(msg *message.Message) ([]*message.Message, error)
}
