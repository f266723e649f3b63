package scorehandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"
)

// Handlers exposes the score module's message handlers to the router.
type Handlers interface {
	HandleCollectionEventRecorded(msg *message.Message) ([]*message.Message, error)
	HandleSweepRequested(msg *message.Message) ([]*message.Message, error)
}
