package scoreservice

import "errors"

// Domain errors for the score service. Handlers treat these as normal
// outcomes (publish failure event, ack message) rather than retrying.
var (
	// ErrInvalidEvent indicates a malformed collection event, rejected
	// before any score is touched.
	ErrInvalidEvent = errors.New("invalid collection event")

	// ErrAlreadyParticipating indicates the user already holds a score for
	// the goal.
	ErrAlreadyParticipating = errors.New("user already participates in goal")

	// ErrGoalNotActive indicates the goal's validity window does not cover
	// the join time.
	ErrGoalNotActive = errors.New("goal is not active")
)
