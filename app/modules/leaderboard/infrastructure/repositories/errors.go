package leaderboarddb

import "errors"

// ErrNotFound is returned when no ranking snapshot exists yet.
var ErrNotFound = errors.New("ranking snapshot not found")
