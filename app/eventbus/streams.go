package eventbus

import "context"

// Stream names and the subjects they capture. One stream per module keeps
// retention and consumer policies independent.
const (
	CollectionStream  = "collection"
	ScoreStream       = "score"
	LeaderboardStream = "leaderboard"
)

// InitializeStreams creates the engine's streams during startup.
func InitializeStreams(ctx context.Context, eb EventBus) error {
	streams := map[string][]string{
		CollectionStream:  {"collection.>"},
		ScoreStream:       {"score.>"},
		LeaderboardStream: {"leaderboard.>"},
	}
	for name, subjects := range streams {
		if err := eb.CreateStream(ctx, name, subjects...); err != nil {
			return err
		}
	}
	return nil
}
