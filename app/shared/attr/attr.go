// Package attr provides slog attribute helpers so call sites stay terse and
// log keys stay consistent across modules.
package attr

import (
	"context"
	"log/slog"
	"time"

	sharedtypes "github.com/LiraCode/ecotrack-sub002/app/shared/types"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }

func Error(err error) slog.Attr { return slog.Any("error", err) }

func UserID(key string, id sharedtypes.UserID) slog.Attr { return slog.String(key, id.String()) }

func GoalID(key string, id sharedtypes.GoalID) slog.Attr { return slog.String(key, id.String()) }

func ScoreID(key string, id sharedtypes.ScoreID) slog.Attr { return slog.String(key, id.String()) }

func WasteTypeID(key string, id sharedtypes.WasteTypeID) slog.Attr {
	return slog.String(key, id.String())
}

func CollectionEventID(key string, id sharedtypes.CollectionEventID) slog.Attr {
	return slog.String(key, id.String())
}

// ExtractCorrelationID pulls the correlation ID out of the context so every
// log line in a message flow can be stitched back together.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", sharedutils.CorrelationIDFromContext(ctx))
}
