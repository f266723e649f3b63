package scorequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/LiraCode/ecotrack-sub002/app/eventbus"
	scoreevents "github.com/LiraCode/ecotrack-sub002/app/modules/score/domain/events"
	"github.com/LiraCode/ecotrack-sub002/app/shared/attr"
	sharedutils "github.com/LiraCode/ecotrack-sub002/app/shared/utils"
)

// SweepWorker executes SweepJob by publishing a sweep request onto the bus.
// The actual expiration work happens in the score router's sweep handler, so a
// failed publish is retried by River and a failed sweep is retried by the
// router, each with its own policy.
type SweepWorker struct {
	river.WorkerDefaults[SweepJob]

	logger   *slog.Logger
	eventBus eventbus.EventBus
}

// NewSweepWorker creates a worker that turns due sweep jobs into sweep
// request messages.
func NewSweepWorker(logger *slog.Logger, eventBus eventbus.EventBus) *SweepWorker {
	return &SweepWorker{
		logger:   logger,
		eventBus: eventBus,
	}
}

// Work publishes the sweep request for the job's cutoff.
func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepJob]) error {
	asOf := job.Args.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	w.logger.InfoContext(ctx, "Sweep job due, publishing sweep request",
		attr.Int64("job_id", job.ID),
		attr.Time("as_of", asOf),
	)

	msg, err := sharedutils.NewEventMessage(scoreevents.SweepRequestedPayloadV1{AsOf: asOf}, scoreevents.SweepRequestedV1)
	if err != nil {
		return fmt.Errorf("failed to build sweep request message: %w", err)
	}

	if err := w.eventBus.Publish(scoreevents.SweepRequestedV1, msg); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish sweep request", attr.Error(err))
		return fmt.Errorf("failed to publish sweep request: %w", err)
	}

	return nil
}
