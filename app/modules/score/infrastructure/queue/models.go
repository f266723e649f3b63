package scorequeue

import "time"

// SweepJob is the periodic expiration sweep. The worker publishes a sweep
// request onto the bus; the score router picks it up like any other message,
// so sweeps triggered by the scheduler and sweeps triggered manually share one
// code path.
type SweepJob struct {
	// AsOf is the cutoff; zero means "now at execution time".
	AsOf time.Time `json:"as_of"`
}

// Kind returns the job type identifier for River.
func (SweepJob) Kind() string { return "score_sweep" }
