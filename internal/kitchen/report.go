package kitchen

import (
	"time"

	"brigade/internal/order"
)

// Report summarizes a finished run.
//
// Enqueued == Completed + Lost + Abandoned always holds: Lost items were held
// by a cook that failed, Abandoned items were still queued when a cancelled
// run stopped.
type Report struct {
	RunID     string
	Seed      int64
	State     State
	StartedAt time.Time
	EndedAt   time.Time

	Customers int
	Cooks     int
	Capacity  int
	HighWater int

	Enqueued     int
	Completed    int
	Lost         int
	Abandoned    int
	Backpressure int
	FailedTasks  int

	CompletedByPriority map[order.Priority]int
}

// Elapsed is the wall time of the run.
func (r Report) Elapsed() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Clean reports whether every enqueued item was completed and no task failed.
func (r Report) Clean() bool {
	return r.FailedTasks == 0 && r.Lost == 0 && r.Abandoned == 0 && r.Enqueued == r.Completed
}
