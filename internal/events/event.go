package events

import (
	"time"

	"brigade/internal/order"
)

// Kind enumerates the lifecycle milestones.
type Kind string

const (
	KindItemEnqueued          Kind = "item_enqueued"
	KindItemStarted           Kind = "item_started"
	KindItemCompleted         Kind = "item_completed"
	KindQueueFullBackpressure Kind = "queue_full_backpressure"
	KindProducerDone          Kind = "producer_done"
	KindConsumerDone          Kind = "consumer_done"
	KindTaskFailed            Kind = "task_failed"
	KindRunComplete           Kind = "run_complete"
)

// Role names the task that emitted an event.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleCook        Role = "cook"
	RoleCoordinator Role = "coordinator"
)

// Event is a point-in-time record. Item fields are copied so the event stays
// valid after the item moves on.
type Event struct {
	Kind    Kind
	At      time.Time
	RunID   string
	Role    Role
	ActorID int

	ItemID     string
	Dish       string
	Priority   order.Priority
	CustomerID int
	OrderID    int

	// Attempt and Wait describe a backpressure retry.
	Attempt int
	Wait    time.Duration
	// Elapsed is the cook time for ItemCompleted.
	Elapsed time.Duration
	// Err is set on TaskFailed.
	Err string
	// Count carries the per-task total on ProducerDone and ConsumerDone.
	Count int
}

// ForItem fills the item fields of e from item. A nil item leaves them empty.
func (e Event) ForItem(item *order.Item) Event {
	if item == nil {
		return e
	}
	e.ItemID = item.ID
	e.Dish = item.Name
	e.Priority = item.Priority
	e.CustomerID = item.CustomerID
	e.OrderID = item.OrderID
	return e
}
