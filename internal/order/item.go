package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyStarted is returned when a cook tries to start an item twice.
	ErrAlreadyStarted = errors.New("order: item already started")
	// ErrNotStarted is returned when finishing an item that was never started.
	ErrNotStarted = errors.New("order: item not started")
	// ErrAlreadyFinished is returned when an item is finished twice.
	ErrAlreadyFinished = errors.New("order: item already finished")
)

// Item is one dish on a customer's order.
//
// Priority, Duration, Name, CustomerID, OrderID and ID are fixed at
// construction. StartedAt and FinishedAt stay nil while the item is queued and
// are written once each by the cook that prepares it.
type Item struct {
	ID         string
	Priority   Priority
	Duration   time.Duration
	Name       string
	CustomerID int
	OrderID    int

	StartedAt  *time.Time
	FinishedAt *time.Time
}

// New builds an unstarted item with a fresh correlation id.
func New(name string, priority Priority, duration time.Duration, customerID, orderID int) *Item {
	return &Item{
		ID:         uuid.NewString(),
		Priority:   priority,
		Duration:   duration,
		Name:       name,
		CustomerID: customerID,
		OrderID:    orderID,
	}
}

// MarkStarted records when preparation began.
func (i *Item) MarkStarted(at time.Time) error {
	if i.StartedAt != nil {
		return ErrAlreadyStarted
	}
	ts := at
	i.StartedAt = &ts
	return nil
}

// MarkFinished records when preparation ended. The item must have been started
// and the finish time is clamped so it never precedes the start.
func (i *Item) MarkFinished(at time.Time) error {
	if i.StartedAt == nil {
		return ErrNotStarted
	}
	if i.FinishedAt != nil {
		return ErrAlreadyFinished
	}
	ts := at
	if ts.Before(*i.StartedAt) {
		ts = *i.StartedAt
	}
	i.FinishedAt = &ts
	return nil
}

// Started reports whether a cook has picked the item up.
func (i *Item) Started() bool { return i.StartedAt != nil }

// Finished reports whether preparation completed.
func (i *Item) Finished() bool { return i.FinishedAt != nil }

// Elapsed returns the recorded preparation time, or zero when incomplete.
func (i *Item) Elapsed() time.Duration {
	if i.StartedAt == nil || i.FinishedAt == nil {
		return 0
	}
	return i.FinishedAt.Sub(*i.StartedAt)
}
