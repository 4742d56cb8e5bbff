package queue

import "errors"

var (
	// ErrQueueFull is returned by Push when the timeout elapses while the queue
	// is still at capacity. The caller keeps ownership of the item.
	ErrQueueFull = errors.New("queue: queue is full")

	// ErrQueueEmpty is returned by Pop when the timeout elapses while the
	// queue is still empty.
	ErrQueueEmpty = errors.New("queue: queue is empty")

	// ErrItemStarted is returned by Push for items that already carry a start
	// timestamp; queued items must be untouched.
	ErrItemStarted = errors.New("queue: item already started")

	// ErrNilItem is returned by Push when item is nil.
	ErrNilItem = errors.New("queue: item is nil")

	// ErrInvalidCapacity is returned by New for capacities below one.
	ErrInvalidCapacity = errors.New("queue: capacity must be positive")
)
