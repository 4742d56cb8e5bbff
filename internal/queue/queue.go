package queue

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"brigade/internal/order"
)

// Queue is a capacity-bounded priority queue of kitchen items.
type Queue struct {
	mu        sync.Mutex
	items     itemHeap
	capacity  int
	seq       uint64
	highWater int

	// changed is closed and replaced whenever the contents change so that
	// blocked Push and Pop callers re-check their condition.
	changed chan struct{}
}

// New creates an empty queue holding at most capacity items.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	q := &Queue{
		items:    make(itemHeap, 0, capacity),
		capacity: capacity,
		changed:  make(chan struct{}),
	}
	heap.Init(&q.items)
	return q, nil
}

// Push inserts item, waiting up to timeout for space. On ErrQueueFull or a
// context error the item was not inserted.
func (q *Queue) Push(ctx context.Context, item *order.Item, timeout time.Duration) error {
	if item == nil {
		return ErrNilItem
	}
	if item.Started() {
		return ErrItemStarted
	}
	ctx = ensureContext(ctx)

	dl := newDeadline(timeout)
	defer dl.stop()
	for {
		wait, ok := q.tryPush(item)
		if ok {
			return nil
		}
		if dl.expired {
			return ErrQueueFull
		}
		if err := dl.wait(ctx, wait); err != nil {
			return err
		}
	}
}

// Pop removes the most urgent item, waiting up to timeout for one to arrive.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*order.Item, error) {
	ctx = ensureContext(ctx)

	dl := newDeadline(timeout)
	defer dl.stop()
	for {
		item, wait := q.tryPop()
		if item != nil {
			return item, nil
		}
		if dl.expired {
			return nil, ErrQueueEmpty
		}
		if err := dl.wait(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// IsEmpty reports whether the queue currently holds no items.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the current number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the configured capacity.
func (q *Queue) Cap() int {
	return q.capacity
}

// HighWater returns the largest size the queue has reached.
func (q *Queue) HighWater() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.highWater
}

func (q *Queue) tryPush(item *order.Item) (<-chan struct{}, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		return q.changed, false
	}
	q.seq++
	heap.Push(&q.items, entry{item: item, seq: q.seq})
	if n := len(q.items); n > q.highWater {
		q.highWater = n
	}
	q.broadcastLocked()
	return nil, true
}

func (q *Queue) tryPop() (*order.Item, <-chan struct{}) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, q.changed
	}
	e := heap.Pop(&q.items).(entry)
	q.broadcastLocked()
	return e.item, nil
}

func (q *Queue) broadcastLocked() {
	close(q.changed)
	q.changed = make(chan struct{})
}

// deadline tracks a single timeout across repeated waits. Once it fires the
// caller gets one more attempt before giving up.
type deadline struct {
	timer   *time.Timer
	expired bool
}

func newDeadline(timeout time.Duration) *deadline {
	if timeout <= 0 {
		return &deadline{expired: true}
	}
	return &deadline{timer: time.NewTimer(timeout)}
}

func (d *deadline) wait(ctx context.Context, changed <-chan struct{}) error {
	select {
	case <-changed:
		return nil
	case <-d.timer.C:
		d.expired = true
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *deadline) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
