package kitchen

import (
	"context"
	"strings"
	"testing"
	"time"

	"brigade/internal/events"
	"brigade/internal/order"
	"brigade/internal/testsupport"
)

func TestCookDrainsItemsQueuedBeforeSignal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKitchen(1, 1), testsupport.WithCapacity(4))
	cfg.Timing.PopTimeoutMS = 200

	rec := events.NewRecorder()
	c, err := New(cfg,
		WithSink(rec),
		WithProcessor(func(context.Context, *order.Item) error { return nil }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.runCook(ctx, 1)
	}()

	// Let the cook block in Pop on the empty queue.
	time.Sleep(20 * time.Millisecond)
	for _, name := range []string{"Sopa", "Pizza"} {
		if err := c.queue.Push(ctx, order.New(name, order.PriorityMedium, time.Millisecond, 1, 1), 0); err != nil {
			t.Fatalf("push %s: %v", name, err)
		}
	}
	c.shutdown.Set()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cook did not exit after drain")
	}
	if got := rec.Count(events.KindItemCompleted); got != 2 {
		t.Fatalf("item_completed = %d, want 2", got)
	}
	if !c.queue.IsEmpty() {
		t.Fatalf("queue still holds %d items", c.queue.Len())
	}
}

func TestCookExitsPromptlyWhenSignalSetOnEmptyQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKitchen(1, 1))
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.shutdown.Set()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.runCook(context.Background(), 1)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cook kept polling after signal on empty queue")
	}
}

func TestIdleCookWakesWhenSignalSet(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKitchen(1, 1))
	cfg.Timing.PopTimeoutMS = 10_000
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.runCook(context.Background(), 1)
	}()

	// The cook is now parked in a Pop that would last ten seconds.
	time.Sleep(20 * time.Millisecond)
	c.shutdown.Set()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("idle cook waited out its pop timeout instead of waking on the signal")
	}
}

type queuedOrder struct {
	items []*order.Item
	sent  bool
}

func (o *queuedOrder) Next() ([]*order.Item, bool) {
	if o.sent {
		return nil, false
	}
	o.sent = true
	return o.items, true
}

func (o *queuedOrder) Gap(time.Duration, time.Duration) time.Duration { return 0 }

func TestQueuedOrderIsCookedByPriority(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithKitchen(1, 1), testsupport.WithCapacity(3))
	items := []*order.Item{
		order.New("Ensalada", order.PriorityLow, time.Millisecond, 1, 1),
		order.New("Pizza", order.PriorityMedium, time.Millisecond, 1, 1),
		order.New("Sopa", order.PriorityHigh, time.Millisecond, 1, 1),
	}
	rec := events.NewRecorder()
	c, err := New(cfg,
		WithSink(rec),
		WithOrderSource(func(int) OrderStream { return &queuedOrder{items: items} }),
		WithProcessor(func(context.Context, *order.Item) error { return nil }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// The customer places the whole order before the cook clocks in.
	ctx := context.Background()
	c.runCustomer(ctx, 1)
	if got := c.queue.Len(); got != 3 {
		t.Fatalf("queued = %d, want 3", got)
	}
	c.shutdown.Set()
	c.runCook(ctx, 1)

	var cooked []string
	for _, ev := range rec.Events() {
		if ev.Kind == events.KindItemCompleted {
			cooked = append(cooked, ev.Dish)
		}
	}
	if got := strings.Join(cooked, ","); got != "Sopa,Pizza,Ensalada" {
		t.Fatalf("completion order = %s, want Sopa,Pizza,Ensalada", got)
	}
}
