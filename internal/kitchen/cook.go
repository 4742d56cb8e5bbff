package kitchen

import (
	"context"
	"errors"
	"fmt"

	"brigade/internal/events"
	"brigade/internal/order"
	"brigade/internal/queue"
)

func (c *Coordinator) runCook(ctx context.Context, id int) {
	var (
		held   *order.Item
		served int
		failed bool
	)
	defer func() {
		if r := recover(); r != nil {
			failed = true
			c.taskFailed(ctx, events.RoleCook, id, &TaskPanicError{Role: events.RoleCook, ID: id, Value: r}, held)
		}
		if failed {
			c.cookLost(ctx)
		}
		c.publish(ctx, events.Event{Kind: events.KindConsumerDone, Role: events.RoleCook, ActorID: id, Count: served})
	}()

	// Pop waits on wake, which also ends when the shutdown flag is set. Pop
	// still takes a queued item first, so the drain is unaffected.
	wake, stopWake := c.shutdown.Context(ctx)
	defer stopWake()

	// A cancelled run stops between items; whatever is still queued is
	// counted as abandoned.
	for ctx.Err() == nil && (!c.shutdown.IsSet() || !c.queue.IsEmpty()) {
		item, err := c.queue.Pop(wake, c.timing.PopTimeout())
		if errors.Is(err, queue.ErrQueueEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() == nil {
				continue
			}
			return
		}

		held = item
		if err := c.cook(ctx, id, item); err != nil {
			failed = true
			c.taskFailed(ctx, events.RoleCook, id, err, item)
			return
		}
		held = nil
		served++
	}
}

func (c *Coordinator) cook(ctx context.Context, id int, item *order.Item) error {
	if err := item.MarkStarted(c.now()); err != nil {
		return err
	}
	c.publish(ctx, events.Event{Kind: events.KindItemStarted, Role: events.RoleCook, ActorID: id}.ForItem(item))

	if err := c.process(ctx, item); err != nil {
		return fmt.Errorf("cook %s: %w", item.Name, err)
	}
	if err := item.MarkFinished(c.now()); err != nil {
		return err
	}

	c.completed.Add(1)
	if item.Priority.Valid() {
		c.byPriority[item.Priority].Add(1)
	}
	c.publish(ctx, events.Event{
		Kind:    events.KindItemCompleted,
		Role:    events.RoleCook,
		ActorID: id,
		Elapsed: item.Elapsed(),
	}.ForItem(item))
	return nil
}
