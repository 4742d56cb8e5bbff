package kitchen

import (
	"context"
	"errors"
	"fmt"

	"brigade/internal/events"
	"brigade/internal/order"
	"brigade/internal/queue"
)

func (c *Coordinator) runCustomer(ctx context.Context, id int) {
	placed := 0
	defer func() {
		if r := recover(); r != nil {
			c.taskFailed(ctx, events.RoleCustomer, id, &TaskPanicError{Role: events.RoleCustomer, ID: id, Value: r}, nil)
		}
		c.publish(ctx, events.Event{Kind: events.KindProducerDone, Role: events.RoleCustomer, ActorID: id, Count: placed})
	}()

	stream := c.source(id)
	for {
		if c.shutdown.IsSet() || ctx.Err() != nil {
			return
		}
		items, ok := stream.Next()
		if !ok {
			return
		}
		for _, item := range items {
			if ctx.Err() != nil {
				return
			}
			if err := c.enqueue(ctx, id, item); err != nil {
				if ctx.Err() == nil {
					c.taskFailed(ctx, events.RoleCustomer, id, err, nil)
				}
				return
			}
			placed++
		}
		if !sleepCtx(ctx, stream.Gap(c.timing.ArrivalMin(), c.timing.ArrivalMax())) {
			return
		}
	}
}

// enqueue pushes item, backing off while the queue stays full. The pause
// doubles per attempt up to the configured cap. On error the item was not
// enqueued.
func (c *Coordinator) enqueue(ctx context.Context, customerID int, item *order.Item) error {
	pause := c.timing.BackpressurePause()
	maxPause := c.timing.BackpressureMaxPause()

	for attempt := 1; ; attempt++ {
		err := c.queue.Push(ctx, item, c.timing.PushTimeout())
		if err == nil {
			c.enqueued.Add(1)
			c.publish(ctx, events.Event{Kind: events.KindItemEnqueued, Role: events.RoleCustomer, ActorID: customerID}.ForItem(item))
			return nil
		}
		if !errors.Is(err, queue.ErrQueueFull) {
			return err
		}

		c.backpressure.Add(1)
		if limit := c.timing.MaxPushAttempts; limit > 0 && attempt >= limit {
			return fmt.Errorf("%w: %s after %d attempts", ErrBackpressureExhausted, item.Name, attempt)
		}
		c.publish(ctx, events.Event{
			Kind:    events.KindQueueFullBackpressure,
			Role:    events.RoleCustomer,
			ActorID: customerID,
			Attempt: attempt,
			Wait:    pause,
		}.ForItem(item))
		if !sleepCtx(ctx, pause) {
			return ctx.Err()
		}
		pause = min(pause*2, maxPause)
	}
}
