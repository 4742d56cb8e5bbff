package kitchen

import (
	"context"
	"log/slog"
	"time"

	"brigade/internal/events"
	"brigade/internal/order"
)

// OrderStream yields one customer's orders. Each stream is used by a single
// goroutine.
type OrderStream interface {
	Next() ([]*order.Item, bool)
	Gap(lo, hi time.Duration) time.Duration
}

// OrderSource builds the stream for a customer id (1-based).
type OrderSource func(customerID int) OrderStream

// Processor cooks one item. It runs on the cook's goroutine and may block.
type Processor func(ctx context.Context, item *order.Item) error

// Option configures optional Coordinator behavior.
type Option func(*options)

type options struct {
	sinks     []events.Sink
	logger    *slog.Logger
	source    OrderSource
	processor Processor
	runID     string
	now       func() time.Time
}

// WithSink adds an event sink. Sinks receive events in the order added.
func WithSink(sink events.Sink) Option {
	return func(o *options) {
		if sink != nil {
			o.sinks = append(o.sinks, sink)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithOrderSource replaces the menu-driven order generator.
func WithOrderSource(source OrderSource) Option {
	return func(o *options) { o.source = source }
}

// WithProcessor replaces the default sleep-based cooking.
func WithProcessor(p Processor) Option {
	return func(o *options) { o.processor = p }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// WithClock overrides the timestamp source for events and items.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// CookFor returns the default Processor: it blocks for the item's duration
// multiplied by scale. A dequeued item is always finished, so ctx is ignored.
func CookFor(scale float64) Processor {
	return func(_ context.Context, item *order.Item) error {
		time.Sleep(time.Duration(float64(item.Duration) * scale))
		return nil
	}
}
