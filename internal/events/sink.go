package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"brigade/internal/logging"
)

// Sink receives events from concurrent tasks.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

type multi []Sink

// Multi delivers each event to every non-nil sink in order and joins their
// errors.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	switch len(out) {
	case 0:
		return Noop{}
	case 1:
		return out[0]
	}
	return out
}

func (m multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

// Events returns a snapshot in publish order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count reports how many events of kind were published.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// ItemIDs lists the item ids carried by events of kind, in publish order.
func (r *Recorder) ItemIDs(kind Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, ev := range r.events {
		if ev.Kind == kind && ev.ItemID != "" {
			ids = append(ids, ev.ItemID)
		}
	}
	return ids
}

// LogSink renders events as structured log lines.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logging.NewComponentLogger(logger, "kitchen")}
}

func (s *LogSink) Publish(ctx context.Context, ev Event) error {
	logger := logging.WithContext(ctx, s.logger)
	attrs := actorAttrs(ev)

	switch ev.Kind {
	case KindItemEnqueued:
		logger.Info("order placed", logging.Args(append(attrs, itemAttrs(ev)...)...)...)
	case KindItemStarted:
		logger.Info("cooking", logging.Args(append(attrs, itemAttrs(ev)...)...)...)
	case KindItemCompleted:
		attrs = append(attrs, itemAttrs(ev)...)
		attrs = append(attrs, logging.Duration("elapsed", ev.Elapsed))
		logger.Info("dish ready", logging.Args(attrs...)...)
	case KindQueueFullBackpressure:
		attrs = append(attrs, itemAttrs(ev)...)
		attrs = append(attrs,
			logging.Int("attempt", ev.Attempt),
			logging.Duration("retry_in", ev.Wait),
			logging.String(logging.FieldErrorHint, "raise kitchen.queue_capacity or add cooks"),
			logging.String(logging.FieldImpact, "customer waits before retrying"),
		)
		logging.WarnWithContext(logger, "queue full, backing off", string(ev.Kind), attrs...)
	case KindProducerDone:
		logger.Info("customer finished ordering", logging.Args(append(attrs, logging.Int("items", ev.Count))...)...)
	case KindConsumerDone:
		logger.Info("cook clocked out", logging.Args(append(attrs, logging.Int("items", ev.Count))...)...)
	case KindTaskFailed:
		attrs = append(attrs, itemAttrs(ev)...)
		attrs = append(attrs,
			logging.String("error", ev.Err),
			logging.String(logging.FieldErrorHint, "inspect the error; sibling tasks keep running"),
		)
		logging.ErrorWithContext(logger, string(ev.Role)+" failed", string(ev.Kind), attrs...)
	case KindRunComplete:
		logger.Info("kitchen closed", logging.Args(append(attrs, logging.Int("items", ev.Count))...)...)
	default:
		logger.Debug("event", logging.String(logging.FieldEventType, string(ev.Kind)))
	}
	return nil
}

func actorAttrs(ev Event) []logging.Attr {
	switch ev.Role {
	case RoleCustomer:
		return []logging.Attr{logging.Int(logging.FieldCustomerID, ev.ActorID)}
	case RoleCook:
		return []logging.Attr{logging.Int(logging.FieldCookID, ev.ActorID)}
	default:
		return nil
	}
}

func itemAttrs(ev Event) []logging.Attr {
	if ev.ItemID == "" {
		return nil
	}
	attrs := []logging.Attr{
		logging.String("dish", ev.Dish),
		logging.String("priority", ev.Priority.String()),
		logging.String(logging.FieldItemID, ev.ItemID),
	}
	if ev.Role != RoleCustomer {
		attrs = append(attrs, logging.Int(logging.FieldCustomerID, ev.CustomerID))
	}
	if ev.OrderID > 0 {
		attrs = append(attrs, logging.Int(logging.FieldOrderID, ev.OrderID))
	}
	return attrs
}
