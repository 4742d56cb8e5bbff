package kitchen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"brigade/internal/config"
	"brigade/internal/events"
	"brigade/internal/logging"
	"brigade/internal/menu"
	"brigade/internal/order"
	"brigade/internal/queue"
)

// Coordinator owns one kitchen run.
type Coordinator struct {
	kitchen config.Kitchen
	timing  config.Timing
	seed    int64
	runID   string

	queue    *queue.Queue
	shutdown *Shutdown
	sink     events.Sink
	logger   *slog.Logger
	source   OrderSource
	process  Processor
	now      func() time.Time

	state atomic.Int32
	ran   atomic.Bool

	enqueued     atomic.Int64
	completed    atomic.Int64
	lost         atomic.Int64
	backpressure atomic.Int64
	failedTasks  atomic.Int64
	liveCooks    atomic.Int64
	byPriority   [order.PriorityLow + 1]atomic.Int64

	// stopCustomers ends customer tasks early when no cook is left.
	stopMu        sync.Mutex
	stopCustomers context.CancelFunc
}

// New validates cfg and prepares a coordinator. Invalid configuration is
// reported here, before any task exists.
func New(cfg *config.Config, opts ...Option) (*Coordinator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("kitchen: %w", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	q, err := queue.New(cfg.Kitchen.QueueCapacity)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c := &Coordinator{
		kitchen:  cfg.Kitchen,
		timing:   cfg.Timing,
		seed:     seed,
		runID:    o.runID,
		queue:    q,
		shutdown: NewShutdown(),
		sink:     events.Multi(o.sinks...),
		logger:   logging.NewComponentLogger(o.logger, "coordinator"),
		source:   o.source,
		process:  o.processor,
		now:      o.now,
	}
	if c.runID == "" {
		c.runID = uuid.NewString()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.process == nil {
		c.process = CookFor(cfg.Timing.CookTimeScale)
	}
	if c.source == nil {
		m, err := menu.FromConfig(cfg.Menu.Dishes)
		if err != nil {
			return nil, fmt.Errorf("build menu: %w", err)
		}
		gen := menu.NewGenerator(m, seed, cfg.Kitchen.MaxOrdersPerCustomer, cfg.Kitchen.MaxItemsPerOrder)
		c.source = func(customerID int) OrderStream { return gen.Stream(customerID) }
	}
	return c, nil
}

// RunID identifies this run in logs and the journal.
func (c *Coordinator) RunID() string { return c.runID }

// Seed is the resolved RNG seed.
func (c *Coordinator) Seed() int64 { return c.seed }

// State reports the current lifecycle phase.
func (c *Coordinator) State() State { return State(c.state.Load()) }

func (c *Coordinator) setState(s State) {
	c.state.Store(int32(s))
	c.logger.Debug("state changed", logging.String("state", s.String()))
}

// Run spawns cooks and customers and blocks until every task has exited.
// Cancelling ctx stops customers between orders and cooks between items; the
// report then counts what was left queued and Run returns ctx.Err().
func (c *Coordinator) Run(ctx context.Context) (Report, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyRun
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, c.runID)
	c.logger = logging.WithContext(ctx, c.logger)

	started := c.now()
	customerCtx, cancelCustomers := context.WithCancel(ctx)
	defer cancelCustomers()
	c.stopMu.Lock()
	c.stopCustomers = cancelCustomers
	c.stopMu.Unlock()

	c.setState(StateRunning)
	c.logger.Info("kitchen open",
		logging.Int("customers", c.kitchen.Customers),
		logging.Int("cooks", c.kitchen.Cooks),
		logging.Int("capacity", c.queue.Cap()),
		logging.Int64("seed", c.seed),
	)

	var cooks, customers sync.WaitGroup
	c.liveCooks.Store(int64(c.kitchen.Cooks))
	for id := 1; id <= c.kitchen.Cooks; id++ {
		cooks.Add(1)
		go func() {
			defer cooks.Done()
			c.runCook(ctx, id)
		}()
	}
	for id := 1; id <= c.kitchen.Customers; id++ {
		customers.Add(1)
		go func() {
			defer customers.Done()
			c.runCustomer(customerCtx, id)
		}()
	}

	customers.Wait()
	c.setState(StateDraining)
	c.shutdown.Set()
	cooks.Wait()
	c.setState(StateDone)

	report := c.report(started)
	c.publish(ctx, events.Event{Kind: events.KindRunComplete, Role: events.RoleCoordinator, Count: report.Completed})

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if c.liveCooks.Load() == 0 {
		return report, ErrAllCooksFailed
	}
	return report, nil
}

func (c *Coordinator) report(started time.Time) Report {
	r := Report{
		RunID:               c.runID,
		Seed:                c.seed,
		State:               c.State(),
		StartedAt:           started,
		EndedAt:             c.now(),
		Customers:           c.kitchen.Customers,
		Cooks:               c.kitchen.Cooks,
		Capacity:            c.queue.Cap(),
		HighWater:           c.queue.HighWater(),
		Enqueued:            int(c.enqueued.Load()),
		Completed:           int(c.completed.Load()),
		Lost:                int(c.lost.Load()),
		Abandoned:           c.queue.Len(),
		Backpressure:        int(c.backpressure.Load()),
		FailedTasks:         int(c.failedTasks.Load()),
		CompletedByPriority: make(map[order.Priority]int, 3),
	}
	for _, p := range order.AllPriorities() {
		r.CompletedByPriority[p] = int(c.byPriority[p].Load())
	}
	return r
}

// publish stamps ev and hands it to the sinks. Events emitted while the run
// is being cancelled are still delivered.
func (c *Coordinator) publish(ctx context.Context, ev events.Event) {
	ev.At = c.now()
	ev.RunID = c.runID
	if err := c.sink.Publish(context.WithoutCancel(ctx), ev); err != nil {
		c.logger.Warn("event sink rejected event",
			logging.String(logging.FieldEventType, "event_publish_failed"),
			logging.String("kind", string(ev.Kind)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check journal database access"),
		)
	}
}

// taskFailed reports a task that ended early. held is the item the task owned
// at the time, if any.
func (c *Coordinator) taskFailed(ctx context.Context, role events.Role, id int, err error, held *order.Item) {
	c.failedTasks.Add(1)
	if held != nil {
		c.lost.Add(1)
	}
	ev := events.Event{Kind: events.KindTaskFailed, Role: role, ActorID: id, Err: err.Error()}
	c.publish(ctx, ev.ForItem(held))
}

func (c *Coordinator) cookLost(ctx context.Context) {
	if c.liveCooks.Add(-1) > 0 || c.shutdown.IsSet() {
		return
	}
	logging.ErrorWithContext(c.logger, "no cooks left; closing to customers", "kitchen_unstaffed",
		logging.String(logging.FieldErrorHint, "inspect task_failed events for the cause"),
	)
	c.stopMu.Lock()
	stop := c.stopCustomers
	c.stopMu.Unlock()
	if stop != nil {
		stop()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
