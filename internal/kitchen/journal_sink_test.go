package kitchen_test

import (
	"context"
	"testing"
	"time"

	"brigade/internal/config"
	"brigade/internal/events"
	"brigade/internal/journal"
	"brigade/internal/kitchen"
	"brigade/internal/testsupport"
)

func TestJournalReceivesEveryEvent(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithKitchen(2, 2),
		testsupport.WithOrderLimits(2, 3),
		testsupport.WithTiming(config.Timing{
			PushTimeoutMS:          50,
			PopTimeoutMS:           5,
			BackpressurePauseMS:    1,
			BackpressureMaxPauseMS: 4,
			CookTimeScale:          0.0005,
		}),
	)
	store := testsupport.MustOpenJournal(t, cfg)
	rec := events.NewRecorder()

	c, err := kitchen.New(cfg, kitchen.WithSink(rec), kitchen.WithSink(store))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := store.BeginRun(ctx, journal.RunInfo{
		ID:        c.RunID(),
		StartedAt: time.Now(),
		Seed:      c.Seed(),
		Customers: cfg.Kitchen.Customers,
		Cooks:     cfg.Kitchen.Cooks,
		Capacity:  cfg.Kitchen.QueueCapacity,
	}); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	report, err := runWithDeadline(t, c, 10*time.Second)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	stored, err := store.RunEvents(ctx, c.RunID())
	if err != nil {
		t.Fatalf("RunEvents: %v", err)
	}
	if len(stored) != len(rec.Events()) {
		t.Fatalf("journal has %d events, recorder has %d", len(stored), len(rec.Events()))
	}
	completed := 0
	for _, ev := range stored {
		if ev.Kind == events.KindItemCompleted {
			completed++
		}
	}
	if completed != report.Completed {
		t.Fatalf("journal completed = %d, report = %d", completed, report.Completed)
	}

	run, err := store.FindRun(ctx, c.RunID())
	if err != nil {
		t.Fatalf("FindRun: %v", err)
	}
	if run.Status != journal.StatusComplete || run.Completed != report.Completed {
		t.Fatalf("run summary not stamped: %+v", run)
	}
}
