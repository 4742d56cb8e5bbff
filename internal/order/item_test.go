package order_test

import (
	"errors"
	"testing"
	"time"

	"brigade/internal/order"
)

func TestItemTimestampsSetOnce(t *testing.T) {
	item := order.New("Sopa", order.PriorityHigh, 1500*time.Millisecond, 1, 1)
	if item.ID == "" {
		t.Fatal("expected item id")
	}
	if item.Started() || item.Finished() {
		t.Fatal("new item should have no timestamps")
	}

	if err := item.MarkFinished(time.Now()); !errors.Is(err, order.ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted, got %v", err)
	}

	start := time.Now()
	if err := item.MarkStarted(start); err != nil {
		t.Fatalf("MarkStarted: %v", err)
	}
	if err := item.MarkStarted(start.Add(time.Second)); !errors.Is(err, order.ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	if !item.StartedAt.Equal(start) {
		t.Fatalf("start overwritten: %v", item.StartedAt)
	}

	if err := item.MarkFinished(start.Add(2 * time.Second)); err != nil {
		t.Fatalf("MarkFinished: %v", err)
	}
	if err := item.MarkFinished(start.Add(3 * time.Second)); !errors.Is(err, order.ErrAlreadyFinished) {
		t.Fatalf("expected ErrAlreadyFinished, got %v", err)
	}
	if got := item.Elapsed(); got != 2*time.Second {
		t.Fatalf("elapsed = %v, want 2s", got)
	}
}

func TestMarkFinishedNeverPrecedesStart(t *testing.T) {
	item := order.New("Pizza", order.PriorityMedium, time.Second, 1, 1)
	start := time.Now()
	if err := item.MarkStarted(start); err != nil {
		t.Fatalf("MarkStarted: %v", err)
	}
	if err := item.MarkFinished(start.Add(-time.Minute)); err != nil {
		t.Fatalf("MarkFinished: %v", err)
	}
	if item.FinishedAt.Before(*item.StartedAt) {
		t.Fatal("finish recorded before start")
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    order.Priority
		wantErr bool
	}{
		{in: "high", want: order.PriorityHigh},
		{in: " Medium ", want: order.PriorityMedium},
		{in: "LOW", want: order.PriorityLow},
		{in: "alta", want: order.PriorityHigh},
		{in: "2", want: order.PriorityMedium},
		{in: "4", wantErr: true},
		{in: "urgent", wantErr: true},
	}
	for _, tc := range tests {
		got, err := order.ParsePriority(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePriority(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePriority(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePriority(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPriorityString(t *testing.T) {
	if order.PriorityHigh.String() != "high" {
		t.Fatalf("unexpected label %q", order.PriorityHigh.String())
	}
	if order.Priority(9).Valid() {
		t.Fatal("priority 9 should be invalid")
	}
}
