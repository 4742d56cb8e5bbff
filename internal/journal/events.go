package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"brigade/internal/events"
	"brigade/internal/order"
)

// Publish stores ev. It satisfies events.Sink. RunComplete also stamps the
// run's end time and completed count so an interrupted process still leaves a
// usable summary.
func (s *Store) Publish(ctx context.Context, ev events.Event) error {
	_, err := s.execWithRetry(ctx,
		`INSERT INTO events (
            run_id, kind, at, role, actor_id, item_id, dish, priority,
            customer_id, order_id, attempt, wait_ms, elapsed_ms, count, error
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID, string(ev.Kind), formatTime(ev.At), string(ev.Role), ev.ActorID,
		nullableString(ev.ItemID), nullableString(ev.Dish), int(ev.Priority),
		ev.CustomerID, ev.OrderID, ev.Attempt, ev.Wait.Milliseconds(), ev.Elapsed.Milliseconds(),
		ev.Count, nullableString(ev.Err),
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", ev.Kind, err)
	}

	if ev.Kind == events.KindRunComplete {
		if _, err := s.execWithRetry(ctx,
			`UPDATE runs SET ended_at = ?, completed = ?, status = CASE WHEN status = ? THEN ? ELSE status END
             WHERE id = ?`,
			formatTime(ev.At), ev.Count, StatusRunning, StatusComplete, ev.RunID,
		); err != nil {
			return fmt.Errorf("stamp run completion: %w", err)
		}
	}
	return nil
}

// RunEvents returns a run's events in publish order.
func (s *Store) RunEvents(ctx context.Context, runID string) ([]events.Event, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, at, role, actor_id, COALESCE(item_id, ''), COALESCE(dish, ''), priority,
                customer_id, order_id, attempt, wait_ms, elapsed_ms, count, COALESCE(error, '')
         FROM events WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		ev.RunID = runID
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanEvent(rows *sql.Rows) (events.Event, error) {
	var (
		ev                events.Event
		kind, at, role    string
		priority          int
		waitMS, elapsedMS int64
	)
	if err := rows.Scan(&kind, &at, &role, &ev.ActorID, &ev.ItemID, &ev.Dish, &priority,
		&ev.CustomerID, &ev.OrderID, &ev.Attempt, &waitMS, &elapsedMS, &ev.Count, &ev.Err); err != nil {
		return events.Event{}, fmt.Errorf("scan event: %w", err)
	}
	ev.Kind = events.Kind(kind)
	ev.At = parseTime(at)
	ev.Role = events.Role(role)
	ev.Priority = order.Priority(priority)
	ev.Wait = time.Duration(waitMS) * time.Millisecond
	ev.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return ev, nil
}
