package kitchen

import (
	"errors"
	"fmt"

	"brigade/internal/events"
)

var (
	// ErrAlreadyRun is returned by a second call to Run.
	ErrAlreadyRun = errors.New("kitchen: coordinator already ran")
	// ErrBackpressureExhausted ends a customer whose push attempts hit the
	// configured limit.
	ErrBackpressureExhausted = errors.New("kitchen: queue stayed full")
	// ErrAllCooksFailed is returned when no cook is left to drain the queue.
	ErrAllCooksFailed = errors.New("kitchen: every cook failed")
)

// TaskPanicError wraps a value recovered from a task goroutine.
type TaskPanicError struct {
	Role  events.Role
	ID    int
	Value any
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("%s %d panicked: %v", e.Role, e.ID, e.Value)
}

// Unwrap exposes a panicked error value to errors.Is and errors.As.
func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
