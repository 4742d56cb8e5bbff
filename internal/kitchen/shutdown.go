package kitchen

import (
	"context"
	"sync"
	"sync/atomic"
)

// Shutdown is a write-once flag. Once set it stays set.
type Shutdown struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

// Set raises the flag. Calls after the first are no-ops.
func (s *Shutdown) Set() {
	s.once.Do(func() {
		s.set.Store(true)
		close(s.done)
	})
}

// IsSet never blocks.
func (s *Shutdown) IsSet() bool {
	return s.set.Load()
}

// Done is closed when the flag is set.
func (s *Shutdown) Done() <-chan struct{} {
	return s.done
}

// Context returns a child of parent that is cancelled once the flag is set.
// Cooks wait on it so an idle cook wakes as soon as shutdown begins.
func (s *Shutdown) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-s.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
