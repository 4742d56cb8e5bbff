package menu

import (
	"math/rand/v2"
	"time"

	"brigade/internal/order"
)

// Generator hands out per-customer order streams for one run.
type Generator struct {
	menu      *Menu
	seed      uint64
	maxOrders int
	maxItems  int
}

// NewGenerator builds a generator. Each customer places 1..maxOrders orders of
// 1..maxItems dishes.
func NewGenerator(m *Menu, seed int64, maxOrders, maxItems int) *Generator {
	return &Generator{
		menu:      m,
		seed:      uint64(seed),
		maxOrders: max(maxOrders, 1),
		maxItems:  max(maxItems, 1),
	}
}

// Stream returns the order stream for customerID. Streams never share RNG
// state, so they may be consumed from different goroutines.
func (g *Generator) Stream(customerID int) *Stream {
	rng := rand.New(rand.NewPCG(g.seed, uint64(customerID)))
	return &Stream{
		menu:       g.menu,
		rng:        rng,
		customerID: customerID,
		remaining:  1 + rng.IntN(g.maxOrders),
		maxItems:   g.maxItems,
	}
}

// Stream yields one customer's orders. It is not safe for concurrent use.
type Stream struct {
	menu       *Menu
	rng        *rand.Rand
	customerID int
	remaining  int
	maxItems   int
	nextOrder  int
}

// Remaining reports how many orders are left.
func (s *Stream) Remaining() int {
	return s.remaining
}

// Next builds the next order, or returns false once the customer is done.
func (s *Stream) Next() ([]*order.Item, bool) {
	if s.remaining <= 0 {
		return nil, false
	}
	s.remaining--
	s.nextOrder++

	count := 1 + s.rng.IntN(s.maxItems)
	items := make([]*order.Item, 0, count)
	for range count {
		d := s.menu.Pick(s.rng)
		items = append(items, order.New(d.Name, d.Priority, d.Duration, s.customerID, s.nextOrder))
	}
	return items, true
}

// Gap draws the pause before the next order, uniform in [lo, hi].
func (s *Stream) Gap(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return max(lo, 0)
	}
	return lo + time.Duration(s.rng.Int64N(int64(hi-lo)+1))
}
