package queue

import "brigade/internal/order"

type entry struct {
	item *order.Item
	seq  uint64
}

// itemHeap is a min-heap on (priority, seq).
type itemHeap []entry

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].item.Priority == h[j].item.Priority {
		return h[i].seq < h[j].seq
	}
	return h[i].item.Priority < h[j].item.Priority
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}
