// Package queue implements the bounded priority queue shared by customers and
// cooks.
//
// Items are ordered by priority (lower value first) and then by insertion
// order, so equal-priority tickets come out first in, first out. Push blocks
// while the queue is at capacity and Pop blocks while it is empty; both give
// up after the caller's timeout with ErrQueueFull or ErrQueueEmpty. A zero
// timeout turns either call into a non-blocking attempt.
//
// All methods are safe for concurrent use and each item is handed to at most
// one Pop caller. Len and IsEmpty are advisory snapshots: the answer can be
// stale by the time the caller acts on it.
package queue
