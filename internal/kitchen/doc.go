// Package kitchen runs customers (producers) and cooks (consumers) against a
// shared bounded priority queue and shuts them down without losing work.
//
// A Coordinator owns the queue and the shutdown signal and hands both to every
// task it spawns; nothing is package-level state. The lifecycle is
// Idle → Running → Draining → Done: cooks start first, then customers; once
// every customer has been joined the signal is set, and cooks keep popping
// until the signal is set and the queue is empty. Because nothing pushes after
// the signal, that condition is stable and no item is stranded.
//
// Panics and errors inside a task are recovered at the task boundary and
// reported as TaskFailed events; siblings keep running.
package kitchen
