// Package events carries kitchen lifecycle events to pluggable sinks.
//
// The kitchen emits one Event per milestone (enqueue, start, completion,
// backpressure, task exit, failure, run completion) and depends only on the
// Sink interface. LogSink renders events through slog, Recorder keeps them in
// memory for summaries and tests, and the journal package persists them.
// Every Sink must be safe for concurrent use.
package events
