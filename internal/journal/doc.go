// Package journal records kitchen runs and their events in SQLite.
//
// The journal is history, not persistence: queued items are never reloaded.
// A single writer holds brigade.lock in the state directory for the length of
// a run; readers (brigade history) open the database without the lock. The
// schema is embedded and versioned, and mismatched databases are rejected with
// ErrSchemaMismatch rather than migrated.
package journal
