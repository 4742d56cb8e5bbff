// Package preflight provides readiness checks for the filesystem paths a
// kitchen run writes to.
//
// "brigade run" calls RunAll after loading config and before starting the
// coordinator. Any failed check aborts the run. Each check is gated by its
// config toggle, so a run with the journal disabled skips the state directory.
package preflight
