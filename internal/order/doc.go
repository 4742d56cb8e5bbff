// Package order defines the unit of kitchen work: a single dish ticket with a
// priority, an estimated cooking duration, and the timestamps a cook records
// while preparing it.
//
// Items are handed off rather than shared. A customer builds the item, the
// queue holds it while it waits, and exactly one cook owns it from pop until
// completion, so the timestamp fields carry no synchronisation of their own.
package order
