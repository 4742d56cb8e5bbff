// Package menu holds the dish table customers order from and the seeded
// generators that turn it into orders.
//
// A Menu is immutable once built. Each customer gets its own Stream with a
// private RNG derived from the run seed and the customer id, so runs with the
// same seed produce the same orders regardless of scheduling.
package menu
