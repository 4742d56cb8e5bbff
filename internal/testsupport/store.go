package testsupport

import (
	"testing"

	"brigade/internal/config"
	"brigade/internal/journal"
)

// MustOpenJournal opens the run journal under cfg's state dir and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.Paths.StateDir)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
