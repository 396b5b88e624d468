package testsupport

import (
	"testing"

	"nriassist/internal/appstore"
	"nriassist/internal/config"
)

// MustOpenStore opens an appstore.Store for tests and registers cleanup. The
// store is seeded with the demo applications when cfg.Store.Seed is set.
func MustOpenStore(t testing.TB, cfg *config.Config) *appstore.Store {
	t.Helper()

	store, err := appstore.Open(cfg)
	if err != nil {
		t.Fatalf("appstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
