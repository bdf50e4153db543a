package sqlitestore

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"
)

var testCounter atomic.Int64

// failer is the subset of testing.TB and rapid.T the test helper needs.
type failer interface {
	Fatalf(format string, args ...any)
}

// TestStore returns an encrypted in-memory store with a random key.
// It accepts both *testing.T and *rapid.T.
func TestStore(t failer) *Store {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	store, err := OpenInMemory(fmt.Sprintf("notes-test-%d", testCounter.Add(1)), key)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return store
}
