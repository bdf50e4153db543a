package notes

import "context"

// Store is the persistence contract every engine implements. Callers must be
// indifferent to which backend answers a call: identical inputs produce
// identical observable behavior, including error codes.
//
// Engines own the canonical copy of every note and return copies only.
// Identifiers are assigned monotonically on create and never reused after
// delete. List results follow the engine's insertion order and are
// deterministic for a fixed state.
type Store interface {
	// Create validates the draft (title, owner, visibility), assigns the
	// next identifier and timestamps, stores the note, and returns it.
	Create(ctx context.Context, draft Draft) (*Note, error)

	// Get returns the note with the given id, or a not-found error.
	Get(ctx context.Context, id int64) (*Note, error)

	// Update replaces title, body, tags, and visibility. Id, owner, and
	// creation time are preserved regardless of draft contents.
	Update(ctx context.Context, id int64, draft Draft) (*Note, error)

	// Delete removes the note entirely. The id is permanently retired.
	Delete(ctx context.Context, id int64) error

	// List returns notes matching pred in insertion order. A nil predicate
	// matches everything.
	List(ctx context.Context, pred Predicate) ([]*Note, error)
}
