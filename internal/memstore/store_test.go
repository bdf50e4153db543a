package memstore

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/kuitang/noteledger/internal/errs"
	"github.com/kuitang/noteledger/internal/notes"
)

// =============================================================================
// Property: ids start at zero and increase by one per create
// =============================================================================

func testIDs_Sequential_Properties(t *rapid.T) {
	ctx := context.Background()
	store := New()

	count := rapid.IntRange(1, 10).Draw(t, "count")
	for i := 0; i < count; i++ {
		note, err := store.Create(ctx, notes.Draft{
			Title: rapid.StringMatching(`[A-Za-z0-9 ]{1,50}`).Draw(t, "title"),
			Owner: "alice",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if note.ID != int64(i) {
			t.Fatalf("Expected id %d, got %d", i, note.ID)
		}
	}
}

func TestIDs_Sequential_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testIDs_Sequential_Properties)
}

func FuzzIDs_Sequential_Properties(f *testing.F) {
	f.Add([]byte{0x00})
	f.Fuzz(rapid.MakeFuzz(testIDs_Sequential_Properties))
}

// =============================================================================
// Property: returned notes are copies - mutations never reach the store
// =============================================================================

func testCopySemantics_Properties(t *rapid.T) {
	ctx := context.Background()
	store := New()

	title := rapid.StringMatching(`[A-Za-z0-9 ]{1,50}`).Draw(t, "title")
	note, err := store.Create(ctx, notes.Draft{
		Title: title,
		Tags:  []string{"keep"},
		Owner: "alice",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutate everything we were handed
	note.Title = "scribbled"
	note.Tags[0] = "clobbered"
	note.Owner = "mallory"

	stored, err := store.Get(ctx, note.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Title != title {
		t.Fatalf("Stored title changed: expected %q, got %q", title, stored.Title)
	}
	if stored.Tags[0] != "keep" {
		t.Fatalf("Stored tags changed: got %v", stored.Tags)
	}
	if stored.Owner != "alice" {
		t.Fatalf("Stored owner changed: got %q", stored.Owner)
	}

	// Same isolation for List results
	listed, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	listed[0].Title = "scribbled again"
	again, err := store.Get(ctx, note.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Title != title {
		t.Fatalf("List result aliased the stored note")
	}
}

func TestCopySemantics_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCopySemantics_Properties)
}

func FuzzCopySemantics_Properties(f *testing.F) {
	f.Add([]byte{0x00})
	f.Fuzz(rapid.MakeFuzz(testCopySemantics_Properties))
}

// =============================================================================
// Property: delete keeps the remaining notes in insertion order
// =============================================================================

func testDelete_KeepsOrder_Properties(t *rapid.T) {
	ctx := context.Background()
	store := New()

	count := rapid.IntRange(2, 8).Draw(t, "count")
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		note, err := store.Create(ctx, notes.Draft{
			Title: rapid.StringMatching(`[A-Za-z0-9 ]{1,50}`).Draw(t, "title"),
			Owner: "alice",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		ids = append(ids, note.ID)
	}

	victim := rapid.IntRange(0, count-1).Draw(t, "victim")
	if err := store.Delete(ctx, ids[victim]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	remaining, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != count-1 {
		t.Fatalf("Expected %d notes, got %d", count-1, len(remaining))
	}
	var prev int64 = -1
	for _, n := range remaining {
		if n.ID == ids[victim] {
			t.Fatalf("Deleted id %d still listed", ids[victim])
		}
		if n.ID <= prev {
			t.Fatalf("Order broken: %d after %d", n.ID, prev)
		}
		prev = n.ID
	}
}

func TestDelete_KeepsOrder_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testDelete_KeepsOrder_Properties)
}

func FuzzDelete_KeepsOrder_Properties(f *testing.F) {
	f.Add([]byte{0x00})
	f.Fuzz(rapid.MakeFuzz(testDelete_KeepsOrder_Properties))
}

// =============================================================================
// Property: predicates filter without changing relative order
// =============================================================================

func testList_PredicateFilters_Properties(t *rapid.T) {
	ctx := context.Background()
	store := New()

	count := rapid.IntRange(0, 10).Draw(t, "count")
	tagged := make(map[int64]bool)
	for i := 0; i < count; i++ {
		withTag := rapid.Bool().Draw(t, "withTag")
		draft := notes.Draft{
			Title: rapid.StringMatching(`[A-Za-z0-9 ]{1,50}`).Draw(t, "title"),
			Owner: "alice",
		}
		if withTag {
			draft.Tags = []string{"marked"}
		}
		note, err := store.Create(ctx, draft)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		tagged[note.ID] = withTag
	}

	matched, err := store.List(ctx, notes.ByTag("marked"))
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	expected := 0
	for _, isTagged := range tagged {
		if isTagged {
			expected++
		}
	}
	if len(matched) != expected {
		t.Fatalf("Expected %d tagged notes, got %d", expected, len(matched))
	}
	var prev int64 = -1
	for _, n := range matched {
		if !tagged[n.ID] {
			t.Fatalf("Untagged note %d matched", n.ID)
		}
		if n.ID <= prev {
			t.Fatalf("Order broken: %d after %d", n.ID, prev)
		}
		prev = n.ID
	}
}

func TestList_PredicateFilters_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testList_PredicateFilters_Properties)
}

func FuzzList_PredicateFilters_Properties(f *testing.F) {
	f.Add([]byte{0x00})
	f.Fuzz(rapid.MakeFuzz(testList_PredicateFilters_Properties))
}

// =============================================================================
// Deterministic: validation and sentinel errors
// =============================================================================

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()

	_, err := store.Create(ctx, notes.Draft{Title: "", Owner: "alice"})
	if errs.CodeOf(err) != errs.InvalidArgument {
		t.Fatalf("Expected invalid_argument for empty title, got %v", err)
	}

	_, err = store.Create(ctx, notes.Draft{Title: "No owner"})
	if errs.CodeOf(err) != errs.InvalidArgument {
		t.Fatalf("Expected invalid_argument for missing owner, got %v", err)
	}

	_, err = store.Create(ctx, notes.Draft{Title: "Bad visibility", Owner: "alice", Visibility: notes.Visibility(7)})
	if errs.CodeOf(err) != errs.InvalidArgument {
		t.Fatalf("Expected invalid_argument for bad visibility, got %v", err)
	}
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := New()

	_, err := store.Get(ctx, 42)
	if !errors.Is(err, notes.ErrNoteNotFound) {
		t.Fatalf("Expected ErrNoteNotFound, got: %v", err)
	}
	if errs.CodeOf(err) != errs.NotFound {
		t.Fatalf("Expected not_found code, got %q", errs.CodeOf(err))
	}

	if _, err := store.Update(ctx, 42, notes.Draft{Title: "x"}); !errors.Is(err, notes.ErrNoteNotFound) {
		t.Fatalf("Expected ErrNoteNotFound from Update, got: %v", err)
	}
	if err := store.Delete(ctx, 42); !errors.Is(err, notes.ErrNoteNotFound) {
		t.Fatalf("Expected ErrNoteNotFound from Delete, got: %v", err)
	}
}
