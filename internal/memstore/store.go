// Package memstore implements the note persistence contract with an owned
// in-memory collection. Notes live in an append-ordered slice guarded by a
// single exclusive mutex; every query is a full scan evaluating a predicate
// per note. No secondary indexes are maintained: scan cost is O(n) per
// operation, accepted to keep the engine simple at its target scale.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/kuitang/noteledger/internal/notes"
)

// Store is an in-memory note engine. The zero value is not usable; call New.
type Store struct {
	mu     sync.Mutex
	notes  []*notes.Note
	nextID int64
}

// New creates an empty in-memory engine. The first assigned id is 0.
func New() *Store {
	return &Store{}
}

// Create assigns the next identifier and timestamps, stores the note, and
// returns a copy. Identifiers are never reused, even after deletes.
func (s *Store) Create(ctx context.Context, draft notes.Draft) (*notes.Note, error) {
	draft, err := notes.ValidateCreateDraft(draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	note := &notes.Note{
		ID:         s.nextID,
		Title:      draft.Title,
		Body:       draft.Body,
		Tags:       draft.Tags,
		Owner:      draft.Owner,
		Visibility: draft.Visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.nextID++
	s.notes = append(s.notes, note)
	return note.Clone(), nil
}

// Get returns a copy of the note with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := s.find(id)
	if note == nil {
		return nil, notes.NotFound()
	}
	return note.Clone(), nil
}

// Update replaces the mutable fields of the note with the given id.
func (s *Store) Update(ctx context.Context, id int64, draft notes.Draft) (*notes.Note, error) {
	draft, err := notes.ValidateUpdateDraft(draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note := s.find(id)
	if note == nil {
		return nil, notes.NotFound()
	}
	note.Title = draft.Title
	note.Body = draft.Body
	note.Tags = draft.Tags
	note.Visibility = draft.Visibility
	note.UpdatedAt = time.Now().UTC()
	return note.Clone(), nil
}

// Delete removes the note with the given id. The id is never assigned again.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, note := range s.notes {
		if note.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return notes.NotFound()
}

// List returns copies of all notes matching pred in insertion order.
// A nil predicate matches everything. List never fails.
func (s *Store) List(ctx context.Context, pred notes.Predicate) ([]*notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*notes.Note, 0, len(s.notes))
	for _, note := range s.notes {
		if pred == nil || pred(note) {
			out = append(out, note.Clone())
		}
	}
	return out, nil
}

// find locates a note by linear scan. Caller must hold the lock.
func (s *Store) find(id int64) *notes.Note {
	for _, note := range s.notes {
		if note.ID == id {
			return note
		}
	}
	return nil
}
