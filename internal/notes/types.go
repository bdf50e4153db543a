package notes

import (
	"errors"
	"sort"
	"time"

	"github.com/kuitang/noteledger/internal/errs"
)

// Visibility represents who can see a note.
// Stored as INTEGER in the DB (visibility column): 0=private, 1=public.
type Visibility int

const (
	VisibilityPrivate Visibility = 0
	VisibilityPublic  Visibility = 1
)

// IsPublic returns true if the note is readable without ownership.
func (v Visibility) IsPublic() bool {
	return v == VisibilityPublic
}

// ErrNoteNotFound is the sentinel cause carried by every not-found error,
// whether the note is absent or merely invisible to the caller.
var ErrNoteNotFound = errors.New("note not found")

// NotFound wraps ErrNoteNotFound with its error code. Engines and the
// scoping layer return exactly this shape, so "absent" and "exists but not
// visible" are indistinguishable to callers.
func NotFound() error {
	return errs.Wrap(errs.NotFound, "note not found", ErrNoteNotFound)
}

// Note represents a stored note with engine-assigned metadata.
// Engines hand out copies only; mutating a returned Note never touches
// engine-internal storage.
type Note struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Tags       []string   `json:"tags"`
	Owner      string     `json:"owner"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Clone returns an independent copy of the note.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	dup := *n
	if n.Tags != nil {
		dup.Tags = append([]string(nil), n.Tags...)
	}
	return &dup
}

// HasTag reports whether the note carries the exact label (case-sensitive).
func (n *Note) HasTag(label string) bool {
	for _, tag := range n.Tags {
		if tag == label {
			return true
		}
	}
	return false
}

// Draft contains caller-supplied fields for creating or updating a note.
// Owner is stamped by the scoping layer on create and ignored on update.
type Draft struct {
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Tags       []string   `json:"tags,omitempty"`
	Owner      string     `json:"owner,omitempty"`
	Visibility Visibility `json:"visibility"`
}

// ValidateCreateDraft validates a draft for the create path and returns a
// copy with a normalized tag set. The owner must already be stamped.
func ValidateCreateDraft(draft Draft) (Draft, error) {
	draft, err := validateShared(draft)
	if err != nil {
		return Draft{}, err
	}
	if draft.Owner == "" {
		return Draft{}, errs.New(errs.InvalidArgument, "owner is required")
	}
	return draft, nil
}

// ValidateUpdateDraft validates a draft for the update path. The owner field
// is cleared: it is immutable and engines must never read it on update.
func ValidateUpdateDraft(draft Draft) (Draft, error) {
	draft, err := validateShared(draft)
	if err != nil {
		return Draft{}, err
	}
	draft.Owner = ""
	return draft, nil
}

func validateShared(draft Draft) (Draft, error) {
	if draft.Title == "" {
		return Draft{}, errs.New(errs.InvalidArgument, "title is required")
	}
	if draft.Visibility != VisibilityPrivate && draft.Visibility != VisibilityPublic {
		return Draft{}, errs.New(errs.InvalidArgument, "visibility must be private or public")
	}
	draft.Tags = NormalizeTags(draft.Tags)
	return draft, nil
}

// NormalizeTags removes empty and duplicate labels and sorts the result.
// Labels are case-sensitive: "Todo" and "todo" are distinct.
func NormalizeTags(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// ListResult represents a paginated list of notes
type ListResult struct {
	Notes      []Note `json:"notes"`
	TotalCount int    `json:"total_count"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
}

// SearchMatch is a single search hit with a snippet around the first match.
type SearchMatch struct {
	Note    Note   `json:"note"`
	Snippet string `json:"snippet"`
}

// SearchResults represents search results with metadata
type SearchResults struct {
	Results    []SearchMatch `json:"results"`
	Query      string        `json:"query"`
	TotalCount int           `json:"total_count"`
}
