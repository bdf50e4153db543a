package notes

import (
	"sort"
	"strings"
)

// Predicate is a boolean test over a note, evaluated per note during a scan.
// Predicates must not mutate the note or retain a reference to it.
type Predicate func(n *Note) bool

// And combines predicates with logical AND. Nil operands are skipped;
// an empty combination matches every note.
func And(preds ...Predicate) Predicate {
	return func(n *Note) bool {
		for _, pred := range preds {
			if pred != nil && !pred(n) {
				return false
			}
		}
		return true
	}
}

// ByID matches the note with the given identifier.
func ByID(id int64) Predicate {
	return func(n *Note) bool {
		return n.ID == id
	}
}

// ByOwner matches notes owned by the given principal.
func ByOwner(principal string) Predicate {
	return func(n *Note) bool {
		return n.Owner == principal
	}
}

// ByOwnerOrPublic matches public notes plus the principal's own notes.
// This is the predicate the scoping layer injects before every read.
func ByOwnerOrPublic(principal string) Predicate {
	return func(n *Note) bool {
		return n.Visibility.IsPublic() || n.Owner == principal
	}
}

// ByTag matches notes carrying the exact label (case-sensitive).
func ByTag(label string) Predicate {
	return func(n *Note) bool {
		return n.HasTag(label)
	}
}

// ByText matches notes whose title or body contains the query,
// case-insensitively.
func ByText(query string) Predicate {
	q := strings.ToLower(query)
	return func(n *Note) bool {
		return strings.Contains(strings.ToLower(n.Title), q) ||
			strings.Contains(strings.ToLower(n.Body), q)
	}
}

// DistinctTags returns the deduplicated union of tag sets across notes,
// sorted for deterministic output.
func DistinctTags(ns []*Note) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, n := range ns {
		for _, label := range n.Tags {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}
