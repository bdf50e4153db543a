package notes

import (
	"context"
	"strings"

	"github.com/kuitang/noteledger/internal/errs"
)

const (
	// DefaultLimit is the default page size when none is specified
	DefaultLimit = 50
	// MaxLimit is the maximum allowed page size
	MaxLimit = 1000

	// searchSnippetContext is the number of lines shown around a search hit
	searchSnippetContext = 1
	// searchPreviewLines is the preview length when the hit is in the title only
	searchPreviewLines = 2
)

// Service is the access scoping layer. It wraps a Store and narrows every
// operation to the requesting principal: reads see public notes plus the
// principal's own, writes require ownership, and create stamps the owner.
// It contains no storage logic of its own.
type Service struct {
	store Store
}

// NewService creates a scoped note service backed by the given engine.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateNote stores a new note owned by the principal. Any caller-supplied
// owner in the draft is overwritten.
func (s *Service) CreateNote(ctx context.Context, principal string, draft Draft) (*Note, error) {
	if principal == "" {
		return nil, errs.New(errs.InvalidArgument, "principal is required")
	}
	draft.Owner = principal
	return s.store.Create(ctx, draft)
}

// GetNote returns a note the principal is allowed to see. Invisible notes
// yield the same not-found error as absent ones.
func (s *Service) GetNote(ctx context.Context, principal string, id int64) (*Note, error) {
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ByOwnerOrPublic(principal)(note) {
		return nil, NotFound()
	}
	return note, nil
}

// UpdateNote replaces the mutable fields of a note the principal owns.
// A visible note owned by someone else yields permission denied; an
// invisible one yields not found.
func (s *Service) UpdateNote(ctx context.Context, principal string, id int64, draft Draft) (*Note, error) {
	if err := s.checkWrite(ctx, principal, id); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, draft)
}

// DeleteNote removes a note the principal owns.
func (s *Service) DeleteNote(ctx context.Context, principal string, id int64) error {
	if err := s.checkWrite(ctx, principal, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) checkWrite(ctx context.Context, principal string, id int64) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ByOwnerOrPublic(principal)(existing) {
		return NotFound()
	}
	if existing.Owner != principal {
		return errs.New(errs.PermissionDenied, "note belongs to another owner")
	}
	return nil
}

// ListVisible returns every note visible to the principal that also matches
// extra. A nil extra matches everything.
func (s *Service) ListVisible(ctx context.Context, principal string, extra Predicate) ([]*Note, error) {
	return s.store.List(ctx, And(ByOwnerOrPublic(principal), extra))
}

// ListOptions narrows and pages a note listing.
type ListOptions struct {
	Tag    string
	Query  string
	Limit  int
	Offset int
}

// ListNotes returns a page of visible notes. Tag filtering is exact and
// case-sensitive; text filtering is a case-insensitive substring match.
func (s *Service) ListNotes(ctx context.Context, principal string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var preds []Predicate
	if opts.Tag != "" {
		preds = append(preds, ByTag(opts.Tag))
	}
	if opts.Query != "" {
		preds = append(preds, ByText(opts.Query))
	}

	matched, err := s.ListVisible(ctx, principal, And(preds...))
	if err != nil {
		return nil, err
	}

	total := len(matched)
	page := matched
	if offset >= total {
		page = nil
	} else {
		page = matched[offset:]
		if len(page) > limit {
			page = page[:limit]
		}
	}

	out := make([]Note, 0, len(page))
	for _, n := range page {
		out = append(out, *n)
	}
	return &ListResult{
		Notes:      out,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

// SearchNotes returns visible notes matching a case-insensitive substring
// over title and body, each with a snippet around the first body match.
func (s *Service) SearchNotes(ctx context.Context, principal, query string) (*SearchResults, error) {
	if query == "" {
		return nil, errs.New(errs.InvalidArgument, "search query is required")
	}
	matched, err := s.ListVisible(ctx, principal, ByText(query))
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	results := make([]SearchMatch, 0, len(matched))
	for _, n := range matched {
		results = append(results, SearchMatch{
			Note:    *n,
			Snippet: searchSnippet(n.Body, lowered),
		})
	}
	return &SearchResults{
		Results:    results,
		Query:      query,
		TotalCount: len(results),
	}, nil
}

func searchSnippet(body, loweredQuery string) string {
	idx := strings.Index(strings.ToLower(body), loweredQuery)
	if idx < 0 {
		// Matched in the title only
		return BodyPreview(body, searchPreviewLines)
	}
	snippet, _, _ := SnippetAroundByteOffset(body, idx, searchSnippetContext)
	return snippet
}

// ListTags returns the distinct tags across the principal's visible notes.
func (s *Service) ListTags(ctx context.Context, principal string) ([]string, error) {
	visible, err := s.ListVisible(ctx, principal, nil)
	if err != nil {
		return nil, err
	}
	return DistinctTags(visible), nil
}

// GetPublicNote returns a note only if it is public. This is the anonymous
// read path used by the public pages.
func (s *Service) GetPublicNote(ctx context.Context, id int64) (*Note, error) {
	note, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !note.Visibility.IsPublic() {
		return nil, NotFound()
	}
	return note, nil
}
