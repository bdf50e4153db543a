package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kuitang/noteledger/internal/errs"
	"github.com/kuitang/noteledger/internal/notes"
	"github.com/kuitang/noteledger/internal/principal"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler implements MCP tool call handling.
type Handler struct {
	notesSvc *notes.Service
}

// NewHandler creates a new MCP handler for the notes service.
func NewHandler(notesSvc *notes.Service) *Handler {
	return &Handler{notesSvc: notesSvc}
}

// createToolHandler returns a tool handler function for the given tool name.
// Coded errors become error results carrying a stable JSON payload, so agents
// see the taxonomy code and message instead of a protocol failure.
func (h *Handler) createToolHandler(name string) func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		result, err := h.HandleToolCall(ctx, name, args)
		if err != nil {
			return newToolResultError(err), nil, nil
		}
		return result, nil, nil
	}
}

// HandleToolCall routes tool calls to the appropriate handlers. The caller
// identity is read from ctx; anonymous callers can use the read tools, while
// writes fail in the service layer.
func (h *Handler) HandleToolCall(ctx context.Context, name string, arguments map[string]any) (*mcp.CallToolResult, error) {
	switch name {
	case "list_notes":
		return h.handleListNotes(ctx, arguments)
	case "get_note":
		return h.handleGetNote(ctx, arguments)
	case "create_note":
		return h.handleCreateNote(ctx, arguments)
	case "update_note":
		return h.handleUpdateNote(ctx, arguments)
	case "delete_note":
		return h.handleDeleteNote(ctx, arguments)
	case "search_notes":
		return h.handleSearchNotes(ctx, arguments)
	case "list_tags":
		return h.handleListTags(ctx)
	default:
		return nil, errs.New(errs.NotFound, fmt.Sprintf("unknown tool: %s", name))
	}
}

// decodeToolArgs decodes loose JSON tool arguments into a typed args struct.
// Unknown fields are rejected so misspelled argument names surface as errors
// instead of being silently dropped.
func decodeToolArgs(arguments map[string]any, dst any) error {
	data, err := json.Marshal(arguments)
	if err != nil {
		return errs.Wrap(errs.InvalidArgument, "invalid tool arguments", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Wrap(errs.InvalidArgument, fmt.Sprintf("invalid tool arguments: %v", err), err)
	}
	return nil
}

// classifyNotesError preserves coded service errors and hides everything else
// behind a generic internal error, so raw storage details never reach the
// agent.
func classifyNotesError(err error, action string) error {
	var coded *errs.Error
	if errors.As(err, &coded) {
		return err
	}
	return errs.Wrap(errs.Internal, "failed to "+action, err)
}

// newToolResultText creates a successful tool result with text content.
func newToolResultText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// toolErrorPayload is the stable JSON shape carried by tool error results.
type toolErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// newToolResultError creates a tool result indicating an error.
func newToolResultError(err error) *mcp.CallToolResult {
	data := marshalAny(toolErrorPayload{
		Code:    string(errs.CodeOf(err)),
		Message: errs.MessageOf(err),
	})
	if data == nil {
		data = []byte(`{"code":"internal","message":"internal error"}`)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		IsError: true,
	}
}

func marshalAny(value any) []byte {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return data
}

func marshalToolJSON(value any) string {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response","detail":%q}`, err.Error())
	}
	return string(data)
}

type listNotesArgs struct {
	Tag    string `json:"tag"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type getNoteArgs struct {
	ID int64 `json:"id"`
}

type createNoteArgs struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Tags   []string `json:"tags"`
	Public bool     `json:"public"`
}

type updateNoteArgs struct {
	ID     int64    `json:"id"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Tags   []string `json:"tags"`
	Public bool     `json:"public"`
}

type deleteNoteArgs struct {
	ID int64 `json:"id"`
}

type searchNotesArgs struct {
	Query string `json:"query"`
}

type noteViewResult struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Tags       []string  `json:"tags"`
	Owner      string    `json:"owner"`
	TotalLines int       `json:"total_lines"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type noteCreateResult struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	TotalLines int       `json:"total_lines"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
}

type noteUpdateResult struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags"`
	TotalLines int       `json:"total_lines"`
	IsPublic   bool      `json:"is_public"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type noteListItem struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Preview    string    `json:"preview"`
	Tags       []string  `json:"tags"`
	TotalLines int       `json:"total_lines"`
	IsPublic   bool      `json:"is_public"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func visibilityFor(public bool) notes.Visibility {
	if public {
		return notes.VisibilityPublic
	}
	return notes.VisibilityPrivate
}

func (h *Handler) handleListNotes(ctx context.Context, arguments map[string]any) (*mcp.CallToolResult, error) {
	var args listNotesArgs
	if err := decodeToolArgs(arguments, &args); err != nil {
		return nil, err
	}

	result, err := h.notesSvc.ListNotes(ctx, principal.FromContext(ctx), notes.ListOptions{
		Tag:    args.Tag,
		Limit:  args.Limit,
		Offset: args.Offset,
	})
	if err != nil {
		return nil, classifyNotesError(err, "list notes")
	}

	items := make([]noteListItem, 0, len(result.Notes))
	for _, n := range result.Notes {
		items = append(items, noteListItem{
			ID:         n.ID,
			Title:      n.Title,
			Preview:    notes.BodyPreview(n.Body, 2),
			Tags:       n.Tags,
			TotalLines: notes.CountLines(n.Body),
			IsPublic:   n.Visibility.IsPublic(),
			CreatedAt:  n.CreatedAt,
			UpdatedAt:  n.UpdatedAt,
		})
	}

	response := struct {
		Notes      []noteListItem `json:"notes"`
		TotalCount int            `json:"total_count"`
		Limit      int            `json:"limit"`
		Offset     int            `json:"offset"`
	}{
		Notes:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}

	return newToolResultText(marshalToolJSON(response)), nil
}

func (h *Handler) handleGetNote(ctx context.Context, arguments map[string]any) (*mcp.CallToolResult, error) {
	var args getNoteArgs
	if err := decodeToolArgs(arguments, &args); err != nil {
		return nil, err
	}

	note, err := h.notesSvc.GetNote(ctx, principal.FromContext(ctx), args.ID)
	if err != nil {
		return nil, classifyNotesError(err, "read note")
	}

	formatted, totalLines := notes.FormatWithLineNumbers(note.Body, 0, -1)
	result := noteViewResult{
		ID:         note.ID,
		Title:      note.Title,
		Body:       formatted,
		Tags:       note.Tags,
		Owner:      note.Owner,
		TotalLines: totalLines,
		IsPublic:   note.Visibility.IsPublic(),
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}

	return newToolResultText(marshalToolJSON(result)), nil
}

func (h *Handler) handleCreateNote(ctx context.Context, arguments map[string]any) (*mcp.CallToolResult, error) {
	var args createNoteArgs
	if err := decodeToolArgs(arguments, &args); err != nil {
		return nil, err
	}

	note, err := h.notesSvc.CreateNote(ctx, principal.FromContext(ctx), notes.Draft{
		Title:      args.Title,
		Body:       args.Body,
		Tags:       args.Tags,
		Visibility: visibilityFor(args.Public),
	})
	if err != nil {
		return nil, classifyNotesError(err, "create note")
	}

	result := noteCreateResult{
		ID:         note.ID,
		Title:      note.Title,
		Tags:       note.Tags,
		TotalLines: notes.CountLines(note.Body),
		IsPublic:   note.Visibility.IsPublic(),
		CreatedAt:  note.CreatedAt,
	}

	return newToolResultText(marshalToolJSON(result)), nil
}

func (h *Handler) handleUpdateNote(ctx context.Context, arguments map[string]any) (*mcp.CallToolResult, error) {
	var args updateNoteArgs
	if err := decodeToolArgs(arguments, &args); err != nil {
		return nil, err
	}

	note, err := h.notesSvc.UpdateNote(ctx, principal.FromContext(ctx), args.ID, notes.Draft{
		Title:      args.Title,
		Body:       args.Body,
		Tags:       args.Tags,
		Visibility: visibilityFor(args.Public),
	})
	if err != nil {
		return nil, classifyNotesError(err, "update note")
	}

	result := noteUpdateResult{
		ID:         note.ID,
		Title:      note.Title,
		Tags:       note.Tags,
		TotalLines: notes.CountLines(note.Body),
		IsPublic:   note.Visibility.IsPublic(),
		UpdatedAt:  note.UpdatedAt,
	}

	return newToolResultText(marshalToolJSON(result)), nil
}

func (h *Handler) handleDeleteNote(ctx context.Context, arguments map[string]any) (*mcp.CallToolResult, error) {
	var args deleteNoteArgs
	if err := decodeToolArgs(arguments, &args); err != nil {
		return nil, err
	}

	if err := h.notesSvc.DeleteNote(ctx, principal.FromContext(ctx), args.ID); err != nil {
		return nil, classifyNotesError(err, "delete note")
	}

	return newToolResultText(fmt.Sprintf("Note %d deleted.", args.ID)), nil
}

func (h *Handler) handleSearchNotes(ctx context.Context, arguments map[string]any) (*mcp.CallToolResult, error) {
	var args searchNotesArgs
	if err := decodeToolArgs(arguments, &args); err != nil {
		return nil, err
	}

	results, err := h.notesSvc.SearchNotes(ctx, principal.FromContext(ctx), args.Query)
	if err != nil {
		return nil, classifyNotesError(err, "search notes")
	}

	return newToolResultText(marshalToolJSON(results)), nil
}

func (h *Handler) handleListTags(ctx context.Context) (*mcp.CallToolResult, error) {
	tags, err := h.notesSvc.ListTags(ctx, principal.FromContext(ctx))
	if err != nil {
		return nil, classifyNotesError(err, "list tags")
	}

	response := struct {
		Tags       []string `json:"tags"`
		TotalCount int      `json:"total_count"`
	}{
		Tags:       tags,
		TotalCount: len(tags),
	}

	return newToolResultText(marshalToolJSON(response)), nil
}
