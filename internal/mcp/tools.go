package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// ToolDefinitions returns the MCP tool definitions for the notes service.
func ToolDefinitions() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        "list_notes",
			Description: "List notes visible to you: your own notes plus public notes from other owners. Each item carries the title, a short preview (first 2 lines of the body), the tag set, and the total line count. Results are paginated in creation order. Accepts optional limit (default 50, max 1000) and offset (default 0); pass tag to keep only notes carrying that exact label (tags are case-sensitive). Use get_note to read a complete note.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tag": map[string]any{
						"type":        "string",
						"description": "Optional tag filter; exact, case-sensitive label match",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of notes to return (default: 50, max: 1000)",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Number of notes to skip for pagination (default: 0)",
					},
				},
			},
		},
		{
			Name:        "get_note",
			Description: "Read a note's full content with line numbers (tab-separated, 1-indexed) for reference. The response includes the tag set, total_lines, the owner, and whether the note is public. Use this after list_notes or search_notes to read complete content.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "integer",
						"description": "The numeric identifier of the note to retrieve",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "create_note",
			Description: "Create a new note with a title and optional body, tags, and visibility. Notes are private by default; set public to true to let anyone read the note. Duplicate and empty tags are dropped. Returns the assigned ID, title, tag set, line count, and creation timestamp (not the body, since you already know it). Use get_note to read back content.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "The title of the note (required)",
					},
					"body": map[string]any{
						"type":        "string",
						"description": "The content/body of the note (optional)",
					},
					"tags": map[string]any{
						"type":        "array",
						"description": "Tags to attach to the note (optional)",
						"items":       map[string]any{"type": "string"},
					},
					"public": map[string]any{
						"type":        "boolean",
						"description": "Make the note readable by everyone (default false)",
					},
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "update_note",
			Description: "Replace a note entirely. The title, body, tags, and public flag you pass become the note's new state; omitted fields reset to empty or false, so call get_note first and resend everything you want to keep. Only the owner can update a note. Returns the ID, title, tag set, line count, and updated timestamp.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "integer",
						"description": "The numeric identifier of the note to update",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "The new title for the note (required)",
					},
					"body": map[string]any{
						"type":        "string",
						"description": "The new body for the note; omit to clear it",
					},
					"tags": map[string]any{
						"type":        "array",
						"description": "The new tag set; omit to clear all tags",
						"items":       map[string]any{"type": "string"},
					},
					"public": map[string]any{
						"type":        "boolean",
						"description": "The new visibility; omit to make the note private",
					},
				},
				"required": []string{"id", "title"},
			},
		},
		{
			Name:        "delete_note",
			Description: "Delete a note by its ID. Deletion is permanent and the ID is never reused. Only the owner can delete a note. Returns a confirmation message on success, or an error if the note does not exist.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{
						"type":        "integer",
						"description": "The numeric identifier of the note to delete",
					},
				},
				"required": []string{"id"},
			},
		},
		{
			Name:        "search_notes",
			Description: "Search visible notes for a substring across titles and bodies (case-insensitive). Each result carries the matched note and a snippet around the first body match, or the opening lines when only the title matched. Use get_note to read full content.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The substring to look for in titles and bodies",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "list_tags",
			Description: "List the distinct tags across notes visible to you, sorted alphabetically. Useful before calling list_notes with a tag filter.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
