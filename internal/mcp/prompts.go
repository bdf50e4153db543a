package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const notesWorkflowPromptName = "notes_workflow"

func registerPrompts(mcpServer *mcp.Server) {
	for _, prompt := range PromptDefinitions() {
		promptCopy := prompt
		mcpServer.AddPrompt(promptCopy, promptHandler())
	}
}

// PromptDefinitions returns the MCP prompt definitions.
func PromptDefinitions() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        notesWorkflowPromptName,
			Title:       "Notes workflow",
			Description: "Brief guidance for working with the note tools.",
		},
	}
}

func promptHandler() mcp.PromptHandler {
	text := "Notes belong to the caller who created them; public notes are readable by everyone, private notes only by their owner. Use list_notes or search_notes to find notes and get_note to read one. create_note makes a new note; update_note replaces a note's entire state, so call get_note first and resend every field you want to keep; delete_note is permanent. list_tags shows the labels in use for filtering list_notes."

	return func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: "Brief guidance for working with the note tools.",
			Messages: []*mcp.PromptMessage{
				{
					Role:    mcp.Role("user"),
					Content: &mcp.TextContent{Text: text},
				},
			},
		}, nil
	}
}
