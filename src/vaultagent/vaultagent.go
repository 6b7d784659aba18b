package vaultagent

import (
	"fmt"
	"log/slog"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent/tools"
	"github.com/user/vaultagent/src/vaultagent/tools/tool_websearch"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Settings carries the user-configurable behavior of the agent.
type Settings struct {
	// Rules are standing instructions included in every system prompt.
	Rules []string
	// CaptionImages enables replacing inline base64 images with generated
	// captions when reading notes.
	CaptionImages bool
	// BraveAPIKey enables the web_search tool when set.
	BraveAPIKey string
	// ActiveNote returns the vault path of the note the user currently has
	// open, or "" when none is. Nil means no active note tracking.
	ActiveNote func() string
}

// DefaultToolbox assembles the fixed tool catalog over the given vault and
// model client.
func DefaultToolbox(v *vault.Vault, model aisdk.ModelClient, settings Settings, logger *slog.Logger) (*agent.Toolbox, error) {
	if logger != nil {
		toolsutil.SetLogger(logger)
	}

	activeNote := settings.ActiveNote
	if activeNote == nil {
		activeNote = func() string { return "" }
	}

	tb := agent.NewToolbox()
	if logger != nil {
		tb.Use(agent.LoggingMiddleware(logger))
	}

	type constructor struct {
		name  string
		build func() (agent.Tool, error)
	}
	constructors := []constructor{
		{tools.CreateNoteName, func() (agent.Tool, error) { return tools.CreateNoteTool(v, model) }},
		{tools.EditNoteName, func() (agent.Tool, error) { return tools.EditNoteTool(v, model, activeNote) }},
		{tools.ReadNoteName, func() (agent.Tool, error) {
			return tools.ReadNoteTool(v, model, activeNote, settings.CaptionImages)
		}},
		{tools.CreateDirectoryName, func() (agent.Tool, error) { return tools.CreateDirectoryTool(v) }},
		{tools.ListFilesName, func() (agent.Tool, error) { return tools.ListFilesTool(v) }},
		{tools.VaultSearchName, func() (agent.Tool, error) { return tools.VaultSearchTool(v) }},
		{tools.FilterNotesName, func() (agent.Tool, error) { return tools.FilterNotesTool(v) }},
		{tools.WebFetchName, tools.WebFetchTool},
	}
	if settings.BraveAPIKey != "" {
		searcher := tool_websearch.NewSearcher(settings.BraveAPIKey, "")
		constructors = append(constructors, constructor{tools.WebSearchName, func() (agent.Tool, error) {
			return tools.WebSearchTool(searcher)
		}})
	}

	for _, c := range constructors {
		tool, err := c.build()
		if err != nil {
			return nil, fmt.Errorf("failed to build tool %s: %w", c.name, err)
		}
		if err := tb.Register(tool); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", c.name, err)
		}
	}
	return tb, nil
}
