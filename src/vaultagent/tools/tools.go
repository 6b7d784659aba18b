package tools

// Barrel-style re-exports so callers can assemble the tool catalog from one
// import.

import (
	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/vault"
	tool_createdir "github.com/user/vaultagent/src/vaultagent/tools/tool_createdir"
	tool_createnote "github.com/user/vaultagent/src/vaultagent/tools/tool_createnote"
	tool_editnote "github.com/user/vaultagent/src/vaultagent/tools/tool_editnote"
	tool_filternotes "github.com/user/vaultagent/src/vaultagent/tools/tool_filternotes"
	tool_listfiles "github.com/user/vaultagent/src/vaultagent/tools/tool_listfiles"
	tool_readnote "github.com/user/vaultagent/src/vaultagent/tools/tool_readnote"
	tool_vaultsearch "github.com/user/vaultagent/src/vaultagent/tools/tool_vaultsearch"
	tool_webfetch "github.com/user/vaultagent/src/vaultagent/tools/tool_webfetch"
	tool_websearch "github.com/user/vaultagent/src/vaultagent/tools/tool_websearch"
)

// Tool name constants - re-exported from individual packages
const (
	CreateNoteName      = tool_createnote.Name
	EditNoteName        = tool_editnote.Name
	ReadNoteName        = tool_readnote.Name
	CreateDirectoryName = tool_createdir.Name
	ListFilesName       = tool_listfiles.Name
	VaultSearchName     = tool_vaultsearch.Name
	FilterNotesName     = tool_filternotes.Name
	WebSearchName       = tool_websearch.Name
	WebFetchName        = tool_webfetch.Name
)

// Vault tools
func CreateNoteTool(v *vault.Vault, model aisdk.ModelClient) (agent.Tool, error) {
	return tool_createnote.Tool(v, model)
}
func EditNoteTool(v *vault.Vault, model aisdk.ModelClient, activeNote func() string) (agent.Tool, error) {
	return tool_editnote.Tool(v, model, activeNote)
}
func ReadNoteTool(v *vault.Vault, model aisdk.ModelClient, activeNote func() string, captionImages bool) (agent.Tool, error) {
	return tool_readnote.Tool(v, model, activeNote, captionImages)
}
func CreateDirectoryTool(v *vault.Vault) (agent.Tool, error) { return tool_createdir.Tool(v) }
func ListFilesTool(v *vault.Vault) (agent.Tool, error)       { return tool_listfiles.Tool(v) }
func VaultSearchTool(v *vault.Vault) (agent.Tool, error)     { return tool_vaultsearch.Tool(v) }
func FilterNotesTool(v *vault.Vault) (agent.Tool, error)     { return tool_filternotes.Tool(v) }

// Network tools
func WebSearchTool(s *tool_websearch.Searcher) (agent.Tool, error) { return tool_websearch.Tool(s) }
func WebFetchTool() (agent.Tool, error)                            { return tool_webfetch.Tool() }
