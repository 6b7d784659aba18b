package tool_listfiles

import (
	"context"
	"fmt"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "list_files"

const listFilesPrompt = `List the files and folders under a vault folder.

HOW TO USE:
- dir_path selects the folder by fuzzy match; use "" or "/" for the vault root
- limit bounds the number of returned entries (default 100)

The listing is bounded to two levels of depth.`

const listDepth = 2

// ListFilesInput represents the input for listing files
type ListFilesInput struct {
	DirPath string `json:"dir_path" required:"true" description:"Folder to list, fuzzy-matched; use / for the vault root"`
	Limit   int    `json:"limit,omitempty" description:"Maximum number of entries to return (default 100)"`
}

// ListEntry is one file or folder in the listing
type ListEntry struct {
	Path  string `json:"path" description:"Vault path of the entry"`
	IsDir bool   `json:"is_dir" description:"Whether the entry is a folder"`
}

// ListFilesOutput represents the result of listing files
type ListFilesOutput struct {
	Path    string      `json:"path" description:"Resolved folder that was listed"`
	Entries []ListEntry `json:"entries" description:"Files and folders under the resolved path"`
}

func makeListFilesHandler(v *vault.Vault) func(context.Context, ListFilesInput) (ListFilesOutput, error) {
	return func(ctx context.Context, input ListFilesInput) (ListFilesOutput, error) {
		dir, ok := v.ResolveFolder(input.DirPath)
		if !ok {
			return ListFilesOutput{}, fmt.Errorf("%w: %q", toolsutil.ErrFolderNotFound, input.DirPath)
		}

		entries, err := v.Tree(dir, listDepth, input.Limit)
		if err != nil {
			return ListFilesOutput{}, fmt.Errorf("failed to list %s: %v", dir, err)
		}

		out := ListFilesOutput{Path: dir, Entries: make([]ListEntry, 0, len(entries))}
		for _, e := range entries {
			out.Entries = append(out.Entries, ListEntry{Path: e.Path, IsDir: e.IsDir})
		}
		return out, nil
	}
}

// Tool returns the list_files tool definition using GenericTool
func Tool(v *vault.Vault) (agent.Tool, error) {
	return agent.NewGenericTool(Name, listFilesPrompt, makeListFilesHandler(v))
}
