package tool_createdir

import (
	"context"
	"fmt"
	"path"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "create_directory"

const createDirectoryPrompt = `Create a new folder in the vault. Parent folders are created as needed. If the target name is taken, a numeric suffix like " (1)" is appended automatically.`

// CreateDirectoryInput represents the input for creating a folder
type CreateDirectoryInput struct {
	Name    string `json:"name" required:"true" description:"Name of the folder to create"`
	DirPath string `json:"dir_path,omitempty" description:"Parent folder, fuzzy-matched against existing folders; omit for the vault root"`
}

// CreateDirectoryOutput represents the result of creating a folder
type CreateDirectoryOutput struct {
	Path    string `json:"path" description:"Final vault path of the created folder"`
	Created bool   `json:"created" description:"Whether the folder was created"`
}

func makeCreateDirectoryHandler(v *vault.Vault) func(context.Context, CreateDirectoryInput) (CreateDirectoryOutput, error) {
	return func(ctx context.Context, input CreateDirectoryInput) (CreateDirectoryOutput, error) {
		logger := toolsutil.GetLogger()

		name := vault.Sanitize(input.Name)
		if name == "" {
			return CreateDirectoryOutput{}, fmt.Errorf("folder name is empty after sanitization")
		}

		parent := ""
		if input.DirPath != "" {
			resolved, ok := v.ResolveFolder(input.DirPath)
			if !ok {
				return CreateDirectoryOutput{}, fmt.Errorf("%w: %q", toolsutil.ErrFolderNotFound, input.DirPath)
			}
			parent = resolved
		}

		target, err := v.UniquePath(vault.Sanitize(path.Join(parent, name)))
		if err != nil {
			return CreateDirectoryOutput{}, fmt.Errorf("failed to resolve target path: %v", err)
		}
		if err := v.Fs().MkdirAll(target, 0755); err != nil {
			logger.Error("failed to create folder", "path", target, "error", err)
			return CreateDirectoryOutput{}, fmt.Errorf("failed to create folder: %v", err)
		}

		logger.Info("folder created", "path", target)
		return CreateDirectoryOutput{Path: target, Created: true}, nil
	}
}

// Tool returns the create_directory tool definition using GenericTool
func Tool(v *vault.Vault) (agent.Tool, error) {
	return agent.NewGenericTool(Name, createDirectoryPrompt, makeCreateDirectoryHandler(v))
}
