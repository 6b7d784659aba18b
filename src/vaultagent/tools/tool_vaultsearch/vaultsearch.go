package tool_vaultsearch

import (
	"context"
	"fmt"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "vault_search"

const vaultSearchPrompt = `Find a note or folder in the vault by name.

An exact path match wins; otherwise the first case-insensitive substring match in vault order is returned. When several entries share the substring the result may not be the one the user meant, confirm with the user if it matters.`

// VaultSearchInput represents the input for a vault search
type VaultSearchInput struct {
	Name   string `json:"name" required:"true" description:"Name or partial path to search for"`
	IsNote bool   `json:"is_note,omitempty" description:"Search notes when true, folders when false"`
}

// VaultSearchOutput represents the result of a vault search
type VaultSearchOutput struct {
	Path string `json:"path" description:"Vault path of the match"`
}

func makeVaultSearchHandler(v *vault.Vault) func(context.Context, VaultSearchInput) (VaultSearchOutput, error) {
	return func(ctx context.Context, input VaultSearchInput) (VaultSearchOutput, error) {
		var (
			resolved string
			ok       bool
		)
		if input.IsNote {
			resolved, ok = v.ResolveNote(input.Name)
		} else {
			resolved, ok = v.ResolveFolder(input.Name)
		}
		if !ok {
			kind := "folder"
			if input.IsNote {
				kind = "note"
			}
			return VaultSearchOutput{}, fmt.Errorf("%w: no %s matches %q", errNotFound(input.IsNote), kind, input.Name)
		}
		return VaultSearchOutput{Path: resolved}, nil
	}
}

func errNotFound(isNote bool) error {
	if isNote {
		return toolsutil.ErrNoteNotFound
	}
	return toolsutil.ErrFolderNotFound
}

// Tool returns the vault_search tool definition using GenericTool
func Tool(v *vault.Vault) (agent.Tool, error) {
	return agent.NewGenericTool(Name, vaultSearchPrompt, makeVaultSearchHandler(v))
}
