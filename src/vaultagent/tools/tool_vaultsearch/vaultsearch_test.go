package tool_vaultsearch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/vault"
)

func execute(t *testing.T, v *vault.Vault, args map[string]any) *aisdk.ToolResponse {
	t.Helper()
	tool, err := Tool(v)
	require.NoError(t, err)
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	resp, err := tool.Execute(context.Background(), &aisdk.ToolCall{ID: "tc1", Name: Name, Args: raw})
	require.NoError(t, err)
	return resp
}

func TestVaultSearchTool(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := vault.New(fs, logger)

	require.NoError(t, afero.WriteFile(fs, "daily/today.md", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "projects/cat care.md", []byte("x"), 0644))

	t.Run("exact note path wins", func(t *testing.T) {
		resp := execute(t, v, map[string]any{"name": "daily/today.md", "is_note": true})
		assert.False(t, resp.IsError, string(resp.Content))

		var out VaultSearchOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "daily/today.md", out.Path)
	})

	t.Run("case-insensitive substring match", func(t *testing.T) {
		resp := execute(t, v, map[string]any{"name": "CAT", "is_note": true})
		assert.False(t, resp.IsError, string(resp.Content))

		var out VaultSearchOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "projects/cat care.md", out.Path)
	})

	t.Run("folder search", func(t *testing.T) {
		resp := execute(t, v, map[string]any{"name": "proj", "is_note": false})
		assert.False(t, resp.IsError, string(resp.Content))

		var out VaultSearchOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "projects", out.Path)
	})

	t.Run("no match fails", func(t *testing.T) {
		resp := execute(t, v, map[string]any{"name": "zzz", "is_note": true})
		assert.True(t, resp.IsError)
		assert.Contains(t, string(resp.Content), "note not found")
	})

	t.Run("missing name fails", func(t *testing.T) {
		resp := execute(t, v, map[string]any{})
		assert.True(t, resp.IsError)
	})
}
