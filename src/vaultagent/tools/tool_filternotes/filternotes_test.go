package tool_filternotes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

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

func TestFilterNotesTool(t *testing.T) {
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := vault.New(fs, logger)

	now := time.Now()
	require.NoError(t, afero.WriteFile(fs, "recent.md", []byte("x"), 0644))
	require.NoError(t, fs.Chtimes("recent.md", now, now.Add(-time.Hour)))
	require.NoError(t, afero.WriteFile(fs, "old.md", []byte("x"), 0644))
	require.NoError(t, fs.Chtimes("old.md", now, now.Add(-30*24*time.Hour)))

	t.Run("relative window", func(t *testing.T) {
		resp := execute(t, v, map[string]any{"field": "modified", "date_range": "2d"})
		assert.False(t, resp.IsError, string(resp.Content))

		var out FilterNotesOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		require.Len(t, out.Notes, 1)
		assert.Equal(t, "recent.md", out.Notes[0].Path)
	})

	t.Run("explicit bounds descending", func(t *testing.T) {
		resp := execute(t, v, map[string]any{
			"field": "modified",
			"date_range": map[string]any{
				"start": now.Add(-60 * 24 * time.Hour).Format(time.RFC3339),
				"end":   now.Format(time.RFC3339),
			},
			"sort_order": "desc",
		})
		assert.False(t, resp.IsError, string(resp.Content))

		var out FilterNotesOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		require.Len(t, out.Notes, 2)
		assert.Equal(t, "recent.md", out.Notes[0].Path)
		assert.Equal(t, "old.md", out.Notes[1].Path)
	})

	t.Run("limit truncates", func(t *testing.T) {
		resp := execute(t, v, map[string]any{
			"field":      "modified",
			"date_range": "10w",
			"limit":      1,
		})
		assert.False(t, resp.IsError, string(resp.Content))

		var out FilterNotesOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Len(t, out.Notes, 1)
	})

	t.Run("invalid field fails", func(t *testing.T) {
		resp := execute(t, v, map[string]any{"field": "touched", "date_range": "2d"})
		assert.True(t, resp.IsError)
	})

	t.Run("start after end fails", func(t *testing.T) {
		resp := execute(t, v, map[string]any{
			"field":      "modified",
			"date_range": map[string]any{"start": 100, "end": 50},
		})
		assert.True(t, resp.IsError)
		assert.Contains(t, string(resp.Content), "invalid date range")
	})

	t.Run("invalid sort order fails", func(t *testing.T) {
		resp := execute(t, v, map[string]any{
			"field":      "modified",
			"date_range": "2d",
			"sort_order": "sideways",
		})
		assert.True(t, resp.IsError)
	})
}
