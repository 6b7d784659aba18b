package tool_editnote

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

type fakeModel struct {
	completion string
	err        error
}

func (f *fakeModel) Complete(ctx context.Context, system, user string, attachments []aisdk.Attachment) (string, error) {
	return f.completion, f.err
}

func (f *fakeModel) Converse(ctx context.Context, req *aisdk.ConverseRequest) (aisdk.Stream, error) {
	panic("not used")
}

func (f *fakeModel) ModelID() string { return "fake" }

func newVault(t *testing.T) (*vault.Vault, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return vault.New(fs, logger), fs
}

func execute(t *testing.T, v *vault.Vault, model aisdk.ModelClient, active string, args map[string]any) *aisdk.ToolResponse {
	t.Helper()
	tool, err := Tool(v, model, func() string { return active })
	require.NoError(t, err)
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	resp, err := tool.Execute(context.Background(), &aisdk.ToolCall{ID: "tc1", Name: Name, Args: raw})
	require.NoError(t, err)
	return resp
}

func TestEditNoteTool(t *testing.T) {
	t.Run("direct replacement returns diff", func(t *testing.T) {
		v, fs := newVault(t)
		require.NoError(t, afero.WriteFile(fs, "Cats.md", []byte("old line\n"), 0644))

		resp := execute(t, v, &fakeModel{}, "", map[string]any{
			"file_name":   "Cats",
			"new_content": "new line\n",
		})
		assert.False(t, resp.IsError, string(resp.Content))

		var out EditNoteOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "Cats.md", out.Path)
		assert.Contains(t, out.Diff, "-old line")
		assert.Contains(t, out.Diff, "+new line")

		data, err := afero.ReadFile(fs, "Cats.md")
		require.NoError(t, err)
		assert.Equal(t, "new line\n", string(data))
	})

	t.Run("active note target", func(t *testing.T) {
		v, fs := newVault(t)
		require.NoError(t, afero.WriteFile(fs, "daily/today.md", []byte("a\n"), 0644))

		resp := execute(t, v, &fakeModel{}, "daily/today.md", map[string]any{
			"active_note": true,
			"new_content": "b\n",
		})
		assert.False(t, resp.IsError, string(resp.Content))

		data, err := afero.ReadFile(fs, "daily/today.md")
		require.NoError(t, err)
		assert.Equal(t, "b\n", string(data))
	})

	t.Run("llm rewrite", func(t *testing.T) {
		v, fs := newVault(t)
		require.NoError(t, afero.WriteFile(fs, "Cats.md", []byte("old\n"), 0644))

		resp := execute(t, v, &fakeModel{completion: "rewritten\n"}, "", map[string]any{
			"file_name": "Cats",
			"use_llm":   true,
			"context":   "make it better",
		})
		assert.False(t, resp.IsError, string(resp.Content))

		data, err := afero.ReadFile(fs, "Cats.md")
		require.NoError(t, err)
		assert.Equal(t, "rewritten\n", string(data))
	})

	t.Run("llm rewrite without instructions fails", func(t *testing.T) {
		v, fs := newVault(t)
		require.NoError(t, afero.WriteFile(fs, "Cats.md", []byte("old\n"), 0644))

		resp := execute(t, v, &fakeModel{}, "", map[string]any{
			"file_name": "Cats",
			"use_llm":   true,
		})
		assert.True(t, resp.IsError)
	})

	t.Run("tags merged into front-matter", func(t *testing.T) {
		v, fs := newVault(t)
		require.NoError(t, afero.WriteFile(fs, "Cats.md", []byte("body\n"), 0644))

		resp := execute(t, v, &fakeModel{}, "", map[string]any{
			"file_name":   "Cats",
			"new_content": "body\n",
			"tags":        []string{"animals"},
		})
		assert.False(t, resp.IsError, string(resp.Content))

		data, err := afero.ReadFile(fs, "Cats.md")
		require.NoError(t, err)
		assert.Contains(t, string(data), "tags: [animals]")
	})

	t.Run("no target fails", func(t *testing.T) {
		v, _ := newVault(t)
		resp := execute(t, v, &fakeModel{}, "", map[string]any{"new_content": "x"})
		assert.True(t, resp.IsError)
		assert.Contains(t, string(resp.Content), "no target note")
	})

	t.Run("active note requested with nothing open fails", func(t *testing.T) {
		v, _ := newVault(t)
		resp := execute(t, v, &fakeModel{}, "", map[string]any{
			"active_note": true,
			"new_content": "x",
		})
		assert.True(t, resp.IsError)
	})

	t.Run("unknown note fails", func(t *testing.T) {
		v, _ := newVault(t)
		resp := execute(t, v, &fakeModel{}, "", map[string]any{
			"file_name":   "Missing",
			"new_content": "x",
		})
		assert.True(t, resp.IsError)
		assert.Contains(t, string(resp.Content), "note not found")
	})
}
