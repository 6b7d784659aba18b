package tool_createnote

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

func execute(t *testing.T, v *vault.Vault, model aisdk.ModelClient, args map[string]any) *aisdk.ToolResponse {
	t.Helper()
	tool, err := Tool(v, model)
	require.NoError(t, err)
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	resp, err := tool.Execute(context.Background(), &aisdk.ToolCall{ID: "tc1", Name: Name, Args: raw})
	require.NoError(t, err)
	return resp
}

func TestCreateNoteTool(t *testing.T) {
	t.Run("literal content at root", func(t *testing.T) {
		v, fs := newVault(t)
		resp := execute(t, v, &fakeModel{}, map[string]any{
			"name":    "Cats",
			"content": "# Cats\n\nThey purr.",
		})
		assert.False(t, resp.IsError, string(resp.Content))

		var out CreateNoteOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "Cats.md", out.Path)
		assert.True(t, out.Created)

		data, err := afero.ReadFile(fs, "Cats.md")
		require.NoError(t, err)
		assert.Equal(t, "# Cats\n\nThey purr.", string(data))
	})

	t.Run("generated content with tags", func(t *testing.T) {
		v, fs := newVault(t)
		model := &fakeModel{completion: "# Cats\n\nGenerated body."}
		resp := execute(t, v, model, map[string]any{
			"topic":   "cats",
			"use_llm": true,
			"tags":    []string{"animals"},
		})
		assert.False(t, resp.IsError, string(resp.Content))

		data, err := afero.ReadFile(fs, "cats.md")
		require.NoError(t, err)
		assert.Contains(t, string(data), "tags: [animals]")
		assert.Contains(t, string(data), "Generated body.")
	})

	t.Run("fuzzy directory resolution", func(t *testing.T) {
		v, fs := newVault(t)
		require.NoError(t, fs.MkdirAll("projects/gardening", 0755))
		resp := execute(t, v, &fakeModel{}, map[string]any{
			"name":     "Plan",
			"dir_path": "gardening",
			"content":  "x",
		})
		assert.False(t, resp.IsError, string(resp.Content))

		var out CreateNoteOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "projects/gardening/Plan.md", out.Path)
	})

	t.Run("name collision appends numeric suffix", func(t *testing.T) {
		v, fs := newVault(t)
		require.NoError(t, afero.WriteFile(fs, "Note.md", []byte("a"), 0644))

		resp := execute(t, v, &fakeModel{}, map[string]any{"name": "Note", "content": "b"})
		assert.False(t, resp.IsError)
		var out CreateNoteOutput
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "Note (1).md", out.Path)

		resp = execute(t, v, &fakeModel{}, map[string]any{"name": "Note", "content": "c"})
		require.NoError(t, json.Unmarshal(resp.Content, &out))
		assert.Equal(t, "Note (2).md", out.Path)
	})

	t.Run("missing name and topic fails", func(t *testing.T) {
		v, _ := newVault(t)
		resp := execute(t, v, &fakeModel{}, map[string]any{"content": "x"})
		assert.True(t, resp.IsError)
	})

	t.Run("unknown directory fails", func(t *testing.T) {
		v, _ := newVault(t)
		resp := execute(t, v, &fakeModel{}, map[string]any{
			"name":     "Plan",
			"dir_path": "nope",
			"content":  "x",
		})
		assert.True(t, resp.IsError)
		assert.Contains(t, string(resp.Content), "folder not found")
	})
}
