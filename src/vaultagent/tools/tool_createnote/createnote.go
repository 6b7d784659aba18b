package tool_createnote

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "create_note"

const createNotePrompt = `Create a new Markdown note in the vault.

HOW TO USE:
- Give either literal content, or a topic with use_llm=true to have the note body generated
- dir_path selects the target folder by fuzzy match against existing folders; omit it for the vault root
- tags are added as front-matter
- If the target name is taken, a numeric suffix like " (1)" is appended automatically

The result contains the final path of the created note.`

// CreateNoteInput represents the input for creating a note
type CreateNoteInput struct {
	Topic   string   `json:"topic,omitempty" description:"Topic of the note, used as a fallback name and as the subject when generating content"`
	Name    string   `json:"name,omitempty" description:"File name for the note, with or without the .md extension"`
	Tags    []string `json:"tags,omitempty" description:"Tags to add as front-matter"`
	Context string   `json:"context,omitempty" description:"Extra context or instructions for generated content"`
	DirPath string   `json:"dir_path,omitempty" description:"Target folder, fuzzy-matched against existing folders"`
	Content string   `json:"content,omitempty" description:"Literal note content; takes priority over generation"`
	UseLLM  bool     `json:"use_llm,omitempty" description:"Generate the note body from the topic when no content is given"`
}

// CreateNoteOutput represents the result of creating a note
type CreateNoteOutput struct {
	Path    string `json:"path" description:"Final vault path of the created note"`
	Created bool   `json:"created" description:"Whether the note was written"`
}

func makeCreateNoteHandler(v *vault.Vault, model aisdk.ModelClient) func(context.Context, CreateNoteInput) (CreateNoteOutput, error) {
	return func(ctx context.Context, input CreateNoteInput) (CreateNoteOutput, error) {
		logger := toolsutil.GetLogger()

		name := strings.TrimSpace(input.Name)
		if name == "" {
			name = strings.TrimSpace(input.Topic)
		}
		if name == "" {
			return CreateNoteOutput{}, fmt.Errorf("either name or topic is required")
		}
		if !strings.HasSuffix(strings.ToLower(name), ".md") {
			name += ".md"
		}

		dir := ""
		if input.DirPath != "" {
			resolved, ok := v.ResolveFolder(input.DirPath)
			if !ok {
				return CreateNoteOutput{}, fmt.Errorf("%w: %q", toolsutil.ErrFolderNotFound, input.DirPath)
			}
			dir = resolved
		}

		content := input.Content
		if content == "" && input.UseLLM && input.Topic != "" {
			prompt := "Topic: " + input.Topic
			if input.Context != "" {
				prompt += "\n\nAdditional context:\n" + input.Context
			}
			generated, err := model.Complete(ctx, noteWriterPrompt, prompt, nil)
			if err != nil {
				return CreateNoteOutput{}, fmt.Errorf("content generation failed: %v", err)
			}
			content = generated
		}

		if len(input.Tags) > 0 {
			content = vault.ApplyTags(content, input.Tags)
		}

		target := vault.Sanitize(path.Join(dir, name))
		target, err := v.UniquePath(target)
		if err != nil {
			return CreateNoteOutput{}, fmt.Errorf("failed to resolve target path: %v", err)
		}

		if parent := path.Dir(target); parent != "." && parent != "" {
			if err := v.Fs().MkdirAll(parent, 0755); err != nil {
				return CreateNoteOutput{}, fmt.Errorf("failed to create folder %s: %v", parent, err)
			}
		}
		if err := afero.WriteFile(v.Fs(), target, []byte(content), 0644); err != nil {
			logger.Error("failed to write note", "path", target, "error", err)
			return CreateNoteOutput{}, fmt.Errorf("failed to write note: %v", err)
		}

		logger.Info("note created", "path", target)
		return CreateNoteOutput{Path: target, Created: true}, nil
	}
}

// Tool returns the create_note tool definition using GenericTool
func Tool(v *vault.Vault, model aisdk.ModelClient) (agent.Tool, error) {
	return agent.NewGenericTool(Name, createNotePrompt, makeCreateNoteHandler(v, model))
}

const noteWriterPrompt = `You write Markdown notes for a personal knowledge vault.

Write a well-structured note on the requested topic. Start with a single H1 title line. Use headings, lists, and short paragraphs. Do not include front-matter, the tool adds it. Do not wrap the note in a code fence. Output only the note body.`
