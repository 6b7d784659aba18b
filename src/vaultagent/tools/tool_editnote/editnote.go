package tool_editnote

import (
	"context"
	"fmt"

	"github.com/aymanbagabas/go-udiff"
	"github.com/spf13/afero"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "edit_note"

const editNotePrompt = `Edit an existing Markdown note.

HOW TO USE:
- Target the note either with active_note=true (the note the user currently has open) or with file_name (fuzzy-matched); exactly one must apply
- With use_llm=false, new_content replaces the note body verbatim
- With use_llm=true, the note is rewritten according to the instructions in context, preserving unrelated material
- tags are merged into the note's front-matter

The result contains a line diff of the change, not the full note text.`

// EditNoteInput represents the input for editing a note
type EditNoteInput struct {
	FileName   string   `json:"file_name,omitempty" description:"Name of the note to edit, fuzzy-matched"`
	ActiveNote bool     `json:"active_note,omitempty" description:"Edit the note the user currently has open"`
	NewContent string   `json:"new_content,omitempty" description:"Replacement content when use_llm is false"`
	UseLLM     bool     `json:"use_llm,omitempty" description:"Rewrite the note with the model using context as instructions"`
	Tags       []string `json:"tags,omitempty" description:"Tags to merge into the note's front-matter"`
	Context    string   `json:"context,omitempty" description:"Rewrite instructions when use_llm is true"`
}

// EditNoteOutput represents the result of editing a note
type EditNoteOutput struct {
	Path string `json:"path" description:"Vault path of the edited note"`
	Diff string `json:"diff" description:"Unified line diff of the change"`
}

func makeEditNoteHandler(v *vault.Vault, model aisdk.ModelClient, activeNote func() string) func(context.Context, EditNoteInput) (EditNoteOutput, error) {
	return func(ctx context.Context, input EditNoteInput) (EditNoteOutput, error) {
		logger := toolsutil.GetLogger()

		target, err := toolsutil.TargetNote(input.FileName, activeNote(), input.ActiveNote)
		if err != nil {
			return EditNoteOutput{}, err
		}
		resolved, ok := v.ResolveNote(target)
		if !ok {
			return EditNoteOutput{}, fmt.Errorf("%w: %q", toolsutil.ErrNoteNotFound, target)
		}

		oldBytes, err := afero.ReadFile(v.Fs(), resolved)
		if err != nil {
			return EditNoteOutput{}, fmt.Errorf("failed to read note %s: %v", resolved, err)
		}
		old := string(oldBytes)

		var updated string
		switch {
		case input.UseLLM:
			if input.Context == "" {
				return EditNoteOutput{}, fmt.Errorf("context with rewrite instructions is required when use_llm is true")
			}
			prompt := "Instruction:\n" + input.Context + "\n\nCurrent note content:\n" + old
			updated, err = model.Complete(ctx, rewritePrompt, prompt, nil)
			if err != nil {
				return EditNoteOutput{}, fmt.Errorf("rewrite failed: %v", err)
			}
		case input.NewContent != "":
			updated = input.NewContent
		default:
			return EditNoteOutput{}, fmt.Errorf("either new_content or use_llm with context is required")
		}

		if len(input.Tags) > 0 {
			updated = vault.ApplyTags(updated, input.Tags)
		}

		if err := afero.WriteFile(v.Fs(), resolved, []byte(updated), 0644); err != nil {
			logger.Error("failed to write note", "path", resolved, "error", err)
			return EditNoteOutput{}, fmt.Errorf("failed to write note: %v", err)
		}

		logger.Info("note edited", "path", resolved)
		return EditNoteOutput{
			Path: resolved,
			Diff: udiff.Unified("before", "after", old, updated),
		}, nil
	}
}

// Tool returns the edit_note tool definition using GenericTool
func Tool(v *vault.Vault, model aisdk.ModelClient, activeNote func() string) (agent.Tool, error) {
	return agent.NewGenericTool(Name, editNotePrompt, makeEditNoteHandler(v, model, activeNote))
}

const rewritePrompt = `You rewrite an existing Markdown note according to instructions.

You will receive the current note content and an instruction. Apply the instruction while preserving all unrelated material, the note's front-matter, and its overall structure. Output only the full rewritten note, nothing else.`
