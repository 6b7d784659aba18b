package tool_readnote

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent/toolsutil"
)

// Tool name constant
const Name = "read_note"

const readNotePrompt = `Read the content of a Markdown note.

HOW TO USE:
- Target the note either with active_note=true (the note the user currently has open) or with file_name (fuzzy-matched); exactly one must apply

Inline base64 images may be replaced by generated captions, since raw image data does not fit in a tool result.`

// inlineImageRe matches Markdown images with an embedded base64 data URL.
var inlineImageRe = regexp.MustCompile(`!\[[^\]]*\]\(data:image/([a-zA-Z+]+);base64,([A-Za-z0-9+/=\s]+)\)`)

const maxNoteChars = 32_000

// ReadNoteInput represents the input for reading a note
type ReadNoteInput struct {
	FileName   string `json:"file_name,omitempty" description:"Name of the note to read, fuzzy-matched"`
	ActiveNote bool   `json:"active_note,omitempty" description:"Read the note the user currently has open"`
}

// ReadNoteOutput represents the result of reading a note
type ReadNoteOutput struct {
	Path    string `json:"path" description:"Vault path of the note"`
	Content string `json:"content" description:"Note content, with inline images replaced by captions where enabled"`
}

func makeReadNoteHandler(v *vault.Vault, model aisdk.ModelClient, activeNote func() string, captionImages bool) func(context.Context, ReadNoteInput) (ReadNoteOutput, error) {
	return func(ctx context.Context, input ReadNoteInput) (ReadNoteOutput, error) {
		target, err := toolsutil.TargetNote(input.FileName, activeNote(), input.ActiveNote)
		if err != nil {
			return ReadNoteOutput{}, err
		}
		resolved, ok := v.ResolveNote(target)
		if !ok {
			return ReadNoteOutput{}, fmt.Errorf("%w: %q", toolsutil.ErrNoteNotFound, target)
		}

		data, err := afero.ReadFile(v.Fs(), resolved)
		if err != nil {
			return ReadNoteOutput{}, fmt.Errorf("failed to read note %s: %v", resolved, err)
		}
		content := string(data)

		if captionImages {
			content = replaceInlineImages(ctx, model, content)
		} else {
			content = inlineImageRe.ReplaceAllString(content, "![embedded image omitted]()")
		}

		return ReadNoteOutput{
			Path:    resolved,
			Content: toolsutil.Truncate(content, maxNoteChars),
		}, nil
	}
}

// replaceInlineImages swaps each embedded base64 image for a model-generated
// caption. A caption failure degrades to an omission marker, it never fails
// the read.
func replaceInlineImages(ctx context.Context, model aisdk.ModelClient, content string) string {
	return inlineImageRe.ReplaceAllStringFunc(content, func(match string) string {
		sub := inlineImageRe.FindStringSubmatch(match)
		raw, err := base64.StdEncoding.DecodeString(strings.Map(dropSpace, sub[2]))
		if err != nil {
			return "![embedded image omitted]()"
		}
		attachment := aisdk.Attachment{
			Name:     "embedded",
			MimeType: "image/" + sub[1],
			Data:     raw,
		}
		caption, err := model.Complete(ctx, captionPrompt, "Caption this image.", []aisdk.Attachment{attachment})
		if err != nil || strings.TrimSpace(caption) == "" {
			toolsutil.GetLogger().Warn("image captioning failed", "error", err)
			return "![embedded image omitted]()"
		}
		return fmt.Sprintf("[embedded image: %s]", strings.TrimSpace(caption))
	})
}

func dropSpace(r rune) rune {
	switch r {
	case ' ', '\n', '\r', '\t':
		return -1
	}
	return r
}

// Tool returns the read_note tool definition using GenericTool
func Tool(v *vault.Vault, model aisdk.ModelClient, activeNote func() string, captionImages bool) (agent.Tool, error) {
	return agent.NewGenericTool(Name, readNotePrompt, makeReadNoteHandler(v, model, activeNote, captionImages))
}

const captionPrompt = `Describe the attached image in one or two sentences. Output only the description.`
