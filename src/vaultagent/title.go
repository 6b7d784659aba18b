package vaultagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/vaultagent/src/aisdk"
)

const maxTitleLen = 60

// ProposeTitle asks the model for a short chat title based on the first user
// message. The result is sanitized for use as a file name.
func ProposeTitle(ctx context.Context, model aisdk.ModelClient, firstMessage string, attachments []aisdk.Attachment) (string, error) {
	title, err := model.Complete(ctx, titlePrompt, firstMessage, attachments)
	if err != nil {
		return "", fmt.Errorf("title generation failed: %w", err)
	}
	title = sanitizeTitle(title)
	if title == "" {
		return "", fmt.Errorf("title generation produced no usable text")
	}
	return title, nil
}

// sanitizeTitle strips characters that are unsafe in file names and bounds
// the length. Returns "" when nothing usable remains.
func sanitizeTitle(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, `"'`)

	var b strings.Builder
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '#', '^', '[', ']':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Join(strings.Fields(b.String()), " ")
	if len(out) > maxTitleLen {
		out = strings.TrimSpace(out[:maxTitleLen])
	}
	return out
}
