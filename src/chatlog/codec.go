package chatlog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/user/vaultagent/src/aisdk"
)

// Chat files are Markdown notes: a frontmatter header carrying the thread id
// and creation metadata, followed by one JSON-encoded message per line. The
// line-oriented encoding keeps ReadAll a total inverse of repeated Append
// calls regardless of message content.

const (
	headerDelimiter = "---"
	threadIDKey     = "thread_id"
	createdKey      = "created"
	tagsKey         = "tags"
	chatTag         = "ai-chat"
)

// header is the parsed frontmatter block of a chat file.
type header struct {
	ThreadID string
	Created  time.Time
}

func encodeHeader(h header) string {
	var b strings.Builder
	b.WriteString(headerDelimiter + "\n")
	fmt.Fprintf(&b, "%s: %s\n", threadIDKey, h.ThreadID)
	fmt.Fprintf(&b, "%s: %s\n", createdKey, h.Created.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s: [%s]\n", tagsKey, chatTag)
	b.WriteString(headerDelimiter + "\n")
	return b.String()
}

// splitFile separates the raw chat file into its header lines (delimiters
// included) and everything after the header. Files without a frontmatter
// block are treated as all body.
func splitFile(raw string) (headerText, body string) {
	lines := strings.SplitAfter(raw, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != headerDelimiter {
		return "", raw
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") == headerDelimiter {
			return strings.Join(lines[:i+1], ""), strings.Join(lines[i+1:], "")
		}
	}
	// Unterminated header: treat the whole file as header to avoid
	// misreading metadata lines as messages.
	return raw, ""
}

func parseHeader(headerText string) header {
	var h header
	for _, line := range strings.Split(headerText, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case threadIDKey:
			h.ThreadID = value
		case createdKey:
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				h.Created = t
			}
		}
	}
	return h
}

func encodeMessage(msg *aisdk.Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeMessages parses the body of a chat file. Blank, partial, and unknown
// lines are skipped, never fatal.
func decodeMessages(body string) []aisdk.Message {
	var messages []aisdk.Message
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "{") {
			continue
		}
		var msg aisdk.Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			continue
		}
		if !msg.Sender.Valid() {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

// messageLines returns the raw body lines that decode as messages, in order.
// Used by the index-based rewrite operations so that truncation preserves
// the original encoding byte for byte.
func messageLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
			continue
		}
		var msg aisdk.Message
		if err := json.Unmarshal([]byte(trimmed), &msg); err != nil {
			continue
		}
		if !msg.Sender.Valid() {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
