package gateway

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/user/vaultagent/src/aisdk"
)

// schemaToMap renders a reflected JSON schema as the generic map shape the
// provider SDKs expect.
func schemaToMap(schema *jsonschema.Schema) map[string]any {
	if schema == nil {
		return map[string]any{"type": "object"}
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	if _, ok := out["type"]; !ok {
		out["type"] = "object"
	}
	return out
}

// renderUserContent flattens the user text plus note-reference attachments
// into a single prompt string. Image attachments are carried separately by
// each provider's multimodal message shape.
func renderUserContent(text string, attachments []aisdk.Attachment) string {
	var refs []string
	for _, a := range attachments {
		if a.NotePath != "" {
			refs = append(refs, a.NotePath)
		}
	}
	if len(refs) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\nAttached notes:\n")
	for _, r := range refs {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return b.String()
}

// imageAttachments filters the attachments that carry inline bytes.
func imageAttachments(attachments []aisdk.Attachment) []aisdk.Attachment {
	var out []aisdk.Attachment
	for _, a := range attachments {
		if a.IsImage() {
			out = append(out, a)
		}
	}
	return out
}

// dataURL encodes image bytes for providers that take data URLs.
func dataURL(a aisdk.Attachment) string {
	mime := a.MimeType
	if mime == "" {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(a.Data))
}
