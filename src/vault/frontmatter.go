package vault

import (
	"fmt"
	"strings"
)

// ApplyTags prepends a tags frontmatter block to note content. Existing
// frontmatter gains a tags line instead of a second block.
func ApplyTags(content string, tags []string) string {
	if len(tags) == 0 {
		return content
	}
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(t, "#"))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return content
	}
	tagLine := fmt.Sprintf("tags: [%s]", strings.Join(cleaned, ", "))

	if strings.HasPrefix(content, "---\n") {
		rest := content[len("---\n"):]
		if end := strings.Index(rest, "\n---"); end >= 0 {
			return "---\n" + rest[:end+1] + tagLine + "\n" + rest[end+1:]
		}
	}
	return fmt.Sprintf("---\n%s\n---\n\n%s", tagLine, content)
}
