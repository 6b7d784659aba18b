package vaultagent

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/vaultagent/src/vault"
)

// Static prompt templates
const (
	mainPromptTemplate = `You are an AI assistant living inside a Markdown note vault.

You help the user read, create, edit, search, and organize their notes. Use the tools available to you to work with the vault; answer directly when no vault access is needed.

IMPORTANT: Never invent note paths. Use the vault structure below and the search tools to locate notes before reading or editing them.
IMPORTANT: When a tool call fails, report the failure briefly and try a corrected call or ask the user, do not pretend the operation succeeded.

`

	toneSection = `# Tone and style
Be concise and direct. Your responses are rendered as Markdown inside a note-taking application. Prefer short paragraphs and lists over long prose. Do not restate the contents of a note you just created or edited unless the user asks.

`

	vaultStructureHeader = `# Vault structure
The current folder layout of the vault (truncated):

`

	rulesHeader = `# User rules
The user has configured the following standing instructions. Follow them in every response:

`

	// titlePrompt drives chat auto-naming from the first user message.
	titlePrompt = `Propose a short title for a chat that starts with the following user message. Three to six words, plain text, no quotes, no punctuation at the end, suitable as a file name. Output only the title.`
)

const maxStructureEntries = 200

// BuildSystemPrompt assembles the agent system prompt: static instructions,
// the vault's current folder structure, and the user's standing rules.
func BuildSystemPrompt(v *vault.Vault, rules []string) string {
	var b strings.Builder
	b.WriteString(mainPromptTemplate)
	b.WriteString(toneSection)

	b.WriteString(vaultStructureHeader)
	structure := v.Structure(maxStructureEntries)
	if structure == "" {
		structure = "(empty vault)"
	}
	b.WriteString(structure)
	b.WriteString("\n")

	if len(rules) > 0 {
		b.WriteString("\n")
		b.WriteString(rulesHeader)
		for _, r := range rules {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}

	fmt.Fprintf(&b, "\nToday's date is %s.\n", time.Now().Format("2006-01-02"))
	return b.String()
}
