package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/vaultagent/src/aisdk"
)

func msgWithContent(content string) *aisdk.Message {
	return &aisdk.Message{Sender: aisdk.SenderUser, Content: content, Processed: true}
}

func TestTrimHistory(t *testing.T) {
	long := strings.Repeat("word ", 2000)

	t.Run("short history untouched", func(t *testing.T) {
		msgs := []*aisdk.Message{msgWithContent("a"), msgWithContent("b")}
		assert.Equal(t, msgs, trimHistory(msgs, 0))
	})

	t.Run("oldest turns dropped first", func(t *testing.T) {
		msgs := []*aisdk.Message{
			msgWithContent(long),
			msgWithContent("middle"),
			msgWithContent("newest"),
		}
		trimmed := trimHistory(msgs, 100)
		assert.NotEmpty(t, trimmed)
		assert.Equal(t, "newest", trimmed[len(trimmed)-1].Content)
		for _, m := range trimmed {
			assert.NotEqual(t, long, m.Content)
		}
	})

	t.Run("most recent message always kept", func(t *testing.T) {
		msgs := []*aisdk.Message{msgWithContent(long)}
		trimmed := trimHistory(msgs, 10)
		assert.Len(t, trimmed, 1)
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Empty(t, trimHistory(nil, 100))
	})
}

func TestCountTokens(t *testing.T) {
	assert.Greater(t, countTokens("hello world, this is a sentence"), 0)
	assert.Greater(t, countTokens(strings.Repeat("a", 400)), countTokens("a"))
}
