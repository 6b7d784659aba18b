package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggest/jsonschema-go"

	"github.com/user/vaultagent/src/aisdk"
)

func TestNewClient(t *testing.T) {
	t.Run("openai", func(t *testing.T) {
		c, err := NewClient(Config{Provider: ProviderOpenAI, Model: "gpt-4o", APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", c.ModelID())
	})
	t.Run("anthropic", func(t *testing.T) {
		c, err := NewClient(Config{Provider: ProviderAnthropic, Model: "claude-sonnet-4-20250514", APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "claude-sonnet-4-20250514", c.ModelID())
	})
	t.Run("gemini uses openai-compatible endpoint", func(t *testing.T) {
		c, err := NewClient(Config{Provider: ProviderGemini, Model: "gemini-2.0-flash", APIKey: "test"})
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.0-flash", c.ModelID())
	})
	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewClient(Config{Provider: "cohere", Model: "x", APIKey: "y"})
		assert.ErrorIs(t, err, ErrUnknownProvider)
	})
	t.Run("missing api key", func(t *testing.T) {
		_, err := NewClient(Config{Provider: ProviderOpenAI, Model: "gpt-4o"})
		assert.Error(t, err)
	})
	t.Run("missing model", func(t *testing.T) {
		_, err := NewClient(Config{Provider: ProviderAnthropic, APIKey: "sk-test"})
		assert.Error(t, err)
	})
}

func TestSchemaToMap(t *testing.T) {
	t.Run("nil schema", func(t *testing.T) {
		m := schemaToMap(nil)
		assert.Equal(t, "object", m["type"])
	})
	t.Run("reflected schema keeps properties and required", func(t *testing.T) {
		type input struct {
			Name  string `json:"name" required:"true" description:"note name"`
			Limit int    `json:"limit,omitempty"`
		}
		reflector := jsonschema.Reflector{}
		schema, err := reflector.Reflect(input{})
		require.NoError(t, err)

		m := schemaToMap(&schema)
		assert.Equal(t, "object", m["type"])
		props, ok := m["properties"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, props, "name")
		assert.Contains(t, props, "limit")
		required, ok := m["required"].([]any)
		require.True(t, ok)
		assert.Contains(t, required, "name")
	})
}

func TestRenderUserContent(t *testing.T) {
	t.Run("no attachments", func(t *testing.T) {
		assert.Equal(t, "hello", renderUserContent("hello", nil))
	})
	t.Run("note references appended", func(t *testing.T) {
		got := renderUserContent("summarize these", []aisdk.Attachment{
			{NotePath: "daily/2026-08-28.md"},
			{Name: "photo.png", MimeType: "image/png", Data: []byte{1}},
			{NotePath: "projects/plan.md"},
		})
		assert.True(t, strings.HasPrefix(got, "summarize these"))
		assert.Contains(t, got, "Attached notes:")
		assert.Contains(t, got, "- daily/2026-08-28.md")
		assert.Contains(t, got, "- projects/plan.md")
		assert.NotContains(t, got, "photo.png")
	})
}

func TestImageAttachments(t *testing.T) {
	atts := []aisdk.Attachment{
		{NotePath: "a.md"},
		{Name: "img.png", MimeType: "image/png", Data: []byte{0x89}},
		{Name: "doc.pdf", MimeType: "application/pdf", Data: []byte{1}},
	}
	imgs := imageAttachments(atts)
	require.Len(t, imgs, 1)
	assert.Equal(t, "img.png", imgs[0].Name)
}

func TestDataURL(t *testing.T) {
	url := dataURL(aisdk.Attachment{MimeType: "image/jpeg", Data: []byte("abc")})
	assert.Equal(t, "data:image/jpeg;base64,YWJj", url)

	url = dataURL(aisdk.Attachment{Data: []byte("abc")})
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))
}
