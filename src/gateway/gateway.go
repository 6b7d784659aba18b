// Package gateway abstracts over hosted model providers behind the
// aisdk.ModelClient capability surface.
package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/vaultagent/src/aisdk"
)

var (
	// ErrModelTimeout reports a single-shot call that exceeded its bound.
	ErrModelTimeout = errors.New("model request timed out")
	// ErrModelStream reports a streamed call whose transport broke before
	// the terminal event.
	ErrModelStream = errors.New("model stream interrupted")
	// ErrUnknownProvider reports an unrecognized provider type.
	ErrUnknownProvider = errors.New("unknown model provider")
)

// Single-shot calls are bounded; streamed calls are not.
const completeTimeout = 15 * time.Second

// maxToolRounds caps the tool-use loop within one streamed turn so a model
// stuck requesting tools cannot spin forever.
const maxToolRounds = 8

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGemini    ProviderType = "gemini"
)

// geminiOpenAIBaseURL is Google's OpenAI-compatible endpoint; Gemini is
// driven through the OpenAI client against it.
const geminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Config holds provider selection and credentials.
type Config struct {
	Provider ProviderType
	Model    string
	APIKey   string
	BaseURL  string
	Logger   *slog.Logger
}

// NewClient builds a model client for the configured provider.
func NewClient(cfg Config) (aisdk.ModelClient, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderGemini:
		if cfg.BaseURL == "" {
			cfg.BaseURL = geminiOpenAIBaseURL
		}
		return newOpenAIClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
