package config

// Config represents the complete configuration for vaultagent
type Config struct {
	// Version of the configuration format
	Version string `json:"version"`

	// Model provider configuration
	API APIConfig `json:"api"`

	// Agent behavior
	Agent AgentConfig `json:"agent"`

	// Vault location and chat storage
	Vault VaultConfig `json:"vault"`

	// Tool-specific configuration
	Tools ToolsConfig `json:"tools,omitempty"`

	// Debug enables verbose logging
	Debug bool `json:"debug,omitempty"`
}

// APIConfig selects and authenticates the model provider
type APIConfig struct {
	// Provider is one of openai, anthropic, gemini
	Provider string `json:"provider" validate:"required,oneof=openai anthropic gemini"`

	// Model is the provider model identifier
	Model string `json:"model" validate:"required"`

	// APIKey authenticates against the provider. May also come from the
	// environment (OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY).
	APIKey string `json:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`
}

// AgentConfig defines agent behavior
type AgentConfig struct {
	// Rules are standing instructions included in every system prompt
	Rules []string `json:"rules,omitempty"`

	// AutoTitle renames a chat after its first message
	AutoTitle bool `json:"auto_title"`

	// HistoryBudget bounds prior-turn tokens per model call; 0 uses the
	// built-in default
	HistoryBudget int `json:"history_budget,omitempty" validate:"gte=0"`
}

// VaultConfig locates the vault and chat files
type VaultConfig struct {
	// Path is the vault root directory
	Path string `json:"path" validate:"required"`

	// ChatsDir is the vault-relative folder holding chat files
	ChatsDir string `json:"chats_dir" validate:"required"`
}

// ToolsConfig holds tool-specific settings
type ToolsConfig struct {
	// CaptionImages replaces inline base64 images with generated captions
	// when reading notes
	CaptionImages bool `json:"caption_images"`

	// BraveAPIKey enables the web_search tool. May also come from
	// BRAVE_API_KEY.
	BraveAPIKey string `json:"brave_api_key,omitempty"`
}
