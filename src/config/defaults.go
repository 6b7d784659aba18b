package config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			Provider: "openai",
			Model:    "gpt-4o",
		},
		Agent: AgentConfig{
			AutoTitle: true,
		},
		Vault: VaultConfig{
			Path:     ".",
			ChatsDir: "chats",
		},
	}
}
