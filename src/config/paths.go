package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "vaultagent"

// DefaultConfigPath returns the config file location under XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.json")
}

// DefaultIndexPath returns the chat index database location under
// XDG_STATE_HOME. The index is derived state and can be rebuilt from the
// chat files.
func DefaultIndexPath() string {
	return filepath.Join(xdg.StateHome, appName, "chats.db")
}
