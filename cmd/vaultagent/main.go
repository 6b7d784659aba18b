package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	Config   string `short:"c" help:"Path to the config file" type:"path"`
	Vault    string `help:"Vault root directory, overrides the config"`
	LogLevel string `default:"warn" help:"Log level"`

	Chat  ChatCmd  `cmd:"" help:"Send a message to the agent"`
	Chats ChatsCmd `cmd:"" help:"Manage chat files"`
	Tools ToolsCmd `cmd:"" help:"Inspect the tool catalog"`
	Index IndexCmd `cmd:"" help:"Manage the chat index"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("vaultagent"),
		kong.Description("AI agent for a Markdown note vault"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
