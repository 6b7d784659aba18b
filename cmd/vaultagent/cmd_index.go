package main

import (
	"context"
	"fmt"

	"github.com/user/vaultagent/src/storage"
)

// IndexCmd groups chat index maintenance commands.
type IndexCmd struct {
	Rebuild IndexRebuildCmd `cmd:"" help:"Rebuild the chat index from the chat files"`
}

// IndexRebuildCmd drops the index and re-derives it from the chats folder.
// The chat files are the source of truth, so this is always safe.
type IndexRebuildCmd struct{}

func (c *IndexRebuildCmd) Run(cli *CLI) error {
	app, err := initApp(cli)
	if err != nil {
		return err
	}
	defer app.Close()

	paths, err := app.chatFiles()
	if err != nil {
		return fmt.Errorf("failed to list chat files: %w", err)
	}

	ctx := context.Background()
	if err := storage.Rebuild(ctx, app.Index.DB(), app.Store, paths); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}

	fmt.Printf("Indexed %d chats\n", len(paths))
	return nil
}
