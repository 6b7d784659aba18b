package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/sahilm/fuzzy"

	"github.com/user/vaultagent/src/storage"
	"github.com/user/vaultagent/src/vault"
)

// ChatsCmd groups chat file management commands.
type ChatsCmd struct {
	List   ChatsListCmd   `cmd:"" default:"1" help:"List chats"`
	Rename ChatsRenameCmd `cmd:"" help:"Rename a chat"`
	Delete ChatsDeleteCmd `cmd:"" help:"Delete a chat"`
}

// ChatsListCmd lists indexed chats, most recently updated first.
type ChatsListCmd struct {
	Filter string `short:"f" help:"Fuzzy filter on chat titles"`
	Format string `enum:"table,json" default:"table" help:"Output format"`
}

func (c *ChatsListCmd) Run(cli *CLI) error {
	app, err := initApp(cli)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	entries, err := storage.ListChats(ctx, app.Index.DB())
	if err != nil {
		return fmt.Errorf("failed to list chats: %w", err)
	}

	if c.Filter != "" {
		titles := make([]string, len(entries))
		for i, e := range entries {
			titles[i] = e.Title
		}
		matches := fuzzy.Find(c.Filter, titles)
		filtered := make([]storage.ChatIndexEntry, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, entries[m.Index])
		}
		entries = filtered
	}

	switch c.Format {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tPATH\tMESSAGES\tUPDATED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				e.Title, e.Path, e.MessageCount, e.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		w.Flush()
	}
	return nil
}

// ChatsRenameCmd renames a chat file, keeping it in the same folder.
type ChatsRenameCmd struct {
	Path  string `arg:"" help:"Chat file path relative to the vault"`
	Title string `arg:"" help:"New chat title"`
}

func (c *ChatsRenameCmd) Run(cli *CLI) error {
	app, err := initApp(cli)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Store.Exists(c.Path) {
		return fmt.Errorf("chat %q does not exist", c.Path)
	}
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}

	newPath := vault.Sanitize(path.Join(path.Dir(c.Path), title+".md"))
	newPath, err = app.Vault.UniquePath(newPath)
	if err != nil {
		return err
	}
	if err := app.Store.Rename(c.Path, newPath); err != nil {
		return err
	}

	ctx := context.Background()
	if err := storage.IndexChat(ctx, app.Index.DB(), app.Store, newPath); err != nil {
		app.Logger.Warn("failed to index chat", "path", newPath, "error", err)
	}

	fmt.Printf("Renamed %s to %s\n", c.Path, newPath)
	return nil
}

// ChatsDeleteCmd deletes a chat file and its index row.
type ChatsDeleteCmd struct {
	Path string `arg:"" help:"Chat file path relative to the vault"`
}

func (c *ChatsDeleteCmd) Run(cli *CLI) error {
	app, err := initApp(cli)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Store.Exists(c.Path) {
		return fmt.Errorf("chat %q does not exist", c.Path)
	}
	threadID, err := app.Store.ThreadID(c.Path)
	if err != nil {
		app.Logger.Warn("failed to read thread id", "path", c.Path, "error", err)
	}
	if err := app.Store.Delete(c.Path); err != nil {
		return err
	}
	if threadID != "" {
		ctx := context.Background()
		if err := storage.DeleteChat(ctx, app.Index.DB(), threadID); err != nil {
			app.Logger.Warn("failed to delete index row", "thread_id", threadID, "error", err)
		}
	}

	fmt.Printf("Deleted %s\n", c.Path)
	return nil
}
