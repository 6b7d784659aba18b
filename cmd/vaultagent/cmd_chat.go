package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/orchestrator"
	"github.com/user/vaultagent/src/storage"
)

// ChatCmd sends one message to the agent and streams the reply.
type ChatCmd struct {
	Message    []string `arg:"" help:"The message to send"`
	Chat       string   `help:"Chat file path relative to the vault; a new chat is created when omitted"`
	Attach     []string `short:"a" help:"Image files to attach" type:"existingfile"`
	Regenerate int      `default:"-1" help:"Regenerate the turn at this message index"`
}

var (
	toolStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// streamSink prints streaming progress to stdout.
type streamSink struct {
	wroteText bool
}

func (s *streamSink) OnText(chunk string) {
	s.wroteText = true
	fmt.Print(chunk)
}

func (s *streamSink) OnToolCall(tc *aisdk.ToolCall) {
	if s.wroteText {
		fmt.Println()
		s.wroteText = false
	}
	line := fmt.Sprintf("[%s: %s]", tc.Name, tc.Status)
	if tc.Status == aisdk.ToolError {
		fmt.Println(errorStyle.Render(line))
		return
	}
	fmt.Println(toolStyle.Render(line))
}

func (s *streamSink) OnFinal(msg *aisdk.Message) {
	if s.wroteText {
		fmt.Println()
		s.wroteText = false
	}
	if msg.Sender == aisdk.SenderError {
		fmt.Println(errorStyle.Render(msg.Content))
	}
}

func (c *ChatCmd) Run(cli *CLI) error {
	app, err := initApp(cli)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	text := strings.Join(c.Message, " ")

	attachments, err := loadAttachments(c.Attach)
	if err != nil {
		return err
	}

	chat := c.Chat
	newChat := false
	if chat == "" {
		chatsDir := app.Config.Vault.ChatsDir
		if err := app.Vault.Fs().MkdirAll(chatsDir, 0o755); err != nil {
			return fmt.Errorf("failed to create chats folder: %w", err)
		}
		chat = path.Join(chatsDir, "Untitled.md")
		chat, err = app.Vault.UniquePath(chat)
		if err != nil {
			return err
		}
		if _, err := app.Store.Create(chat); err != nil {
			return err
		}
		newChat = true
	} else if !app.Store.Exists(chat) {
		return fmt.Errorf("chat %q does not exist", chat)
	}

	if newChat && app.Config.Agent.AutoTitle {
		renamed, err := app.Orchestrator.AutoTitle(ctx, chat, text, attachments)
		if err != nil {
			app.Logger.Warn("auto-title failed", "error", err)
		} else {
			chat = renamed
		}
	}

	opts := orchestrator.SendOptions{
		Chat:        chat,
		Text:        text,
		Attachments: attachments,
		Sink:        &streamSink{},
	}
	if c.Regenerate >= 0 {
		opts.IsRegeneration = true
		opts.RegenerateFromIndex = c.Regenerate
	}

	final, err := app.Orchestrator.SendMessage(ctx, opts)
	if err != nil {
		return err
	}

	if err := storage.IndexChat(ctx, app.Index.DB(), app.Store, chat); err != nil {
		app.Logger.Warn("failed to index chat", "path", chat, "error", err)
	}

	fmt.Println(faintStyle.Render(fmt.Sprintf("(%s)", chat)))
	if final.Sender == aisdk.SenderError {
		os.Exit(1)
	}
	return nil
}

func loadAttachments(paths []string) ([]aisdk.Attachment, error) {
	var out []aisdk.Attachment
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read attachment %s: %w", p, err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(p))
		if !strings.HasPrefix(mimeType, "image/") {
			return nil, fmt.Errorf("attachment %s is not an image", p)
		}
		out = append(out, aisdk.Attachment{
			Name:     filepath.Base(p),
			MimeType: mimeType,
			Data:     data,
		})
	}
	return out, nil
}
