package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/user/vaultagent/src/agent"
	"github.com/user/vaultagent/src/aisdk"
	"github.com/user/vaultagent/src/chatlog"
	"github.com/user/vaultagent/src/vault"
	"github.com/user/vaultagent/src/vaultagent"
)

// ErrChatDeleted reports that the chat file disappeared mid-turn. The caller
// must create or select another chat before retrying.
var ErrChatDeleted = errors.New("chat file was deleted")

const (
	// toolsOnlyContent stands in for assistant text when the model did real
	// work through tools but produced no closing message.
	toolsOnlyContent = "tools executed successfully"

	// noAnswerDiagnostic is persisted as an error turn when the model
	// returned neither text nor tool calls.
	noAnswerDiagnostic = "the model returned no answer"
)

// Config wires an Orchestrator's collaborators.
type Config struct {
	Store   *chatlog.Store
	Vault   *vault.Vault
	Model   aisdk.ModelClient
	Toolbox *agent.Toolbox
	Logger  *slog.Logger
	// Rules are the user's standing instructions, included in every system
	// prompt.
	Rules []string
	// HistoryBudget bounds prior-turn tokens per call; 0 uses the default.
	HistoryBudget int
}

// Orchestrator drives one conversation turn at a time: user append, streamed
// model call with tool dispatch, and consistent persistence of the terminal
// bot or error turn. Turns for the same chat are serialized; distinct chats
// may run concurrently.
type Orchestrator struct {
	store         *chatlog.Store
	vault         *vault.Vault
	model         aisdk.ModelClient
	toolbox       *agent.Toolbox
	logger        *slog.Logger
	rules         []string
	historyBudget int

	mu        sync.Mutex
	chatLocks map[string]*sync.Mutex
}

func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:         cfg.Store,
		vault:         cfg.Vault,
		model:         cfg.Model,
		toolbox:       cfg.Toolbox,
		logger:        logger,
		rules:         cfg.Rules,
		historyBudget: cfg.HistoryBudget,
	}
}

// SendOptions parameterizes one turn.
type SendOptions struct {
	// Chat is the path of the chat file. It must exist.
	Chat string
	// Text is the user's message.
	Text        string
	Attachments []aisdk.Attachment
	// IsRegeneration replays the turn at RegenerateFromIndex: the log is
	// truncated to that index first and Text replaces the user message
	// there. Everything after the edited turn is discarded.
	IsRegeneration      bool
	RegenerateFromIndex int
	// Sink receives streaming progress; nil discards it.
	Sink EventSink
}

// SendMessage runs one full turn and returns the terminal message, which is
// a bot message on success or an error-sender message when the model call
// failed or produced nothing. The user's message is durably persisted before
// the model is invoked and survives any later failure.
func (o *Orchestrator) SendMessage(ctx context.Context, opts SendOptions) (*aisdk.Message, error) {
	lock := o.chatLock(opts.Chat)
	lock.Lock()
	defer lock.Unlock()

	sink := sinkOrNop(opts.Sink)

	if !o.store.Exists(opts.Chat) {
		return nil, fmt.Errorf("%w: %s", ErrChatDeleted, opts.Chat)
	}

	if opts.IsRegeneration {
		if err := o.store.TruncateAfter(opts.Chat, opts.RegenerateFromIndex); err != nil {
			return nil, fmt.Errorf("regeneration truncate failed: %w", err)
		}
	}

	userMsg := aisdk.Message{
		Sender:      aisdk.SenderUser,
		Content:     opts.Text,
		Attachments: opts.Attachments,
		Processed:   true,
		CreatedAt:   time.Now().UTC(),
	}
	if err := o.store.Append(opts.Chat, &userMsg); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	history, err := o.store.ReadAll(opts.Chat)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat log: %w", err)
	}
	persisted := len(history)
	// history for the model excludes the user message just appended; it
	// travels separately as the current user content.
	prior := make([]*aisdk.Message, 0, persisted-1)
	for i := range history[:persisted-1] {
		prior = append(prior, &history[i])
	}
	prior = trimHistory(prior, o.historyBudget)

	threadID, err := o.store.ThreadID(opts.Chat)
	if err != nil {
		o.logger.Warn("thread id unavailable, proceeding without", "chat", opts.Chat, "error", err)
		threadID = ""
	}

	// The placeholder bot turn lives only in memory while streaming. It is
	// the single unprocessed message and always the last one.
	bot := &aisdk.Message{
		Sender:    aisdk.SenderBot,
		Processed: false,
		CreatedAt: time.Now().UTC(),
	}

	req := &aisdk.ConverseRequest{
		SystemPrompt: vaultagent.BuildSystemPrompt(o.vault, o.rules),
		History:      prior,
		UserText:     opts.Text,
		Attachments:  opts.Attachments,
		Tools:        o.toolbox.Schemas(),
		ThreadID:     threadID,
		Execute:      o.toolbox.Dispatch,
	}

	stream, err := o.model.Converse(ctx, req)
	if err != nil {
		return o.finishError(opts.Chat, sink, err)
	}

	var acc aisdk.StreamAccumulator
	streamErr := aisdk.StreamToCallback(stream, func(ev *aisdk.StreamEvent) error {
		acc.Add(ev)
		switch ev.Kind {
		case aisdk.EventText:
			bot.Content += ev.Text
			sink.OnText(ev.Text)
		case aisdk.EventToolCall:
			bot.ToolCalls = append(bot.ToolCalls, *ev.ToolCall)
			sink.OnToolCall(ev.ToolCall)
		}
		return nil
	})
	if streamErr != nil {
		// Mid-stream transport failure: the partial text is discarded and
		// only the error text is persisted.
		return o.finishError(opts.Chat, sink, streamErr)
	}
	if !acc.Done() {
		return o.finishError(opts.Chat, sink, errors.New("model stream ended before completion"))
	}

	content := acc.Content()
	if content == "" {
		if !anyToolSucceeded(bot.ToolCalls) {
			return o.finishError(opts.Chat, sink, errors.New(noAnswerDiagnostic))
		}
		content = toolsOnlyContent
	}
	bot.Content = content
	bot.Processed = true

	if !o.store.Exists(opts.Chat) {
		return nil, fmt.Errorf("%w: %s", ErrChatDeleted, opts.Chat)
	}
	if err := o.store.Append(opts.Chat, bot); err != nil {
		return nil, fmt.Errorf("failed to persist bot message: %w", err)
	}
	o.consistencyPass(opts.Chat, persisted+1, bot)

	sink.OnFinal(bot)
	return bot, nil
}

// finishError converts a turn failure into a persisted error-sender message,
// so the log reflects that the turn failed rather than dropping it.
func (o *Orchestrator) finishError(chat string, sink EventSink, cause error) (*aisdk.Message, error) {
	o.logger.Error("turn failed", "chat", chat, "error", cause)

	errMsg := &aisdk.Message{
		Sender:    aisdk.SenderError,
		Content:   cause.Error(),
		Processed: true,
		CreatedAt: time.Now().UTC(),
	}
	if !o.store.Exists(chat) {
		return nil, fmt.Errorf("%w: %s", ErrChatDeleted, chat)
	}
	if err := o.store.Append(chat, errMsg); err != nil {
		return nil, fmt.Errorf("failed to persist error message: %w", err)
	}
	sink.OnFinal(errMsg)
	return errMsg, nil
}

// consistencyPass re-reads the log after finalization and verifies it ends
// with the turn just written. A mismatch is logged, not retried; the log
// remains the source of truth for the next read.
func (o *Orchestrator) consistencyPass(chat string, wantLen int, last *aisdk.Message) {
	msgs, err := o.store.ReadAll(chat)
	if err != nil {
		o.logger.Warn("consistency pass read failed", "chat", chat, "error", err)
		return
	}
	if len(msgs) != wantLen {
		o.logger.Warn("chat log length mismatch after turn",
			"chat", chat, "want", wantLen, "got", len(msgs))
		return
	}
	got := msgs[len(msgs)-1]
	if got.Sender != last.Sender || got.Content != last.Content {
		o.logger.Warn("chat log tail mismatch after turn", "chat", chat)
	}
}

func anyToolSucceeded(calls []aisdk.ToolCall) bool {
	for _, tc := range calls {
		if tc.Status == aisdk.ToolSuccess {
			return true
		}
	}
	return false
}

func (o *Orchestrator) chatLock(chat string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.chatLocks == nil {
		o.chatLocks = make(map[string]*sync.Mutex)
	}
	lock, ok := o.chatLocks[chat]
	if !ok {
		lock = &sync.Mutex{}
		o.chatLocks[chat] = lock
	}
	return lock
}

// AutoTitle proposes a title from the chat's first user message and renames
// the chat file accordingly. It only applies to chats that are still empty;
// later calls return the current path unchanged.
func (o *Orchestrator) AutoTitle(ctx context.Context, chat, firstMessage string, attachments []aisdk.Attachment) (string, error) {
	msgs, err := o.store.ReadAll(chat)
	if err != nil {
		return "", fmt.Errorf("failed to read chat log: %w", err)
	}
	if len(msgs) > 0 {
		return chat, nil
	}

	title, err := vaultagent.ProposeTitle(ctx, o.model, firstMessage, attachments)
	if err != nil {
		return "", err
	}

	dir := path.Dir(chat)
	ext := path.Ext(chat)
	target := joinChatPath(dir, title+ext)
	for k := 1; o.store.Exists(target); k++ {
		target = joinChatPath(dir, fmt.Sprintf("%s (%d)%s", title, k, ext))
	}
	if target == chat {
		return chat, nil
	}
	if err := o.store.Rename(chat, target); err != nil {
		return "", fmt.Errorf("failed to rename chat: %w", err)
	}
	o.logger.Info("chat renamed", "from", chat, "to", target)
	return target, nil
}

func joinChatPath(dir, name string) string {
	if dir == "." || dir == "" {
		return name
	}
	return strings.TrimPrefix(path.Join(dir, name), "./")
}
