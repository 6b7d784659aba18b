package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/user/vaultagent/src/chatlog"
)

// UpsertChat inserts or refreshes one index row.
func UpsertChat(ctx context.Context, db Execer, entry *ChatIndexEntry) error {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	query := `
	INSERT INTO chats (thread_id, path, title, message_count, last_sender, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(thread_id) DO UPDATE SET
		path = excluded.path,
		title = excluded.title,
		message_count = excluded.message_count,
		last_sender = excluded.last_sender,
		updated_at = excluded.updated_at`
	_, err := db.ExecContext(ctx, query,
		entry.ThreadID, entry.Path, entry.Title, entry.MessageCount,
		entry.LastSender, entry.CreatedAt, entry.UpdatedAt)
	return err
}

// DeleteChat removes the index row for a thread id.
func DeleteChat(ctx context.Context, db Execer, threadID string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM chats WHERE thread_id = ?", threadID)
	return err
}

// GetChatByThreadID returns the index row for a thread id, or nil when the
// chat is not indexed.
func GetChatByThreadID(ctx context.Context, db sqlscan.Querier, threadID string) (*ChatIndexEntry, error) {
	var entry ChatIndexEntry
	err := sqlscan.Get(ctx, db, &entry, "SELECT * FROM chats WHERE thread_id = ?", threadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ListChats returns all indexed chats, most recently updated first.
func ListChats(ctx context.Context, db sqlscan.Querier) ([]ChatIndexEntry, error) {
	var entries []ChatIndexEntry
	err := sqlscan.Select(ctx, db, &entries, "SELECT * FROM chats ORDER BY updated_at DESC")
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// IndexChat derives one index row from the chat file and upserts it.
func IndexChat(ctx context.Context, db Execer, store *chatlog.Store, chatPath string) error {
	threadID, err := store.ThreadID(chatPath)
	if err != nil {
		return fmt.Errorf("failed to read thread id of %s: %w", chatPath, err)
	}
	createdAt, err := store.CreatedAt(chatPath)
	if err != nil {
		createdAt = time.Now().UTC()
	}
	msgs, err := store.ReadAll(chatPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", chatPath, err)
	}

	entry := &ChatIndexEntry{
		ThreadID:     threadID,
		Path:         chatPath,
		Title:        chatTitle(chatPath),
		MessageCount: len(msgs),
		CreatedAt:    createdAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if len(msgs) > 0 {
		entry.LastSender = string(msgs[len(msgs)-1].Sender)
	}
	return UpsertChat(ctx, db, entry)
}

// Rebuild drops the index and re-derives it from the given chat files.
func Rebuild(ctx context.Context, db ExecQuerier, store *chatlog.Store, chatPaths []string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM chats"); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	for _, p := range chatPaths {
		if err := IndexChat(ctx, db, store, p); err != nil {
			return err
		}
	}
	return nil
}

func chatTitle(chatPath string) string {
	return strings.TrimSuffix(path.Base(chatPath), path.Ext(chatPath))
}
