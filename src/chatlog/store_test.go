package chatlog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vaultagent/src/aisdk"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(fs, logger), fs
}

func sampleMessage(i int) *aisdk.Message {
	msg := &aisdk.Message{
		Sender:    aisdk.SenderUser,
		Content:   fmt.Sprintf("message %d\nwith a second line", i),
		Processed: true,
		CreatedAt: time.Date(2026, 8, 28, 12, 0, i, 0, time.UTC),
	}
	if i%2 == 1 {
		msg.Sender = aisdk.SenderBot
		msg.ToolCalls = []aisdk.ToolCall{{
			ID:     fmt.Sprintf("call-%d", i),
			Name:   "create_note",
			Args:   json.RawMessage(`{"topic":"cats"}`),
			Status: aisdk.ToolSuccess,
			Result: json.RawMessage(`{"path":"Cats.md"}`),
		}}
	}
	if i%3 == 0 {
		msg.Attachments = []aisdk.Attachment{{NotePath: fmt.Sprintf("Notes/ref %d.md", i)}}
	}
	return msg
}

func TestCreateWritesHeader(t *testing.T) {
	store, fs := newTestStore(t)

	threadID, err := store.Create("Chats/first.md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(threadID, "chat-"))

	raw, err := afero.ReadFile(fs, "Chats/first.md")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "thread_id: "+threadID)
	assert.Contains(t, string(raw), "tags: [ai-chat]")

	got, err := store.ThreadID("Chats/first.md")
	require.NoError(t, err)
	assert.Equal(t, threadID, got)
}

func TestRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	const path = "Chats/roundtrip.md"
	_, err := store.Create(path)
	require.NoError(t, err)

	// Empty file reads back as an empty list.
	msgs, err := store.ReadAll(path)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	var want []aisdk.Message
	for i := 0; i < 50; i++ {
		msg := sampleMessage(i)
		require.NoError(t, store.Append(path, msg))
		want = append(want, *msg)

		got, err := store.ReadAll(path)
		require.NoError(t, err)
		require.Equal(t, want, got, "after %d appends", i+1)
	}
}

func TestRoundTripEmptyFields(t *testing.T) {
	store, _ := newTestStore(t)
	const path = "Chats/empty.md"
	_, err := store.Create(path)
	require.NoError(t, err)

	msg := &aisdk.Message{Sender: aisdk.SenderBot, Content: "", Processed: true}
	require.NoError(t, store.Append(path, msg))

	got, err := store.ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *msg, got[0])
}

func TestReadAllSkipsJunkLines(t *testing.T) {
	store, fs := newTestStore(t)
	const path = "Chats/junk.md"
	_, err := store.Create(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(path, sampleMessage(0)))

	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("not json\n{\"partial\":\n{\"sender\":\"martian\",\"content\":\"x\"}\n   \n"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, store.Append(path, sampleMessage(1)))

	got, err := store.ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, aisdk.SenderUser, got[0].Sender)
	assert.Equal(t, aisdk.SenderBot, got[1].Sender)
}

func TestTruncateAfter(t *testing.T) {
	store, _ := newTestStore(t)
	const path = "Chats/trunc.md"
	threadID, err := store.Create(path)
	require.NoError(t, err)

	const n = 6
	var all []aisdk.Message
	for i := 0; i < n; i++ {
		msg := sampleMessage(i)
		require.NoError(t, store.Append(path, msg))
		all = append(all, *msg)
	}

	for k := n; k >= 0; k-- {
		require.NoError(t, store.TruncateAfter(path, k))
		got, err := store.ReadAll(path)
		require.NoError(t, err)
		if k == 0 {
			assert.Empty(t, got)
		} else {
			assert.Equal(t, all[:k:k], got, "k=%d", k)
		}

		// Second truncation with the same k is a no-op.
		require.NoError(t, store.TruncateAfter(path, k))
		again, err := store.ReadAll(path)
		require.NoError(t, err)
		assert.Equal(t, got, again)

		// Header survives every rewrite.
		id, err := store.ThreadID(path)
		require.NoError(t, err)
		assert.Equal(t, threadID, id)
	}
}

func TestTruncateAfterClampsN(t *testing.T) {
	store, _ := newTestStore(t)
	const path = "Chats/clamp.md"
	_, err := store.Create(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(path, sampleMessage(0)))

	require.NoError(t, store.TruncateAfter(path, 99))
	got, err := store.ReadAll(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRemoveLast(t *testing.T) {
	store, _ := newTestStore(t)
	const path = "Chats/removelast.md"
	_, err := store.Create(path)
	require.NoError(t, err)

	// Removing from an empty chat is a no-op.
	require.NoError(t, store.RemoveLast(path))

	require.NoError(t, store.Append(path, sampleMessage(0)))
	require.NoError(t, store.Append(path, sampleMessage(1)))
	require.NoError(t, store.RemoveLast(path))

	got, err := store.ReadAll(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, aisdk.SenderUser, got[0].Sender)
}

func TestThreadIDAbsent(t *testing.T) {
	store, fs := newTestStore(t)
	require.NoError(t, afero.WriteFile(fs, "Chats/bare.md", []byte("---\ncreated: 2026-08-28T00:00:00Z\n---\n"), 0o644))

	id, err := store.ThreadID("Chats/bare.md")
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestMissingFileErrors(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.ReadAll("Chats/nope.md")
	assert.ErrorIs(t, err, ErrChatMissing)

	err = store.Append("Chats/nope.md", sampleMessage(0))
	assert.ErrorIs(t, err, ErrChatMissing)

	assert.False(t, store.Exists("Chats/nope.md"))
}

func TestRenamePreservesThreadID(t *testing.T) {
	store, _ := newTestStore(t)
	threadID, err := store.Create("Chats/old.md")
	require.NoError(t, err)
	require.NoError(t, store.Append("Chats/old.md", sampleMessage(0)))

	require.NoError(t, store.Rename("Chats/old.md", "Chats/new.md"))
	assert.False(t, store.Exists("Chats/old.md"))

	id, err := store.ThreadID("Chats/new.md")
	require.NoError(t, err)
	assert.Equal(t, threadID, id)

	got, err := store.ReadAll("Chats/new.md")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
