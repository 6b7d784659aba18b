// Package chatlog persists conversations as Markdown chat files inside the
// vault. The file is the source of truth for a conversation: in-memory state
// must always be re-derivable by parsing the log from scratch.
package chatlog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/user/vaultagent/src/aisdk"
)

// ErrStorageIO wraps any read/write failure against a chat file. Callers
// must not assume the file was mutated after seeing it.
var ErrStorageIO = errors.New("chat log storage error")

// ErrChatMissing indicates the chat file disappeared, typically because an
// external actor deleted it mid-turn.
var ErrChatMissing = errors.New("chat file does not exist")

// Store reads and writes chat files on a vault filesystem.
type Store struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewStore creates a chat log store over the given filesystem.
func NewStore(fs afero.Fs, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{fs: fs, logger: logger}
}

// NewThreadID mints a session correlator in the chat-<token> format.
func NewThreadID() string {
	token := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("chat-%s-%s", token, uuid.NewString()[:8])
}

// Create writes a fresh chat file with a header and no messages, returning
// the generated thread id.
func (s *Store) Create(path string) (string, error) {
	h := header{ThreadID: NewThreadID(), Created: time.Now().UTC()}
	if err := afero.WriteFile(s.fs, path, []byte(encodeHeader(h)), 0o644); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrStorageIO, path, err)
	}
	s.logger.Debug("created chat file", "path", path, "thread_id", h.ThreadID)
	return h.ThreadID, nil
}

// Exists reports whether the chat file is present.
func (s *Store) Exists(path string) bool {
	ok, err := afero.Exists(s.fs, path)
	return err == nil && ok
}

// Append serializes one message after the existing content. Single-shot: an
// I/O failure is surfaced, never retried internally.
func (s *Store) Append(path string, msg *aisdk.Message) error {
	line, err := encodeMessage(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrChatMissing, path)
		}
		return fmt.Errorf("%w: open %s: %v", ErrStorageIO, path, err)
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("%w: append %s: %v", ErrStorageIO, path, err)
	}
	return nil
}

// ReadAll parses the entire chat file into an ordered message list. An empty
// or header-only file yields an empty list.
func (s *Store) ReadAll(path string) ([]aisdk.Message, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrChatMissing, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageIO, path, err)
	}
	_, body := splitFile(string(raw))
	return decodeMessages(body), nil
}

// TruncateAfter rewrites the file to contain only the first n messages.
// n = 0 empties the conversation but preserves the header metadata.
func (s *Store) TruncateAfter(path string, n int) error {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrChatMissing, path)
		}
		return fmt.Errorf("%w: read %s: %v", ErrStorageIO, path, err)
	}
	headerText, body := splitFile(string(raw))
	lines := messageLines(body)
	if n < 0 {
		n = 0
	}
	if n > len(lines) {
		n = len(lines)
	}
	var b strings.Builder
	b.WriteString(headerText)
	for _, line := range lines[:n] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err := afero.WriteFile(s.fs, path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: truncate %s: %v", ErrStorageIO, path, err)
	}
	return nil
}

// RemoveLast drops only the final message, if any.
func (s *Store) RemoveLast(path string) error {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrChatMissing, path)
		}
		return fmt.Errorf("%w: read %s: %v", ErrStorageIO, path, err)
	}
	headerText, body := splitFile(string(raw))
	lines := messageLines(body)
	if len(lines) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(headerText)
	for _, line := range lines[:len(lines)-1] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if err := afero.WriteFile(s.fs, path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: remove last %s: %v", ErrStorageIO, path, err)
	}
	return nil
}

// ThreadID extracts the session correlator from the header. It returns the
// empty string when the header carries none; the caller is then expected to
// mint one.
func (s *Store) ThreadID(path string) (string, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrChatMissing, path)
		}
		return "", fmt.Errorf("%w: read %s: %v", ErrStorageIO, path, err)
	}
	headerText, _ := splitFile(string(raw))
	return parseHeader(headerText).ThreadID, nil
}

// CreatedAt returns the creation timestamp recorded in the header, or the
// zero time if absent.
func (s *Store) CreatedAt(path string) (time.Time, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: read %s: %v", ErrStorageIO, path, err)
	}
	headerText, _ := splitFile(string(raw))
	return parseHeader(headerText).Created, nil
}

// Rename moves the chat file, preserving content and thread id.
func (s *Store) Rename(oldPath, newPath string) error {
	if err := s.fs.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("%w: rename %s -> %s: %v", ErrStorageIO, oldPath, newPath, err)
	}
	return nil
}

// Delete removes the chat file.
func (s *Store) Delete(path string) error {
	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStorageIO, path, err)
	}
	return nil
}
