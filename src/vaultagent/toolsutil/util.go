package toolsutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Package-level logger for tools
var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

// SetLogger allows setting a custom logger for the tools package
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// GetLogger returns the package logger
func GetLogger() *slog.Logger {
	return logger
}

var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrNoTarget       = errors.New("no target note")
)

// TargetNote picks the note a tool call refers to: the active note when
// activeNote is set, otherwise a name to resolve. Exactly one mode must apply.
func TargetNote(fileName, activePath string, activeNote bool) (string, error) {
	if activeNote {
		if activePath == "" {
			return "", fmt.Errorf("%w: active_note requested but no note is open", ErrNoTarget)
		}
		return activePath, nil
	}
	if strings.TrimSpace(fileName) == "" {
		return "", fmt.Errorf("%w: provide file_name or set active_note", ErrNoTarget)
	}
	return fileName, nil
}

// Truncate bounds a string for inclusion in a tool result.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "... (truncated)"
}
