// Package aisdk defines the provider-agnostic types shared between the
// conversation orchestrator, the tool registry, and the model gateway.
package aisdk

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	jsonschema "github.com/swaggest/jsonschema-go"
)

// Sender identifies who produced a message. The set is closed: every
// consumer must handle all three variants.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderBot   Sender = "bot"
	SenderError Sender = "error"
)

// Valid reports whether s is one of the known senders.
func (s Sender) Valid() bool {
	switch s {
	case SenderUser, SenderBot, SenderError:
		return true
	}
	return false
}

// Attachment references a vault note by path or carries raw uploaded bytes
// (images). Exactly one of NotePath or Data is expected to be set.
type Attachment struct {
	NotePath string `json:"note_path,omitempty"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// IsImage reports whether the attachment carries inline image bytes. An
// unset MimeType counts as an image, matching the data-URL fallback.
func (a Attachment) IsImage() bool {
	if len(a.Data) == 0 {
		return false
	}
	return a.MimeType == "" || strings.HasPrefix(a.MimeType, "image/")
}

// ToolStatus is the lifecycle state of a tool call. It transitions
// pending -> {success|error} exactly once and never reverts.
type ToolStatus string

const (
	ToolPending ToolStatus = "pending"
	ToolSuccess ToolStatus = "success"
	ToolError   ToolStatus = "error"
)

// ToolCall is one tool invocation requested by the model during a bot turn.
type ToolCall struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Args   json.RawMessage `json:"args,omitempty"`
	Status ToolStatus      `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Message is a single turn in a conversation.
type Message struct {
	Sender      Sender       `json:"sender"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	// Processed is false only while a bot turn is streaming. At most one
	// message per conversation may be unprocessed, and it is the last one.
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// ToolResponse is the structured result of executing a tool call.
type ToolResponse struct {
	Content []byte `json:"content"`
	IsError bool   `json:"is_error"`
}

// ToolSchema describes a registered tool to the model.
type ToolSchema struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// ToolExecutor resolves a model-requested tool call into a response. It is
// a total function: failures are reported inside the ToolResponse, never as
// a Go error.
type ToolExecutor func(ctx context.Context, call *ToolCall) *ToolResponse
