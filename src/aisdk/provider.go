package aisdk

import "context"

// ConverseRequest is the provider-agnostic shape of a streamed, multi-turn
// model call.
type ConverseRequest struct {
	SystemPrompt string
	History      []*Message
	UserText     string
	Attachments  []Attachment
	Tools        []*ToolSchema
	// ThreadID correlates this call with provider-side session state. Empty
	// means the provider's memory for this chat begins fresh.
	ThreadID string
	// Execute resolves tool calls requested by the model mid-stream. The
	// gateway feeds each result back into the ongoing exchange before the
	// model continues. Nil disables tool use.
	Execute ToolExecutor
}

// ModelClient is the capability surface a model provider must implement.
type ModelClient interface {
	// Complete performs a single-shot, non-streamed generation. Used for
	// tool-internal generation such as note writing, image captioning, and
	// chat title proposals. Bounded by a hard timeout.
	Complete(ctx context.Context, systemPrompt, userContent string, attachments []Attachment) (string, error)

	// Converse opens a streamed exchange. Text chunks and resolved tool
	// calls arrive interleaved in generation order; the stream ends with an
	// explicit EventDone on clean completion.
	Converse(ctx context.Context, req *ConverseRequest) (Stream, error)

	// ModelID returns the provider model identifier.
	ModelID() string
}
