package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/user/vaultagent/src/aisdk"
)

const anthropicMaxTokens = 4096

// anthropicClient drives the Anthropic Messages API.
type anthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
	logger *slog.Logger
}

func newAnthropicClient(cfg Config) (*anthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required for provider %s", cfg.Provider)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required for provider %s", cfg.Provider)
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &anthropicClient{
		client: &client,
		model:  anthropic.Model(cfg.Model),
		logger: cfg.Logger,
	}, nil
}

func (c *anthropicClient) ModelID() string { return string(c.model) }

// Complete implements the single-shot call with a hard timeout.
func (c *anthropicClient) Complete(ctx context.Context, systemPrompt, userContent string, attachments []aisdk.Attachment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completeTimeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropic.MessageParam{c.userMessage(userContent, attachments)},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrModelTimeout, err)
		}
		return "", fmt.Errorf("completion failed: %w", err)
	}
	return messageText(msg), nil
}

// Converse implements the streamed, tool-using exchange.
func (c *anthropicClient) Converse(ctx context.Context, req *aisdk.ConverseRequest) (aisdk.Stream, error) {
	out := aisdk.NewEventStream()
	go c.run(ctx, req, out)
	return out, nil
}

func (c *anthropicClient) run(ctx context.Context, req *aisdk.ConverseRequest, out *aisdk.EventStream) {
	messages := c.buildMessages(req)
	tools := c.buildTools(req.Tools)

	for round := 0; round < maxToolRounds; round++ {
		params := anthropic.MessageNewParams{
			Model:     c.model,
			MaxTokens: anthropicMaxTokens,
			Messages:  messages,
		}
		if req.SystemPrompt != "" {
			params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
		}
		if len(tools) > 0 && req.Execute != nil {
			params.Tools = tools
		}
		if req.ThreadID != "" {
			params.Metadata = anthropic.MetadataParam{UserID: anthropic.String(req.ThreadID)}
		}

		stream := c.client.Messages.NewStreaming(ctx, params)
		msg := anthropic.Message{}
		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				out.Fail(fmt.Errorf("%w: %v", ErrModelStream, err))
				return
			}
			switch eventVariant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := eventVariant.Delta.AsAny().(anthropic.TextDelta); ok {
					if !out.Send(&aisdk.StreamEvent{Kind: aisdk.EventText, Text: delta.Text}) {
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			out.Fail(fmt.Errorf("%w: %v", ErrModelStream, err))
			return
		}

		toolUses := extractToolUses(msg.Content)
		if len(toolUses) == 0 || req.Execute == nil {
			out.Finish()
			return
		}

		messages = append(messages, msg.ToParam())
		results := make([]anthropic.ContentBlockParamUnion, 0, len(toolUses))
		for _, tu := range toolUses {
			call := &aisdk.ToolCall{
				ID:     tu.ID,
				Name:   tu.Name,
				Args:   tu.Input,
				Status: aisdk.ToolPending,
			}
			resp := req.Execute(ctx, call)
			call.Result = resp.Content
			if resp.IsError {
				call.Status = aisdk.ToolError
			} else {
				call.Status = aisdk.ToolSuccess
			}
			if !out.Send(&aisdk.StreamEvent{Kind: aisdk.EventToolCall, ToolCall: call}) {
				return
			}
			results = append(results, anthropic.NewToolResultBlock(tu.ID, string(resp.Content), resp.IsError))
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}
	out.Fail(fmt.Errorf("%w: tool-use rounds exceeded %d", ErrModelStream, maxToolRounds))
}

func (c *anthropicClient) buildMessages(req *aisdk.ConverseRequest) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, msg := range req.History {
		switch msg.Sender {
		case aisdk.SenderUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(renderUserContent(msg.Content, msg.Attachments))))
		case aisdk.SenderBot, aisdk.SenderError:
			if msg.Content != "" {
				messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
			}
		}
	}
	messages = append(messages, c.userMessage(renderUserContent(req.UserText, req.Attachments), req.Attachments))
	return messages
}

func (c *anthropicClient) userMessage(text string, attachments []aisdk.Attachment) anthropic.MessageParam {
	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(text)}
	for _, img := range imageAttachments(attachments) {
		mime := img.MimeType
		if mime == "" {
			mime = "image/png"
		}
		blocks = append(blocks, anthropic.NewImageBlockBase64(mime, base64.StdEncoding.EncodeToString(img.Data)))
	}
	return anthropic.NewUserMessage(blocks...)
}

func (c *anthropicClient) buildTools(schemas []*aisdk.ToolSchema) []anthropic.ToolUnionParam {
	if len(schemas) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		m := schemaToMap(s.Parameters)
		inputSchema := anthropic.ToolInputSchemaParam{Properties: m["properties"]}
		if required, ok := m["required"].([]any); ok {
			for _, r := range required {
				if name, ok := r.(string); ok {
					inputSchema.Required = append(inputSchema.Required, name)
				}
			}
		}
		tool := anthropic.ToolUnionParamOfTool(inputSchema, s.Name)
		if s.Description != "" {
			tool.OfTool.Description = anthropic.String(s.Description)
		}
		out = append(out, tool)
	}
	return out
}

func extractToolUses(content []anthropic.ContentBlockUnion) []anthropic.ToolUseBlock {
	var out []anthropic.ToolUseBlock
	for _, block := range content {
		if tu, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			out = append(out, tu)
		}
	}
	return out
}

func messageText(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String()
}
