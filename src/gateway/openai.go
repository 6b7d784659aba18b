package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/user/vaultagent/src/aisdk"
)

// openAIClient drives OpenAI-compatible chat completion APIs, including
// Gemini's compatibility endpoint.
type openAIClient struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
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
	return &openAIClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
		logger: cfg.Logger,
	}, nil
}

func (c *openAIClient) ModelID() string { return c.model }

// Complete implements the single-shot call with a hard timeout.
func (c *openAIClient) Complete(ctx context.Context, systemPrompt, userContent string, attachments []aisdk.Attachment) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completeTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, c.userMessage(userContent, attachments))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrModelTimeout, err)
		}
		return "", fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Converse implements the streamed, tool-using exchange.
func (c *openAIClient) Converse(ctx context.Context, req *aisdk.ConverseRequest) (aisdk.Stream, error) {
	out := aisdk.NewEventStream()
	go c.run(ctx, req, out)
	return out, nil
}

func (c *openAIClient) run(ctx context.Context, req *aisdk.ConverseRequest, out *aisdk.EventStream) {
	messages := c.buildMessages(req)
	tools := c.buildTools(req.Tools)

	for round := 0; round < maxToolRounds; round++ {
		params := openai.ChatCompletionNewParams{
			Model:    openai.ChatModel(c.model),
			Messages: messages,
		}
		if len(tools) > 0 && req.Execute != nil {
			params.Tools = tools
		}
		if req.ThreadID != "" {
			params.User = openai.String(req.ThreadID)
		}

		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		acc := openai.ChatCompletionAccumulator{}
		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if !out.Send(&aisdk.StreamEvent{Kind: aisdk.EventText, Text: chunk.Choices[0].Delta.Content}) {
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			out.Fail(fmt.Errorf("%w: %v", ErrModelStream, err))
			return
		}
		if len(acc.Choices) == 0 {
			out.Fail(fmt.Errorf("%w: response carried no choices", ErrModelStream))
			return
		}

		assistant := acc.Choices[0].Message
		if len(assistant.ToolCalls) == 0 || req.Execute == nil {
			out.Finish()
			return
		}

		// Feed tool results back and let the model continue the turn.
		messages = append(messages, assistant.ToParam())
		for _, tc := range assistant.ToolCalls {
			call := &aisdk.ToolCall{
				ID:     tc.ID,
				Name:   tc.Function.Name,
				Args:   json.RawMessage(tc.Function.Arguments),
				Status: aisdk.ToolPending,
			}
			resp := req.Execute(ctx, call)
			call.Result = json.RawMessage(resp.Content)
			if resp.IsError {
				call.Status = aisdk.ToolError
			} else {
				call.Status = aisdk.ToolSuccess
			}
			if !out.Send(&aisdk.StreamEvent{Kind: aisdk.EventToolCall, ToolCall: call}) {
				return
			}
			messages = append(messages, openai.ToolMessage(string(resp.Content), tc.ID))
		}
	}
	out.Fail(fmt.Errorf("%w: tool-use rounds exceeded %d", ErrModelStream, maxToolRounds))
}

func (c *openAIClient) buildMessages(req *aisdk.ConverseRequest) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	for _, msg := range req.History {
		switch msg.Sender {
		case aisdk.SenderUser:
			messages = append(messages, openai.UserMessage(renderUserContent(msg.Content, msg.Attachments)))
		case aisdk.SenderBot:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		case aisdk.SenderError:
			// Failed turns stay visible to the model as assistant context.
			messages = append(messages, openai.AssistantMessage(msg.Content))
		}
	}
	messages = append(messages, c.userMessage(renderUserContent(req.UserText, req.Attachments), req.Attachments))
	return messages
}

func (c *openAIClient) userMessage(text string, attachments []aisdk.Attachment) openai.ChatCompletionMessageParamUnion {
	images := imageAttachments(attachments)
	if len(images) == 0 {
		return openai.UserMessage(text)
	}
	parts := []openai.ChatCompletionContentPartUnionParam{openai.TextContentPart(text)}
	for _, img := range images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL(img),
		}))
	}
	return openai.UserMessage(parts)
}

func (c *openAIClient) buildTools(schemas []*aisdk.ToolSchema) []openai.ChatCompletionToolUnionParam {
	if len(schemas) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        s.Name,
			Description: openai.String(s.Description),
			Parameters:  openai.FunctionParameters(schemaToMap(s.Parameters)),
		}))
	}
	return out
}
