package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vaultagent/src/aisdk"
)

type echoInput struct {
	Text  string `json:"text" required:"true" description:"Text to echo"`
	Times int    `json:"times,omitempty" description:"Repeat count"`
}

type echoOutput struct {
	Echoed string `json:"echoed"`
}

func newEchoTool(t *testing.T) Tool {
	t.Helper()
	tool, err := NewGenericTool("echo", "Echoes text back",
		func(ctx context.Context, input echoInput) (echoOutput, error) {
			times := input.Times
			if times <= 0 {
				times = 1
			}
			out := ""
			for i := 0; i < times; i++ {
				out += input.Text
			}
			return echoOutput{Echoed: out}, nil
		})
	require.NoError(t, err)
	return tool
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	tb := NewToolbox()
	require.NoError(t, tb.Register(newEchoTool(t)))
	assert.Error(t, tb.Register(newEchoTool(t)))
	assert.True(t, tb.Has("echo"))
}

func TestDispatchSuccess(t *testing.T) {
	tb := NewToolbox()
	require.NoError(t, tb.Register(newEchoTool(t)))

	resp := tb.Dispatch(context.Background(), &aisdk.ToolCall{
		ID:   "c1",
		Name: "echo",
		Args: json.RawMessage(`{"text":"hi","times":2}`),
	})
	require.False(t, resp.IsError)

	var out echoOutput
	require.NoError(t, json.Unmarshal(resp.Content, &out))
	assert.Equal(t, "hihi", out.Echoed)
}

func TestDispatchIsTotal(t *testing.T) {
	tb := NewToolbox()
	require.NoError(t, tb.Register(newEchoTool(t)))

	panicky, err := NewGenericTool("panicky", "Always panics",
		func(ctx context.Context, input echoInput) (echoOutput, error) {
			panic("boom")
		})
	require.NoError(t, err)
	require.NoError(t, tb.Register(panicky))

	failing, err := NewGenericTool("failing", "Always fails",
		func(ctx context.Context, input echoInput) (echoOutput, error) {
			return echoOutput{}, fmt.Errorf("handler exploded")
		})
	require.NoError(t, err)
	require.NoError(t, tb.Register(failing))

	tests := []struct {
		name string
		call *aisdk.ToolCall
	}{
		{"unknown tool", &aisdk.ToolCall{Name: "no_such_tool", Args: json.RawMessage(`{}`)}},
		{"missing required arg", &aisdk.ToolCall{Name: "echo", Args: json.RawMessage(`{"times":3}`)}},
		{"malformed args", &aisdk.ToolCall{Name: "echo", Args: json.RawMessage(`{"text":`)}},
		{"nil args", &aisdk.ToolCall{Name: "echo"}},
		{"handler error", &aisdk.ToolCall{Name: "failing", Args: json.RawMessage(`{"text":"x"}`)}},
		{"handler panic", &aisdk.ToolCall{Name: "panicky", Args: json.RawMessage(`{"text":"x"}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tb.Dispatch(context.Background(), tt.call)
			require.NotNil(t, resp)
			assert.True(t, resp.IsError)
		})
	}
}

func TestUnknownToolMentionsNotImplemented(t *testing.T) {
	tb := NewToolbox()
	resp := tb.Dispatch(context.Background(), &aisdk.ToolCall{Name: "ghost"})
	require.True(t, resp.IsError)
	assert.Contains(t, string(resp.Content), "not implemented")
}

func TestSchemasReflectRequiredFields(t *testing.T) {
	tb := NewToolbox()
	require.NoError(t, tb.Register(newEchoTool(t)))

	schemas := tb.Schemas()
	require.Len(t, schemas, 1)
	assert.Equal(t, "echo", schemas[0].Name)
	assert.Equal(t, "Echoes text back", schemas[0].Description)
	require.NotNil(t, schemas[0].Parameters)
	assert.Contains(t, schemas[0].Parameters.Required, "text")
}

func TestLoggingMiddlewareRuns(t *testing.T) {
	tb := NewToolbox()
	require.NoError(t, tb.Register(newEchoTool(t)))
	tb.Use(LoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))

	resp := tb.Dispatch(context.Background(), &aisdk.ToolCall{
		Name: "echo",
		Args: json.RawMessage(`{"text":"ok"}`),
	})
	assert.False(t, resp.IsError)
}

func TestToolsSortedByName(t *testing.T) {
	tb := NewToolbox()
	b, err := NewGenericTool("bravo", "b", func(ctx context.Context, in echoInput) (echoOutput, error) { return echoOutput{}, nil })
	require.NoError(t, err)
	a, err := NewGenericTool("alpha", "a", func(ctx context.Context, in echoInput) (echoOutput, error) { return echoOutput{}, nil })
	require.NoError(t, err)
	require.NoError(t, tb.Register(b))
	require.NoError(t, tb.Register(a))

	tools := tb.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].GetName())
	assert.Equal(t, "bravo", tools[1].GetName())
}
