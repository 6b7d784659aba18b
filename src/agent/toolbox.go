package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/user/vaultagent/src/aisdk"
)

// Toolbox holds the registered tool catalog and dispatches model-requested
// calls to the right handler.
type Toolbox struct {
	tools      map[string]Tool
	middleware []ToolMiddleware
}

// ToolMiddleware wraps tool execution to add cross-cutting behavior.
type ToolMiddleware func(next aisdk.ToolExecutor) aisdk.ToolExecutor

// NewToolbox creates an empty toolbox.
func NewToolbox() *Toolbox {
	return &Toolbox{tools: make(map[string]Tool)}
}

// Register adds a tool. Names must be unique and non-empty.
func (tb *Toolbox) Register(tool Tool) error {
	name := tool.GetName()
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, exists := tb.tools[name]; exists {
		return fmt.Errorf("tool %s is already registered", name)
	}
	tb.tools[name] = tool
	return nil
}

// Use appends middleware applied to every dispatch, outermost first.
func (tb *Toolbox) Use(mw ToolMiddleware) {
	tb.middleware = append(tb.middleware, mw)
}

// Get returns a tool by name.
func (tb *Toolbox) Get(name string) (Tool, bool) {
	tool, ok := tb.tools[name]
	return tool, ok
}

// Has reports whether a tool is registered.
func (tb *Toolbox) Has(name string) bool {
	_, ok := tb.tools[name]
	return ok
}

// Tools returns the catalog sorted by name.
func (tb *Toolbox) Tools() []Tool {
	out := make([]Tool, 0, len(tb.tools))
	for _, tool := range tb.tools {
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// Schemas returns the model-facing schema for every registered tool.
func (tb *Toolbox) Schemas() []*aisdk.ToolSchema {
	tools := tb.Tools()
	out := make([]*aisdk.ToolSchema, 0, len(tools))
	for _, tool := range tools {
		out = append(out, Schema(tool))
	}
	return out
}

// Dispatch resolves a model-requested call. It is a total function: an
// unknown tool, invalid arguments, a failing handler, and a panicking
// handler all produce an error ToolResponse, never a thrown error. A failed
// call is reported back to the model, not retried.
func (tb *Toolbox) Dispatch(ctx context.Context, call *aisdk.ToolCall) *aisdk.ToolResponse {
	tool, ok := tb.tools[call.Name]
	if !ok {
		return errorResponse(fmt.Sprintf("tool %q is not implemented", call.Name))
	}

	exec := aisdk.ToolExecutor(func(ctx context.Context, call *aisdk.ToolCall) *aisdk.ToolResponse {
		return tb.execute(ctx, tool, call)
	})
	for i := len(tb.middleware) - 1; i >= 0; i-- {
		exec = tb.middleware[i](exec)
	}
	return exec(ctx, call)
}

func (tb *Toolbox) execute(ctx context.Context, tool Tool, call *aisdk.ToolCall) (resp *aisdk.ToolResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = errorResponse(fmt.Sprintf("tool %s panicked: %v", call.Name, r))
		}
	}()
	resp, err := tool.Execute(ctx, call)
	if err != nil {
		return errorResponse(err.Error())
	}
	if resp == nil {
		return errorResponse(fmt.Sprintf("tool %s returned no response", call.Name))
	}
	return resp
}

// LoggingMiddleware logs each dispatch with its outcome.
func LoggingMiddleware(logger *slog.Logger) ToolMiddleware {
	return func(next aisdk.ToolExecutor) aisdk.ToolExecutor {
		return func(ctx context.Context, call *aisdk.ToolCall) *aisdk.ToolResponse {
			logger.Info("executing tool", "tool", call.Name, "args", truncateForLog(call.Args))
			resp := next(ctx, call)
			if resp.IsError {
				logger.Warn("tool execution failed", "tool", call.Name, "error", string(resp.Content))
			} else {
				logger.Info("tool execution completed", "tool", call.Name)
			}
			return resp
		}
	}
}

func truncateForLog(raw json.RawMessage) string {
	const max = 256
	s := string(raw)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
