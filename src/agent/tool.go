// Package agent implements the tool registry: a fixed catalog of named,
// schema-validated operations dispatched on behalf of the model.
package agent

import (
	"context"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/user/vaultagent/src/aisdk"
)

// Tool is the interface every registered tool implements.
type Tool interface {
	// GetName returns the tool's unique name.
	GetName() string

	// GetDescription returns the model-facing description.
	GetDescription() string

	// GetParameters returns the JSON schema for the tool's arguments.
	GetParameters() *jsonschema.Schema

	// Execute runs the tool. Failures are reported inside the returned
	// ToolResponse; a non-nil error is reserved for context cancellation.
	Execute(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error)
}

// Schema converts a tool into its model-facing schema form.
func Schema(t Tool) *aisdk.ToolSchema {
	return &aisdk.ToolSchema{
		Name:        t.GetName(),
		Description: t.GetDescription(),
		Parameters:  t.GetParameters(),
	}
}
