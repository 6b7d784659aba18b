package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/user/vaultagent/src/aisdk"
)

// GenericToolHandler is a type-safe tool handler.
type GenericToolHandler[TInput any, TOutput any] func(ctx context.Context, input TInput) (TOutput, error)

// GenericTool wraps a typed handler behind the Tool interface. The argument
// schema is reflected from TInput's struct tags; required fields are checked
// before the handler runs.
type GenericTool[TInput any, TOutput any] struct {
	name        string
	description string
	schema      *jsonschema.Schema
	handler     GenericToolHandler[TInput, TOutput]
}

// NewGenericTool creates a tool from a typed handler, reflecting the JSON
// schema from the input struct.
func NewGenericTool[TInput any, TOutput any](name, description string, handler GenericToolHandler[TInput, TOutput]) (Tool, error) {
	var input TInput
	inputType := reflect.TypeOf(input)
	if inputType.Kind() == reflect.Ptr {
		inputType = inputType.Elem()
	}
	if inputType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool input type must be a struct, got %s", inputType.Kind())
	}

	reflector := jsonschema.Reflector{}
	schema, err := reflector.Reflect(input)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for %s: %w", name, err)
	}

	return &GenericTool[TInput, TOutput]{
		name:        name,
		description: description,
		schema:      &schema,
		handler:     handler,
	}, nil
}

// MustNewGenericTool creates a tool and panics on error. Intended for the
// fixed catalog built at startup.
func MustNewGenericTool[TInput any, TOutput any](name, description string, handler GenericToolHandler[TInput, TOutput]) Tool {
	tool, err := NewGenericTool(name, description, handler)
	if err != nil {
		panic(fmt.Sprintf("failed to create tool %s: %v", name, err))
	}
	return tool
}

func (gt *GenericTool[TInput, TOutput]) GetName() string                  { return gt.name }
func (gt *GenericTool[TInput, TOutput]) GetDescription() string           { return gt.description }
func (gt *GenericTool[TInput, TOutput]) GetParameters() *jsonschema.Schema { return gt.schema }

// Execute parses and validates the call's arguments, then runs the handler.
// Every failure mode is reported as an error ToolResponse with a nil Go
// error, so dispatch stays a total function.
func (gt *GenericTool[TInput, TOutput]) Execute(ctx context.Context, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	args := call.Args
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	var input TInput
	if err := json.Unmarshal(args, &input); err != nil {
		return errorResponse(fmt.Sprintf("failed to parse arguments: %v", err)), nil
	}

	if err := gt.validateRequired(input); err != nil {
		return errorResponse(fmt.Sprintf("argument validation failed: %v", err)), nil
	}

	output, err := gt.handler(ctx, input)
	if err != nil {
		return errorResponse(err.Error()), nil
	}

	content, err := json.Marshal(output)
	if err != nil {
		return errorResponse(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return &aisdk.ToolResponse{Content: content}, nil
}

// validateRequired checks schema-required fields against their zero values.
func (gt *GenericTool[TInput, TOutput]) validateRequired(input TInput) error {
	if gt.schema == nil || len(gt.schema.Required) == 0 {
		return nil
	}

	val := reflect.ValueOf(input)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return fmt.Errorf("arguments are required")
		}
		val = val.Elem()
	}
	typ := val.Type()

	for _, required := range gt.schema.Required {
		found := false
		for i := 0; i < typ.NumField(); i++ {
			jsonTag := typ.Field(i).Tag.Get("json")
			fieldName := strings.Split(jsonTag, ",")[0]
			if fieldName != required {
				continue
			}
			found = true
			if val.Field(i).IsZero() {
				return fmt.Errorf("required field %q is missing", required)
			}
			break
		}
		if !found {
			return fmt.Errorf("required field %q not found", required)
		}
	}
	return nil
}

func errorResponse(msg string) *aisdk.ToolResponse {
	content, _ := json.Marshal(map[string]string{"error": msg})
	return &aisdk.ToolResponse{Content: content, IsError: true}
}

var _ Tool = (*GenericTool[struct{}, struct{}])(nil)
