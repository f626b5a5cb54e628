package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/vishnudev-k/bee-agent-framework/internal/util"
	"github.com/vishnudev-k/bee-agent-framework/logging"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds a lightweight JSON-Schema-like input specification
//   - Validates supplied input against that schema before execution
//   - Normalizes error handling so callers receive *ToolError with consistent
//     codes: VALIDATION_ERROR for schema mismatches, EXECUTION_ERROR when the
//     wrapped function fails (custom codes preserved if the function returns
//     *ToolError directly)
//
// A FunctionTool has no internal mutable state after construction and is safe
// for concurrent use by multiple goroutines.
//
// The wrapped function may return any value. An Output is forwarded as is, a
// string becomes a StringOutput and everything else is wrapped in a JSONOutput.
type FunctionTool struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, input map[string]any) (any, error)
	logger      logging.Logger
}

var _ Tool = (*FunctionTool)(nil)

// FunctionToolOptions configures optional behavior of a FunctionTool.
type FunctionToolOptions struct {
	// Logger receives tool run diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// NewFunctionTool constructs a FunctionTool from an explicit schema and function.
//
// Example:
//
//	sumTool := NewFunctionTool(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "a": map[string]any{"type": "number"},
//	      "b": map[string]any{"type": "number"},
//	    },
//	    "required": []string{"a", "b"},
//	  },
//	  func(ctx context.Context, input map[string]any) (any, error) {
//	    return input["a"].(float64) + input["b"].(float64), nil
//	  },
//	)
func NewFunctionTool(
	name, description string,
	schema map[string]any,
	fn func(ctx context.Context, input map[string]any) (any, error),
	optFns ...func(o *FunctionToolOptions),
) *FunctionTool {
	opts := FunctionToolOptions{
		Logger: logging.NoOpLogger{},
	}

	for _, optFn := range optFns {
		optFn(&opts)
	}

	return &FunctionTool{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
		logger:      opts.Logger,
	}
}

// NewFunctionToolFromStruct derives the input schema from a struct using
// reflection. It is a convenience for simple argument containers and produces
// a schema equivalent to util.CreateSchema(structType).
//
// Example:
//
//	type SumInput struct {
//	  A float64 `json:"a" description:"First addend"`
//	  B float64 `json:"b" description:"Second addend"`
//	}
//
//	sumTool := NewFunctionToolFromStruct(
//	  "calculate_sum",
//	  "Calculate the sum of two numbers",
//	  SumInput{},
//	  func(ctx context.Context, input map[string]any) (any, error) {
//	    return input["a"].(float64) + input["b"].(float64), nil
//	  },
//	)
func NewFunctionToolFromStruct(
	name, description string,
	structType any,
	fn func(ctx context.Context, input map[string]any) (any, error),
	optFns ...func(o *FunctionToolOptions),
) *FunctionTool {
	schema := util.CreateSchema(structType)
	return NewFunctionTool(name, description, schema, fn, optFns...)
}

// Name returns the unique tool name used in function call declarations.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// InputSchema returns the JSON schema describing expected input.
func (t *FunctionTool) InputSchema() map[string]any { return t.schema }

// Run validates the provided input against the declared schema then invokes
// the underlying function. Validation or execution failures are wrapped (or
// passed through) as *ToolError for uniform downstream handling.
func (t *FunctionTool) Run(ctx context.Context, input map[string]any) (Output, error) {
	start := time.Now()

	t.logger.Debug("tool.run.start", "tool", t.name)

	if err := util.ValidateParameters(input, t.schema); err != nil {
		t.logger.Warn("tool.run.validation_failed", "tool", t.name, "error", err.Error())

		return nil, &ToolError{
			Tool:    t.name,
			Message: fmt.Sprintf("input validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	result, err := t.fn(ctx, input)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			t.logger.Error("tool.run.error", "tool", t.name, "error", toolErr.Message)

			return nil, toolErr
		}

		t.logger.Error("tool.run.error", "tool", t.name, "error", err.Error())

		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	t.logger.Info("tool.run.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	switch out := result.(type) {
	case Output:
		return out, nil
	case string:
		return StringOutput(out), nil
	default:
		return JSONOutput{Value: result}, nil
	}
}
