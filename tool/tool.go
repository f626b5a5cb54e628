// Package tool lets agents invoke structured capabilities (APIs, computations,
// side effects) with schema validated input and consistent error handling.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vishnudev-k/bee-agent-framework/internal/util"
)

// Tool defines the interface for extending agent capabilities with external functions.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define a JSON schema for their input
//   - Be safe for concurrent use
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	// It is provided to the model to help it decide when to use the tool.
	Description() string

	// InputSchema returns a JSON schema describing the expected input format.
	InputSchema() map[string]any

	// Run executes the tool with validated input.
	Run(ctx context.Context, input map[string]any) (Output, error)
}

// Output is the result of a tool run in a form a model can consume.
type Output interface {
	// Text returns the output rendered as plain text.
	Text() string
}

// StringOutput is a plain text tool output.
type StringOutput string

// Text returns the output string.
func (o StringOutput) Text() string { return string(o) }

// JSONOutput wraps an arbitrary value and renders it as JSON text.
type JSONOutput struct {
	Value any
}

// Text returns the value marshaled as JSON, or its Go representation if
// marshaling fails.
func (o JSONOutput) Text() string {
	data, err := json.Marshal(o.Value)
	if err != nil {
		return fmt.Sprintf("%v", o.Value)
	}
	return string(data)
}

// InputValidationError represents input validation errors with detailed information.
type InputValidationError = util.ValidationError

// Error codes used by ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
