package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vishnudev-k/bee-agent-framework/internal/util"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")
	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Use []any to mirror the JSON decoded schema shape
		"required": []any{"x"},
	}

	// Success
	err := util.ValidateParameters(map[string]any{"x": 5}, schema)
	assert.NoError(t, err)

	// Missing required
	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*InputValidationError); ok {
		assert.Equal(t, "x", vErr.Field)
	} else {
		t.Fatalf("expected InputValidationError, got %T", err)
	}

	// Wrong type
	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*InputValidationError); ok {
		assert.Contains(t, vErr.Message, "expected type integer")
	} else {
		t.Fatalf("expected InputValidationError, got %T", err)
	}

	// Required as []string (CreateSchema output shape)
	schema["required"] = []string{"x"}
	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
}

// -------------------- FunctionTool Tests --------------------

func TestFunctionTool_Success(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
			"b": map[string]any{"type": "number"},
		},
		"required": []string{"a", "b"},
	}

	sumTool := NewFunctionTool("sum", "Add numbers", params, func(_ context.Context, input map[string]any) (any, error) {
		a := input["a"].(float64)
		b := input["b"].(float64)
		return a + b, nil
	})

	out, err := sumTool.Run(context.Background(), map[string]any{"a": 2.0, "b": 3.0})
	assert.NoError(t, err)
	jsonOut, ok := out.(JSONOutput)
	assert.True(t, ok)
	assert.Equal(t, 5.0, jsonOut.Value)
	assert.Equal(t, "5", jsonOut.Text())
}

func TestFunctionTool_StringResultBecomesStringOutput(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	echoTool := NewFunctionTool("echo", "Echo", params, func(_ context.Context, _ map[string]any) (any, error) {
		return "hello", nil
	})

	out, err := echoTool.Run(context.Background(), map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, StringOutput("hello"), out)
	assert.Equal(t, "hello", out.Text())
}

func TestFunctionTool_OutputPassthrough(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	passTool := NewFunctionTool("pass", "Pass", params, func(_ context.Context, _ map[string]any) (any, error) {
		return JSONOutput{Value: map[string]any{"k": "v"}}, nil
	})

	out, err := passTool.Run(context.Background(), map[string]any{})
	assert.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, out.Text())
}

func TestFunctionTool_ValidationError(t *testing.T) {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "number"},
		},
		"required": []any{"a"},
	}
	tTool := NewFunctionTool("test", "Test", params, func(_ context.Context, _ map[string]any) (any, error) {
		return 0, nil
	})

	_, err := tTool.Run(context.Background(), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	execTool := NewFunctionTool("fail", "Fails", params, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("boom")
	})

	_, err := execTool.Run(context.Background(), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, CodeExecution, toolErr.Code)
}

func TestFunctionTool_ToolErrorPassthrough(t *testing.T) {
	params := map[string]any{"type": "object", "properties": map[string]any{}}
	custom := NewToolError("custom", "rate limited", "RATE_LIMITED")
	customTool := NewFunctionTool("custom", "Custom", params, func(_ context.Context, _ map[string]any) (any, error) {
		return nil, custom
	})

	_, err := customTool.Run(context.Background(), map[string]any{})
	assert.Equal(t, custom, err)
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type sumInput struct {
		A float64 `json:"a" description:"First addend"`
		B float64 `json:"b" description:"Second addend"`
	}

	sumTool := NewFunctionToolFromStruct("sum", "Add numbers", sumInput{}, func(_ context.Context, input map[string]any) (any, error) {
		return input["a"].(float64) + input["b"].(float64), nil
	})

	assert.Equal(t, "sum", sumTool.Name())
	assert.Equal(t, "Add numbers", sumTool.Description())
	props, _ := sumTool.InputSchema()["properties"].(map[string]any)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")

	out, err := sumTool.Run(context.Background(), map[string]any{"a": 1.5, "b": 2.5})
	assert.NoError(t, err)
	assert.Equal(t, "4", out.Text())
}

// -------------------- ToolError Formatting --------------------

func TestToolErrorFormatting(t *testing.T) {
	err := NewToolError("demo", "something failed", "E123")
	assert.Contains(t, err.Error(), "E123")
	assert.Contains(t, err.Error(), "demo")

	plain := &ToolError{Tool: "demo", Message: "something failed"}
	assert.Equal(t, "tool error in demo: something failed", plain.Error())
}
