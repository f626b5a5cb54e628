package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishnudev-k/bee-agent-framework/core"
)

func TestInstruction_Static(t *testing.T) {
	instr := NewInstructionFromText("You are a helpful assistant.")

	assert.True(t, instr.IsStatic())
	assert.False(t, instr.IsZero())

	text, err := instr.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "You are a helpful assistant.", text)
}

func TestInstruction_Template(t *testing.T) {
	instr := NewInstructionFromTemplate(
		"You are {{.role}}. Answer in {{upper .lang}}.",
		map[string]any{"role": "a translator", "lang": "de"},
	)

	text, err := instr.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "You are a translator. Answer in DE.", text)
}

func TestInstruction_TemplateError(t *testing.T) {
	instr := NewInstructionFromTemplate("{{.broken", nil)

	_, err := instr.Resolve(nil)
	assert.Error(t, err)
}

func TestInstruction_Provider(t *testing.T) {
	instr := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		return "dynamic text", nil
	})

	assert.False(t, instr.IsStatic())
	assert.False(t, instr.IsZero())

	text, err := instr.Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "dynamic text", text)
}

func TestInstruction_ProviderError(t *testing.T) {
	sentinel := errors.New("no instructions today")
	instr := NewInstructionFromFunc(func(rc *core.RunContext) (string, error) {
		return "", sentinel
	})

	_, err := instr.Resolve(nil)
	assert.ErrorIs(t, err, sentinel)
}

func TestInstruction_Zero(t *testing.T) {
	var instr Instruction
	assert.True(t, instr.IsZero())

	text, err := instr.Resolve(nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
