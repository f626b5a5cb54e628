package agent

import (
	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/internal/util"
)

// InstructionProvider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from the run context, environment, etc.
type InstructionProvider interface {
	Instruction(rc *core.RunContext) (string, error)
}

// InstructionFunc is a functional adapter to allow ordinary functions to be
// used as providers.
type InstructionFunc func(rc *core.RunContext) (string, error)

// Instruction implements InstructionProvider.
func (f InstructionFunc) Instruction(rc *core.RunContext) (string, error) { return f(rc) }

// Instruction represents either a static instruction string or a dynamic
// provider. This mirrors a union of string | provider in a Go-idiomatic way.
// Static text may use Go template syntax, rendered against the vars supplied
// at construction.
type Instruction struct {
	text     string
	vars     map[string]any
	provider InstructionProvider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromTemplate creates an Instruction whose text is rendered as
// a template against vars on every resolve.
func NewInstructionFromTemplate(text string, vars map[string]any) Instruction {
	return Instruction{text: text, vars: vars}
}

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p InstructionProvider) Instruction {
	return Instruction{provider: p}
}

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(rc *core.RunContext) (string, error)) Instruction {
	return Instruction{provider: InstructionFunc(f)}
}

// IsZero returns true if the instruction carries neither text nor a provider.
func (i Instruction) IsZero() bool { return i.text == "" && i.provider == nil }

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider or rendering
// the template as needed.
func (i Instruction) Resolve(rc *core.RunContext) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(rc)
	}
	return util.RenderTemplate(i.text, i.vars)
}
