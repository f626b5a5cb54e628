package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// -------------------- Message Tests --------------------

func TestMessageConstructors(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		role Role
	}{
		{name: "system", msg: SystemMessage("follow the rules"), role: RoleSystem},
		{name: "user", msg: UserMessage("hello"), role: RoleUser},
		{name: "assistant", msg: AssistantMessage("hi there"), role: RoleAssistant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.role, tt.msg.Role)
			assert.NotEmpty(t, tt.msg.Text)
			assert.False(t, tt.msg.CreatedAt.IsZero())
		})
	}
}
