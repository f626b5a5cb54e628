package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Lifecycle Tests --------------------

func TestLifecycle_BeginEnd(t *testing.T) {
	var l Lifecycle

	assert.False(t, l.IsRunning())
	require.NoError(t, l.Begin())
	assert.True(t, l.IsRunning())

	assert.ErrorIs(t, l.Begin(), ErrConcurrentRun)

	l.End()
	assert.False(t, l.IsRunning())

	require.NoError(t, l.Begin())
	l.End()
}
