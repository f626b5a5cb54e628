package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vishnudev-k/bee-agent-framework/backend"
	"github.com/vishnudev-k/bee-agent-framework/core"
	"github.com/vishnudev-k/bee-agent-framework/emitter"
)

// captureModel records every Create call and returns a canned response, with
// optional per-call errors to exercise retry paths.
type captureModel struct {
	mu       sync.Mutex
	calls    [][]backend.Message
	response string
	errs     []error
}

func (m *captureModel) Create(_ context.Context, msgs []backend.Message) (*backend.ChatOutput, error) {
	m.mu.Lock()
	snapshot := make([]backend.Message, len(msgs))
	copy(snapshot, msgs)
	m.calls = append(m.calls, snapshot)
	n := len(m.calls)
	m.mu.Unlock()

	if n <= len(m.errs) && m.errs[n-1] != nil {
		return nil, m.errs[n-1]
	}

	return &backend.ChatOutput{Message: backend.AssistantMessage(m.response), FinishReason: "stop"}, nil
}

func (m *captureModel) Info() backend.Info {
	return backend.Info{Name: "capture", Provider: "test"}
}

func (m *captureModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *captureModel) call(i int) []backend.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[i]
}

// blockingModel blocks until its context is cancelled.
type blockingModel struct {
	started chan struct{}
}

func (m *blockingModel) Create(ctx context.Context, _ []backend.Message) (*backend.ChatOutput, error) {
	close(m.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func (m *blockingModel) Info() backend.Info {
	return backend.Info{Name: "blocking", Provider: "test"}
}

// gatedModel waits for release before answering, letting tests attach
// observers before any output event is emitted.
type gatedModel struct {
	release  chan struct{}
	response string
}

func (m *gatedModel) Create(ctx context.Context, _ []backend.Message) (*backend.ChatOutput, error) {
	select {
	case <-m.release:
		return &backend.ChatOutput{Message: backend.AssistantMessage(m.response), FinishReason: "stop"}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *gatedModel) Info() backend.Info {
	return backend.Info{Name: "gated", Provider: "test"}
}

func TestChatAgent_Run(t *testing.T) {
	model := backend.NewMockChatModel()
	model.AddResponse("Hello", "Hi there!")

	a := NewChatAgent(model, func(o *ChatAgentOptions) {
		o.Name = "Greeter"
	})
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "Hello"})
	require.NoError(t, err)

	out, err := run.Wait()
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", out.Result.Text)
	assert.Equal(t, backend.RoleAssistant, out.Result.Role)

	// The exchange is stored in memory: user prompt plus assistant answer.
	msgs := a.Memory().Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[0].Text)
	assert.Equal(t, "Hi there!", msgs[1].Text)
}

func TestChatAgent_EmitsUpdateEvent(t *testing.T) {
	model := &gatedModel{release: make(chan struct{}), response: "done"}
	a := NewChatAgent(model)
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "work"})
	require.NoError(t, err)

	var (
		mu      sync.Mutex
		updates []any
	)
	run.Observe(func(em *emitter.Emitter) {
		em.On(EventUpdate, func(event emitter.Event) error {
			mu.Lock()
			defer mu.Unlock()
			updates = append(updates, event.Payload)
			return nil
		})
	})

	close(model.release)
	_, err = run.Wait()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 1)
	assert.Equal(t, "done", updates[0])
}

func TestChatAgent_RootBusSeesRunEvents(t *testing.T) {
	model := &captureModel{response: "done"}
	a := NewChatAgent(model)
	defer a.Destroy()

	var (
		mu      sync.Mutex
		updates []any
	)
	// Listeners on the agent's root bus observe forwarded run events without
	// touching the per-run handle.
	a.Emitter().On(EventUpdate, func(event emitter.Event) error {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, event.Payload)
		return nil
	})

	run, err := a.Run(context.Background(), RunInput{Prompt: "work"})
	require.NoError(t, err)
	_, err = run.Wait()
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 1)
	assert.Equal(t, "done", updates[0])
}

func TestChatAgent_InstructionsPrepended(t *testing.T) {
	model := &captureModel{response: "ok"}
	a := NewChatAgent(model, func(o *ChatAgentOptions) {
		o.Instructions = NewInstructionFromTemplate(
			"You are {{.name}}, a helpful assistant.",
			map[string]any{"name": "Bee"},
		)
	})
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "hello"})
	require.NoError(t, err)
	waitResolved(t, run)

	require.Equal(t, 1, model.callCount())
	sent := model.call(0)
	require.NotEmpty(t, sent)
	assert.Equal(t, backend.RoleSystem, sent[0].Role)
	assert.Equal(t, "You are Bee, a helpful assistant.", sent[0].Text)
	assert.Equal(t, backend.RoleUser, sent[1].Role)
}

func TestChatAgent_MemorySeedsModelCall(t *testing.T) {
	model := &captureModel{response: "fine, thanks"}
	a := NewChatAgent(model)
	defer a.Destroy()

	require.NoError(t, a.Memory().Add(context.Background(), backend.UserMessage("earlier question")))
	require.NoError(t, a.Memory().Add(context.Background(), backend.AssistantMessage("earlier answer")))

	run, err := a.Run(context.Background(), RunInput{Prompt: "how are you?"})
	require.NoError(t, err)
	_, err = run.Wait()
	require.NoError(t, err)

	sent := model.call(0)
	require.Len(t, sent, 3)
	assert.Equal(t, "earlier question", sent[0].Text)
	assert.Equal(t, "earlier answer", sent[1].Text)
	assert.Equal(t, "how are you?", sent[2].Text)
}

func TestChatAgent_RetriesWithExecutionConfig(t *testing.T) {
	model := &captureModel{
		response: "third time lucky",
		errs:     []error{errors.New("transient"), errors.New("transient")},
	}
	a := NewChatAgent(model)
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "go"},
		WithExecutionConfig(core.ExecutionConfig{MaxRetriesPerStep: 2, MaxIterations: 10}))
	require.NoError(t, err)

	out, err := run.Wait()
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", out.Result.Text)
	assert.Equal(t, 3, model.callCount())
}

func TestChatAgent_SingleAttemptWithoutExecutionConfig(t *testing.T) {
	model := &captureModel{errs: []error{errors.New("boom")}}
	a := NewChatAgent(model)
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "go"})
	require.NoError(t, err)

	_, err = run.Wait()
	var execErr *core.ExecutionError
	require.Error(t, err)
	assert.ErrorAs(t, err, &execErr)
	assert.Equal(t, 1, model.callCount())
}

func TestChatAgent_Cancellation(t *testing.T) {
	model := &blockingModel{started: make(chan struct{})}
	a := NewChatAgent(model)
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "slow"})
	require.NoError(t, err)

	<-model.started
	run.Cancel()

	_, err = run.Wait()
	var cancelledErr *core.CancelledError
	require.Error(t, err)
	assert.ErrorAs(t, err, &cancelledErr)
	assert.False(t, a.IsRunning())
}

func TestChatAgent_NilModel(t *testing.T) {
	a := NewChatAgent(nil)
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "hello"})
	require.NoError(t, err)

	_, err = run.Wait()
	var validationErr *core.ValidationError
	require.Error(t, err)
	assert.ErrorAs(t, err, &validationErr)
}

// -------------------- Memory interaction (mock) --------------------

type MockMemory struct {
	mock.Mock
}

func (m *MockMemory) Add(ctx context.Context, msg backend.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMemory) Messages() []backend.Message {
	args := m.Called()
	return args.Get(0).([]backend.Message)
}

func (m *MockMemory) Reset() error {
	args := m.Called()
	return args.Error(0)
}

func TestChatAgent_StoresExchangeInMemory(t *testing.T) {
	memMock := &MockMemory{}
	memMock.On("Add", mock.Anything, mock.Anything).Return(nil)
	memMock.On("Messages").Return([]backend.Message{backend.UserMessage("hello")})

	model := &captureModel{response: "hi"}
	a := NewChatAgent(model, func(o *ChatAgentOptions) {
		o.Memory = memMock
	})
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "hello"})
	require.NoError(t, err)
	_, err = run.Wait()
	require.NoError(t, err)

	// One Add for the input prompt, one for the assistant answer.
	memMock.AssertNumberOfCalls(t, "Add", 2)
	memMock.AssertCalled(t, "Messages")
}

func TestChatAgent_MemoryAddFailureSurfaces(t *testing.T) {
	memMock := &MockMemory{}
	memMock.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	a := NewChatAgent(&captureModel{response: "hi"}, func(o *ChatAgentOptions) {
		o.Memory = memMock
	})
	defer a.Destroy()

	run, err := a.Run(context.Background(), RunInput{Prompt: "hello"})
	require.NoError(t, err)

	_, err = run.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
