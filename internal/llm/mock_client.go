package llm

import (
	"context"
	"sync"
)

// MockClient implements Client for testing.
type MockClient struct {
	// Injectable behavior
	ChatFunc func(ctx context.Context, messages []Message, systemPrompt string) (*Response, error)

	// State
	model string
	mu    sync.Mutex

	// Call recording
	ChatCalls []ChatCall
}

// ChatCall records the arguments of a Chat invocation.
type ChatCall struct {
	Messages     []Message
	SystemPrompt string
}

// NewMockClient creates a mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		model: "mock-model",
	}
}

// Chat calls the injected ChatFunc or returns a default response.
func (m *MockClient) Chat(ctx context.Context, messages []Message, systemPrompt string) (*Response, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, ChatCall{
		Messages:     messages,
		SystemPrompt: systemPrompt,
	})
	chatFunc := m.ChatFunc
	m.mu.Unlock()

	if chatFunc != nil {
		return chatFunc(ctx, messages, systemPrompt)
	}
	return &Response{
		Content:    "mock response",
		StopReason: "stop",
		Model:      m.GetModel(),
	}, nil
}

// Calls returns a copy of the recorded Chat calls.
func (m *MockClient) Calls() []ChatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ChatCall(nil), m.ChatCalls...)
}

// LastCall returns the most recent Chat call and whether there was one.
func (m *MockClient) LastCall() (ChatCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ChatCalls) == 0 {
		return ChatCall{}, false
	}
	return m.ChatCalls[len(m.ChatCalls)-1], true
}

// SetModel sets the model name.
func (m *MockClient) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.model = model
}

// GetModel returns the current model name.
func (m *MockClient) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}
