package mocks

import (
	"context"
	"sync"
)

// MockChatModel records prompts and returns a canned reply
type MockChatModel struct {
	mu sync.Mutex

	Reply string
	Err   error

	// PingErr is returned by Ping
	PingErr error

	LastSystemPrompt string
	LastUserMessage  string
	CallCount        int
}

// NewMockChatModel creates a chat model that answers with reply
func NewMockChatModel(reply string) *MockChatModel {
	return &MockChatModel{Reply: reply}
}

func (m *MockChatModel) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	m.LastSystemPrompt = systemPrompt
	m.LastUserMessage = userMessage
	if m.Err != nil {
		return "", m.Err
	}
	return m.Reply, nil
}

func (m *MockChatModel) Model() string {
	return "mock-chat-model"
}

func (m *MockChatModel) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockChatModel) Close() error {
	return nil
}
