package driven

import (
	"context"
)

// ChatModel generates answers from a system prompt and a user question
type ChatModel interface {
	// Complete sends a two-message conversation (system then user)
	// and returns the text of the first completion choice.
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the chat service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the chat service
	Close() error
}
