package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Ensure OpenAIChat implements ChatModel
var _ driven.ChatModel = (*OpenAIChat)(nil)

// Default chat configuration values.
const (
	DefaultOpenAIChatModel    = "gpt-4-turbo-preview"
	DefaultAnthropicChatModel = "claude-3-5-sonnet-latest"
	DefaultChatTimeout        = 120 * time.Second
	DefaultMaxTokens          = 1024
)

// ChatConfig holds configuration shared by the chat model adapters.
type ChatConfig struct {
	// APIKey is the provider API key (required).
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Model is the chat model name.
	Model string

	// MaxTokens caps the reply length. OpenAI leaves it unset when zero.
	MaxTokens int

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// OpenAIChat implements ChatModel with the chat completions API
type OpenAIChat struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIChat creates a new OpenAI chat model
func NewOpenAIChat(cfg ChatConfig) (*OpenAIChat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key", domain.ErrConfigurationMissing)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIChatModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultChatTimeout
	}

	return &OpenAIChat{
		client:    newOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Timeout),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Complete returns the first choice for a system + user conversation
func (c *OpenAIChat) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the model name being used
func (c *OpenAIChat) Model() string {
	return c.model
}

// Ping checks the configured model is visible to the API key
func (c *OpenAIChat) Ping(ctx context.Context) error {
	if _, err := c.client.GetModel(ctx, c.model); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

// Close releases resources held by the chat model
func (c *OpenAIChat) Close() error {
	return nil
}
