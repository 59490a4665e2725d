package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Ensure AnthropicChat implements ChatModel
var _ driven.ChatModel = (*AnthropicChat)(nil)

// AnthropicChat implements ChatModel with the Messages API.
// SDK retries are disabled so that a failed call fails the request.
type AnthropicChat struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicChat creates a new Anthropic chat model
func NewAnthropicChat(cfg ChatConfig) (*AnthropicChat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key", domain.ErrConfigurationMissing)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicChatModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultChatTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicChat{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

// Complete sends the system prompt and question, returning the joined text blocks
func (c *AnthropicChat) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletion, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", domain.ErrCompletion)
	}
	return b.String(), nil
}

// Model returns the model name being used
func (c *AnthropicChat) Model() string {
	return c.model
}

// Ping checks the configured model is visible to the API key
func (c *AnthropicChat) Ping(ctx context.Context) error {
	if _, err := c.client.Models.Get(ctx, c.model, anthropic.ModelGetParams{}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

// Close releases resources held by the chat model
func (c *AnthropicChat) Close() error {
	return nil
}
