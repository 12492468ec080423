package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicAdapter invokes Claude models.
type AnthropicAdapter struct {
	client anthropic.Client
	desc   Descriptor
}

// NewAnthropicAdapter creates an Anthropic adapter.
func NewAnthropicAdapter(apiKey string) (*AnthropicAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	desc, err := Lookup(Anthropic)
	if err != nil {
		return nil, err
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicAdapter{client: client, desc: desc}, nil
}

// ID returns the provider identity.
func (a *AnthropicAdapter) ID() ID {
	return Anthropic
}

// Generate sends a prompt to Claude and returns the response text.
func (a *AnthropicAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.desc.Model),
		MaxTokens:   int64(a.desc.MaxTokens),
		Temperature: anthropic.Float(a.desc.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}
