package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIAdapter invokes GPT models.
type OpenAIAdapter struct {
	client openai.Client
	desc   Descriptor
}

// NewOpenAIAdapter creates an OpenAI adapter.
func NewOpenAIAdapter(apiKey string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	desc, err := Lookup(OpenAI)
	if err != nil {
		return nil, err
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIAdapter{client: client, desc: desc}, nil
}

// ID returns the provider identity.
func (a *OpenAIAdapter) ID() ID {
	return OpenAI
}

// Generate sends a prompt to OpenAI and returns the response text.
func (a *OpenAIAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.desc.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(a.desc.MaxTokens)),
		Temperature:         openai.Float(a.desc.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
