package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleAdapter invokes Gemini models.
type GoogleAdapter struct {
	client *genai.Client
	desc   Descriptor
}

// NewGoogleAdapter creates a Google Gemini adapter.
func NewGoogleAdapter(apiKey string) (*GoogleAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is required")
	}

	desc, err := Lookup(Google)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleAdapter{client: client, desc: desc}, nil
}

// ID returns the provider identity.
func (a *GoogleAdapter) ID() ID {
	return Google
}

// Generate sends a prompt to Gemini and returns the response text.
func (a *GoogleAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	temp := float32(a.desc.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(a.desc.MaxTokens),
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.desc.Model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	return content, nil
}
