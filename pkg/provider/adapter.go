package provider

import "context"

// Adapter is the invocation surface for one provider. Implementations
// issue exactly one upstream call per Generate; retry and fallback
// policy live above the adapter.
type Adapter interface {
	// Generate sends a prompt and returns the extracted text.
	Generate(ctx context.Context, prompt string) (string, error)

	// ID returns the provider identity the adapter serves.
	ID() ID
}
