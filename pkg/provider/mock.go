package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockAdapter returns deterministic responses for local runs and
// tests. Outcomes can be scripted per call: each Generate consumes the
// next entry from the script; once the script is exhausted the default
// response is returned.
type MockAdapter struct {
	mu              sync.Mutex
	id              ID
	responses       map[string]string
	defaultResponse string
	script          []MockOutcome
	calls           []string
}

// MockOutcome is one scripted Generate result.
type MockOutcome struct {
	Content string
	Err     error
}

// NewMockAdapter creates a mock adapter for the given identity.
func NewMockAdapter(id ID) *MockAdapter {
	return &MockAdapter{
		id:              id,
		responses:       make(map[string]string),
		defaultResponse: "mock response:",
	}
}

// Respond registers a fixed response for an exact prompt.
func (a *MockAdapter) Respond(prompt, response string) *MockAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[prompt] = response
	return a
}

// Script appends outcomes consumed one per Generate call, before the
// prompt table is consulted.
func (a *MockAdapter) Script(outcomes ...MockOutcome) *MockAdapter {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.script = append(a.script, outcomes...)
	return a
}

// Calls returns the prompts seen so far, in order.
func (a *MockAdapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.calls))
	copy(out, a.calls)
	return out
}

// ID returns the provider identity the mock stands in for.
func (a *MockAdapter) ID() ID {
	return a.id
}

// Generate returns the next scripted outcome, a registered response,
// or the default.
func (a *MockAdapter) Generate(_ context.Context, prompt string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, prompt)

	if len(a.script) > 0 {
		next := a.script[0]
		a.script = a.script[1:]
		return next.Content, next.Err
	}
	if response, ok := a.responses[prompt]; ok {
		return response, nil
	}
	return fmt.Sprintf("%s\n%s", a.defaultResponse, prompt), nil
}
