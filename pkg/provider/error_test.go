package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{429, KindRateLimited},
		{401, KindInvalidCredentials},
		{403, KindInvalidCredentials},
		{500, KindNetwork},
		{503, KindNetwork},
		{400, KindNetwork},
	}

	for _, tt := range tests {
		err := Classify(OpenAI, &StatusError{Status: tt.status})
		require.NotNil(t, err)
		assert.Equal(t, tt.want, err.Kind, "status %d", tt.status)
		assert.Equal(t, tt.status, err.Status)
	}
}

func TestClassifyTimeouts(t *testing.T) {
	err := Classify(Anthropic, context.DeadlineExceeded)
	assert.Equal(t, KindTimeout, err.Kind)

	wrapped := Classify(Anthropic, fmt.Errorf("call failed: %w", context.DeadlineExceeded))
	assert.Equal(t, KindTimeout, wrapped.Kind)
}

func TestClassifyTransportFailure(t *testing.T) {
	err := Classify(Google, errors.New("connection refused"))
	assert.Equal(t, KindNetwork, err.Kind)
}

func TestClassifyPassesThroughClassifiedErrors(t *testing.T) {
	original := &Error{Kind: KindEmptyResponse, Provider: DeepSeek}

	err := Classify(DeepSeek, fmt.Errorf("wrapped: %w", original))

	assert.Same(t, original, err)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(OpenAI, nil))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(KindTimeout))
	assert.True(t, Retryable(KindNetwork))
	assert.True(t, Retryable(KindEmptyResponse))

	assert.False(t, Retryable(KindRateLimited))
	assert.False(t, Retryable(KindInvalidCredentials))
	assert.False(t, Retryable(KindInvalidProvider))
	assert.False(t, Retryable(KindExhausted))
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", &Error{Kind: KindRateLimited, Provider: OpenAI})
	assert.Equal(t, KindRateLimited, KindOf(err))

	assert.Empty(t, KindOf(errors.New("plain")))
	assert.Empty(t, KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindRateLimited, Provider: OpenAI, Status: 429, Err: errors.New("too many requests")}

	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "rate_limited")
	assert.ErrorContains(t, err, "too many requests")
}
