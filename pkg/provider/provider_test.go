package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAliases(t *testing.T) {
	tests := []struct {
		name string
		want ID
	}{
		{"anthropic", Anthropic},
		{"claude", Anthropic},
		{"Claude", Anthropic},
		{"openai", OpenAI},
		{"gpt", OpenAI},
		{"chatgpt", OpenAI},
		{"gemini", Google},
		{"google", Google},
		{"deepseek", DeepSeek},
		{" GEMINI ", Google},
	}

	for _, tt := range tests {
		id, err := Parse(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, id)
	}
}

func TestParseUnknownProvider(t *testing.T) {
	_, err := Parse("grok")

	require.Error(t, err)
	assert.Equal(t, KindInvalidProvider, KindOf(err))
}

func TestLookupEveryIdentity(t *testing.T) {
	for _, id := range All() {
		desc, err := Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, id, desc.ID)
		assert.NotEmpty(t, desc.Model)
		assert.Equal(t, 3, desc.MaxAttempts)
		assert.Positive(t, desc.Timeout)
	}
}

func TestLookupUnknownIdentity(t *testing.T) {
	_, err := Lookup(ID("mystery"))

	require.Error(t, err)
	assert.Equal(t, KindInvalidProvider, KindOf(err))
}

func TestDescriptorsPriorityOrder(t *testing.T) {
	descs := Descriptors()

	require.Len(t, descs, len(All()))
	for i, id := range All() {
		assert.Equal(t, id, descs[i].ID)
	}
}
