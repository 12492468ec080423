package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanbit-labs/postgate/pkg/request"
)

func TestBuildPostIncludesTopic(t *testing.T) {
	got := BuildPost(request.Context{
		Topic:    "주식 투자 입문",
		Audience: request.AudienceBeginner,
		Tone:     request.ToneFriendly,
	})

	assert.Contains(t, got, "주식 투자 입문")
	assert.Contains(t, got, audienceDirectives[request.AudienceBeginner])
	assert.Contains(t, got, toneDirectives[request.ToneFriendly])
}

func TestBuildPostUnknownEnums(t *testing.T) {
	got := BuildPost(request.Context{Topic: "커피"})

	assert.Contains(t, got, "커피")
	for _, d := range audienceDirectives {
		assert.NotContains(t, got, d)
	}
}
