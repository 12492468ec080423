// Package request defines the inbound content request passed through
// the routing and fallback pipeline. A Context is created once per
// call and read-only afterwards.
package request

import (
	"fmt"
	"strings"

	"github.com/hanbit-labs/postgate/pkg/provider"
)

// Audience identifies the target readership.
type Audience string

const (
	AudienceGeneral      Audience = "general"
	AudienceBeginner     Audience = "beginner"
	AudienceIntermediate Audience = "intermediate"
	AudienceExpert       Audience = "expert"
	AudienceProfessional Audience = "professional"
)

// Tone identifies the requested writing voice.
type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneHumorous     Tone = "humorous"
	ToneSerious      Tone = "serious"
)

// Context is one content request. Fields are set once by the caller
// and never mutated downstream.
type Context struct {
	Topic    string
	Audience Audience
	Tone     Tone

	// Override pins the first candidate provider when set.
	Override provider.ID
}

// The product's inputs arrive in Korean as often as English; both
// surface forms resolve to the same enum values.
var audienceNames = map[string]Audience{
	"general":      AudienceGeneral,
	"일반":           AudienceGeneral,
	"일반인":          AudienceGeneral,
	"beginner":     AudienceBeginner,
	"초보":           AudienceBeginner,
	"초보자":          AudienceBeginner,
	"입문자":          AudienceBeginner,
	"intermediate": AudienceIntermediate,
	"중급":           AudienceIntermediate,
	"중급자":          AudienceIntermediate,
	"expert":       AudienceExpert,
	"전문가":          AudienceExpert,
	"professional": AudienceProfessional,
	"직장인":          AudienceProfessional,
	"실무자":          AudienceProfessional,
}

var toneNames = map[string]Tone{
	"friendly":     ToneFriendly,
	"친근한":          ToneFriendly,
	"친근":           ToneFriendly,
	"professional": ToneProfessional,
	"전문적":          ToneProfessional,
	"전문적인":         ToneProfessional,
	"humorous":     ToneHumorous,
	"유머러스":         ToneHumorous,
	"유머":           ToneHumorous,
	"serious":      ToneSerious,
	"진지한":          ToneSerious,
	"진지":           ToneSerious,
}

// ParseAudience resolves an audience name in either language.
func ParseAudience(name string) (Audience, error) {
	a, ok := audienceNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown audience %q", name)
	}
	return a, nil
}

// ParseTone resolves a tone name in either language.
func ParseTone(name string) (Tone, error) {
	t, ok := toneNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown tone %q", name)
	}
	return t, nil
}
