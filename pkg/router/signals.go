package router

import (
	"github.com/hanbit-labs/postgate/pkg/provider"
	"github.com/hanbit-labs/postgate/pkg/request"
)

// Scoring weights. The score is additive and uncalibrated: confidence
// is reported as min(score, 100) without normalizing against the
// maximum reachable score.
const (
	audienceWeight  = 40
	keywordWeight   = 8
	expertiseWeight = 10
)

// toneBonuses maps a requested tone to per-provider bonuses. The
// table, not call sites, decides which brands benefit from a tone.
var toneBonuses = map[request.Tone]map[provider.ID]int{
	request.ToneProfessional: {
		provider.Anthropic: 15,
		provider.DeepSeek:  8,
	},
	request.ToneSerious: {
		provider.Anthropic: 15,
	},
	request.ToneFriendly: {
		provider.OpenAI: 15,
		provider.Google: 5,
	},
	request.ToneHumorous: {
		provider.Google: 15,
	},
}

// signal adds weight to providers when its vocabulary appears in the
// topic. Trend vocabulary favors the trend-branded provider.
type signal struct {
	name    string
	vocab   []string
	bonuses map[provider.ID]int
}

var topicSignals = []signal{
	{
		name: "trend",
		vocab: []string{
			"트렌드", "유행", "바이럴", "viral", "밈", "챌린지",
			"sns", "소셜", "social media", "인스타", "틱톡", "유튜브",
		},
		bonuses: map[provider.ID]int{provider.Google: 12},
	},
	{
		name: "technical",
		vocab: []string{
			"코드", "개발", "프로그래밍", "구현", "알고리즘", "code", "programming",
		},
		bonuses: map[provider.ID]int{provider.DeepSeek: 10, provider.Anthropic: 4},
	},
}
