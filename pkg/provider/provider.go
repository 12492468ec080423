package provider

import (
	"fmt"
	"strings"
	"time"
)

// ID identifies one configured text-generation provider.
// The set of identities is closed; routing and fallback never
// dispatch on free-form strings.
type ID string

const (
	Anthropic ID = "anthropic"
	OpenAI    ID = "openai"
	Google    ID = "google"
	DeepSeek  ID = "deepseek"
)

// Default is the provider used when every other candidate is
// unavailable. It is the most reliable endpoint in practice.
const Default = OpenAI

// All returns every provider identity in fixed priority order.
// The order doubles as the fallback chain and the tie-break rule.
func All() []ID {
	return []ID{Anthropic, OpenAI, Google, DeepSeek}
}

// aliases maps user-facing provider names to canonical identities.
var aliases = map[string]ID{
	"anthropic": Anthropic,
	"claude":    Anthropic,
	"openai":    OpenAI,
	"gpt":       OpenAI,
	"chatgpt":   OpenAI,
	"google":    Google,
	"gemini":    Google,
	"deepseek":  DeepSeek,
}

// Parse resolves a provider name or alias to its identity.
func Parse(name string) (ID, error) {
	id, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", &Error{Kind: KindInvalidProvider, Provider: ID(name), Err: fmt.Errorf("unknown provider %q", name)}
	}
	return id, nil
}

// Descriptor holds the immutable expert profile and invocation
// contract for one provider. Descriptors are defined at process start
// and never mutated.
type Descriptor struct {
	ID          ID
	DisplayName string

	// Expert profile, used only by routing.
	Audiences     []string
	TopicKeywords []string
	Expertise     []string
	Strengths     []string

	// Invocation contract.
	Model       string
	MaxTokens   int
	Temperature float64

	// Resource limits.
	MaxAttempts int
	Timeout     time.Duration
}

// registry is the static descriptor table. Expert metadata mixes
// Korean and English keywords because the inbound topics do.
var registry = map[ID]Descriptor{
	Anthropic: {
		ID:          Anthropic,
		DisplayName: "Claude",
		Audiences:   []string{"expert", "professional", "intermediate"},
		TopicKeywords: []string{
			"투자", "전략", "분석", "경제", "금융", "비즈니스", "기술", "ai",
			"연구", "정책", "리포트", "보고서", "strategy", "analysis", "research",
		},
		Expertise: []string{"심층 분석", "전문 칼럼", "기술 문서", "시장 분석"},
		Strengths: []string{"analytical", "long-form", "structured"},

		Model:       "claude-sonnet-4-20250514",
		MaxTokens:   4096,
		Temperature: 0.7,

		MaxAttempts: 3,
		Timeout:     45 * time.Second,
	},
	OpenAI: {
		ID:          OpenAI,
		DisplayName: "GPT",
		Audiences:   []string{"general", "beginner"},
		TopicKeywords: []string{
			"가이드", "방법", "입문", "튜토리얼", "설명", "정리", "추천", "후기",
			"생활", "guide", "tips", "howto",
		},
		Expertise: []string{"친절한 설명", "교육 콘텐츠", "생활 정보"},
		Strengths: []string{"conversational", "education", "reliable"},

		Model:       "gpt-4o",
		MaxTokens:   4096,
		Temperature: 0.8,

		MaxAttempts: 3,
		Timeout:     30 * time.Second,
	},
	Google: {
		ID:          Google,
		DisplayName: "Gemini",
		Audiences:   []string{"general", "intermediate"},
		TopicKeywords: []string{
			"트렌드", "유행", "바이럴", "밈", "화제", "인기", "챌린지", "sns",
			"소셜", "유튜브", "인스타", "틱톡", "trend", "viral",
		},
		Expertise: []string{"트렌드 분석", "소셜 미디어", "밈 문화"},
		Strengths: []string{"trend", "viral", "social-media"},

		Model:       "gemini-2.0-flash",
		MaxTokens:   4096,
		Temperature: 0.9,

		MaxAttempts: 3,
		Timeout:     25 * time.Second,
	},
	DeepSeek: {
		ID:          DeepSeek,
		DisplayName: "DeepSeek",
		Audiences:   []string{"intermediate", "expert"},
		TopicKeywords: []string{
			"코드", "개발", "프로그래밍", "구현", "알고리즘", "오픈소스",
			"code", "developer", "programming",
		},
		Expertise: []string{"기술 튜토리얼", "코드 예제"},
		Strengths: []string{"technical", "code", "budget"},

		Model:       "deepseek-chat",
		MaxTokens:   4096,
		Temperature: 0.7,

		MaxAttempts: 3,
		Timeout:     40 * time.Second,
	},
}

// Lookup returns the descriptor for an identity.
func Lookup(id ID) (Descriptor, error) {
	d, ok := registry[id]
	if !ok {
		return Descriptor{}, &Error{Kind: KindInvalidProvider, Provider: id, Err: fmt.Errorf("no descriptor for provider %q", id)}
	}
	return d, nil
}

// Descriptors returns every descriptor in priority order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, id := range All() {
		out = append(out, registry[id])
	}
	return out
}
