// Package router selects the provider whose expert profile best fits
// a content request. Selection is a pure function over the request and
// a snapshot of breaker state: same inputs, same pick.
package router

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/hanbit-labs/postgate/pkg/breaker"
	"github.com/hanbit-labs/postgate/pkg/provider"
	"github.com/hanbit-labs/postgate/pkg/request"
)

// Selection is the outcome of one routing decision.
type Selection struct {
	Provider   provider.ID `json:"provider"`
	Score      int         `json:"score"`
	Confidence int         `json:"confidence"`
	Reasoning  string      `json:"reasoning"`

	// Forced is set when every provider was circuit-blocked and the
	// default was chosen regardless of score.
	Forced bool `json:"forced,omitempty"`
}

// Expert scores providers against a request's declared topic,
// audience, and tone.
type Expert struct {
	breaker *breaker.Breaker
}

// New creates a router consulting the given breaker for availability.
func New(b *breaker.Breaker) *Expert {
	return &Expert{breaker: b}
}

// Select ranks the available providers and returns the best fit. It
// never fails: when every provider is blocked it falls back to the
// designated default with a reasoning string noting the forced pick.
func (e *Expert) Select(req request.Context) Selection {
	available := lo.Filter(provider.All(), func(id provider.ID, _ int) bool {
		return !e.breaker.IsBlocked(id)
	})

	if len(available) == 0 {
		return Selection{
			Provider:  provider.Default,
			Forced:    true,
			Reasoning: fmt.Sprintf("all providers are temporarily unavailable; forcing the default provider %s", provider.Default),
		}
	}

	best := Selection{Provider: available[0], Score: -1}
	for _, id := range available {
		desc, err := provider.Lookup(id)
		if err != nil {
			continue
		}
		score, reasons := scoreProvider(desc, req)
		// Strict greater-than keeps the fixed priority order as the
		// tie-break.
		if score > best.Score {
			best = Selection{
				Provider:  id,
				Score:     score,
				Reasoning: formatReasoning(desc, score, reasons),
			}
		}
	}

	best.Confidence = min(best.Score, 100)
	return best
}

// scoreProvider computes the additive score of one descriptor against
// the request and collects human-readable match reasons.
func scoreProvider(desc provider.Descriptor, req request.Context) (int, []string) {
	score := 0
	var reasons []string
	topic := strings.ToLower(req.Topic)

	if lo.Contains(desc.Audiences, string(req.Audience)) {
		score += audienceWeight
		reasons = append(reasons, fmt.Sprintf("audience match: %s (+%d)", req.Audience, audienceWeight))
	}

	var matched []string
	for _, kw := range desc.TopicKeywords {
		if strings.Contains(topic, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	if len(matched) > 0 {
		score += keywordWeight * len(matched)
		reasons = append(reasons, fmt.Sprintf("topic keywords: %s (+%d)", strings.Join(matched, ", "), keywordWeight*len(matched)))
	}

	if bonus, ok := toneBonuses[req.Tone][desc.ID]; ok {
		score += bonus
		reasons = append(reasons, fmt.Sprintf("tone fit: %s (+%d)", req.Tone, bonus))
	}

	for _, area := range desc.Expertise {
		if strings.Contains(topic, strings.ToLower(area)) {
			score += expertiseWeight
			reasons = append(reasons, fmt.Sprintf("expertise: %s (+%d)", area, expertiseWeight))
			break
		}
	}

	for _, sig := range topicSignals {
		bonus, ok := sig.bonuses[desc.ID]
		if !ok {
			continue
		}
		for _, word := range sig.vocab {
			if strings.Contains(topic, strings.ToLower(word)) {
				score += bonus
				reasons = append(reasons, fmt.Sprintf("%s signal: %s (+%d)", sig.name, word, bonus))
				break
			}
		}
	}

	return score, reasons
}

func formatReasoning(desc provider.Descriptor, score int, reasons []string) string {
	if len(reasons) == 0 {
		return fmt.Sprintf("%s selected by priority order (no profile signals matched)", desc.DisplayName)
	}
	return fmt.Sprintf("%s scored %d: %s", desc.DisplayName, score, strings.Join(reasons, "; "))
}
