package qa

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hanbit-labs/postgate/pkg/provider"
)

// Recommendation is the reviewer's verdict.
type Recommendation string

const (
	RecommendApprove    Recommendation = "approve"
	RecommendImprove    Recommendation = "improve"
	RecommendRegenerate Recommendation = "regenerate"
)

// Review is the structured self-review of a generated draft.
type Review struct {
	Score          float64        `json:"score"`
	Strengths      []string       `json:"strengths"`
	Weaknesses     []string       `json:"weaknesses"`
	Improvements   []string       `json:"improvements"`
	Overall        string         `json:"overall"`
	Recommendation Recommendation `json:"recommendation"`
}

// DefaultReview is the conservative substitute used when a review
// reply cannot be parsed: a middling score and a revision pass.
func DefaultReview() Review {
	return Review{
		Score:          6.0,
		Overall:        "review reply was not parseable; applying a conservative revision pass",
		Recommendation: RecommendImprove,
	}
}

// ParseReview extracts a Review from a model reply. The reply is
// untrusted free text: markdown fences are stripped and the outermost
// JSON object is extracted before decoding. Any shape problem returns
// a review_parse_failure; callers substitute DefaultReview.
func ParseReview(reply string) (Review, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return Review{}, parseFailure(err)
	}

	var rev Review
	if err := json.Unmarshal([]byte(raw), &rev); err != nil {
		return Review{}, parseFailure(err)
	}

	if rev.Score < 0 || rev.Score > 10 {
		return Review{}, parseFailure(fmt.Errorf("score %.1f out of range", rev.Score))
	}
	switch rev.Recommendation {
	case RecommendApprove, RecommendImprove, RecommendRegenerate:
	default:
		return Review{}, parseFailure(fmt.Errorf("unknown recommendation %q", rev.Recommendation))
	}

	return rev, nil
}

func parseFailure(err error) error {
	return &provider.Error{Kind: provider.KindReviewParse, Err: err}
}

// extractJSON strips code fences and hunts for the outermost object.
func extractJSON(reply string) (string, error) {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in reply")
	}
	return s[start : end+1], nil
}
