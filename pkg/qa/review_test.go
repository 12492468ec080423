package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-labs/postgate/pkg/provider"
)

func TestParseReviewPlainJSON(t *testing.T) {
	reply := `{"score":8.5,"strengths":["명확한 구조"],"weaknesses":["근거 부족"],"improvements":["통계 추가"],"overall":"전반적으로 좋음","recommendation":"approve"}`

	rev, err := ParseReview(reply)

	require.NoError(t, err)
	assert.Equal(t, 8.5, rev.Score)
	assert.Equal(t, RecommendApprove, rev.Recommendation)
	assert.Equal(t, []string{"근거 부족"}, rev.Weaknesses)
}

func TestParseReviewFencedJSON(t *testing.T) {
	reply := "```json\n{\"score\":6.0,\"recommendation\":\"improve\"}\n```"

	rev, err := ParseReview(reply)

	require.NoError(t, err)
	assert.Equal(t, RecommendImprove, rev.Recommendation)
}

func TestParseReviewExtractsEmbeddedObject(t *testing.T) {
	reply := "Here is my assessment:\n{\"score\":3.0,\"recommendation\":\"regenerate\"}\nHope this helps!"

	rev, err := ParseReview(reply)

	require.NoError(t, err)
	assert.Equal(t, RecommendRegenerate, rev.Recommendation)
}

func TestParseReviewFailures(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "I think the post is quite good overall."},
		{"malformed json", `{"score": "high", "recommendation": }`},
		{"score out of range", `{"score":11,"recommendation":"approve"}`},
		{"unknown recommendation", `{"score":7,"recommendation":"maybe"}`},
		{"empty reply", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReview(tt.reply)
			require.Error(t, err)
			assert.Equal(t, provider.KindReviewParse, provider.KindOf(err))
		})
	}
}

func TestDefaultReview(t *testing.T) {
	rev := DefaultReview()

	assert.Equal(t, 6.0, rev.Score)
	assert.Equal(t, RecommendImprove, rev.Recommendation)
}

func TestBuildReviewPrompt(t *testing.T) {
	p := BuildReviewPrompt("본문 내용")

	assert.Contains(t, p, "ONLY JSON")
	assert.Contains(t, p, "본문 내용")
	assert.Contains(t, p, "8-10 approve")
}

func TestBuildImprovePrompt(t *testing.T) {
	rev := Review{
		Strengths:    []string{"좋은 도입부"},
		Weaknesses:   []string{"결론이 약함"},
		Improvements: []string{"요약 추가"},
	}

	p := BuildImprovePrompt("원본 글", rev)

	assert.Contains(t, p, "원본 글")
	assert.Contains(t, p, "좋은 도입부")
	assert.Contains(t, p, "결론이 약함")
	assert.Contains(t, p, "요약 추가")
}

func TestBuildRegeneratePromptKeepsOriginalPrompt(t *testing.T) {
	rev := Review{Weaknesses: []string{"주제 이탈"}}

	p := BuildRegeneratePrompt("원래 생성 프롬프트", rev)

	assert.True(t, len(p) > len("원래 생성 프롬프트"))
	assert.Contains(t, p, "원래 생성 프롬프트")
	assert.Contains(t, p, "주제 이탈")
}
