package qa

import (
	"fmt"
	"strings"
)

// reviewCriteria are the ten axes the self-review scores against.
var reviewCriteria = []string{
	"accuracy of facts",
	"depth of coverage",
	"logical structure",
	"readability",
	"audience fit",
	"tone consistency",
	"originality",
	"actionable takeaways",
	"completeness",
	"title and hook strength",
}

// BuildReviewPrompt asks the generating provider to critique its own
// draft and reply with strict JSON.
func BuildReviewPrompt(content string) string {
	var sb strings.Builder

	sb.WriteString("You are a strict editorial reviewer. Evaluate the blog post below.\n")
	sb.WriteString("Score it 0-10 overall, considering these criteria:\n")
	for _, c := range reviewCriteria {
		sb.WriteString(fmt.Sprintf("- %s\n", c))
	}
	sb.WriteString("\nScore bands: 8-10 approve, 5-7 improve, 1-4 regenerate.\n")
	sb.WriteString("Return ONLY JSON:\n")
	sb.WriteString(`{"score":0-10,"strengths":["..."],"weaknesses":["..."],"improvements":["..."],"overall":"...","recommendation":"approve|improve|regenerate"}`)
	sb.WriteString("\n\nPost:\n---\n")
	sb.WriteString(content)
	sb.WriteString("\n---\n")

	return sb.String()
}

// BuildImprovePrompt embeds the draft and the review findings and asks
// for a revision that keeps what worked.
func BuildImprovePrompt(content string, review Review) string {
	var sb strings.Builder

	sb.WriteString("Revise the blog post below. Keep its strengths intact and fix the listed issues.\n\n")

	if len(review.Strengths) > 0 {
		sb.WriteString("Strengths to preserve:\n")
		for _, s := range review.Strengths {
			sb.WriteString(fmt.Sprintf("- %s\n", s))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Issues found:\n")
	for _, w := range review.Weaknesses {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}
	if len(review.Improvements) > 0 {
		sb.WriteString("\nConcrete improvements:\n")
		for _, imp := range review.Improvements {
			sb.WriteString(fmt.Sprintf("- %s\n", imp))
		}
	}

	sb.WriteString("\nPost:\n---\n")
	sb.WriteString(content)
	sb.WriteString("\n---\n")
	sb.WriteString("\nReturn the full revised post only.\n")

	return sb.String()
}

// BuildRegeneratePrompt reissues the original generation prompt with
// an instruction to avoid the reviewed draft's weaknesses.
func BuildRegeneratePrompt(generationPrompt string, review Review) string {
	var sb strings.Builder

	sb.WriteString(generationPrompt)
	sb.WriteString("\n\nA previous draft was rejected. Avoid these problems:\n")
	for _, w := range review.Weaknesses {
		sb.WriteString(fmt.Sprintf("- %s\n", w))
	}

	return sb.String()
}
