// Package prompt builds the content-generation payloads sent to
// providers. The wording is deliberately opaque to the orchestration
// core, which treats prompts as plain strings.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hanbit-labs/postgate/pkg/request"
)

var audienceDirectives = map[request.Audience]string{
	request.AudienceGeneral:      "일반 독자가 이해할 수 있게 써주세요.",
	request.AudienceBeginner:     "입문자를 위해 기초 개념부터 설명해주세요.",
	request.AudienceIntermediate: "기본 개념은 알고 있는 중급 독자를 대상으로 해주세요.",
	request.AudienceExpert:       "전문가 수준의 깊이와 근거를 담아주세요.",
	request.AudienceProfessional: "실무에 바로 적용할 수 있는 내용으로 써주세요.",
}

var toneDirectives = map[request.Tone]string{
	request.ToneFriendly:     "친근하고 대화하듯 편안한 말투로 써주세요.",
	request.ToneProfessional: "전문적이고 신뢰감 있는 문체로 써주세요.",
	request.ToneHumorous:     "가볍고 유머러스한 문체로 써주세요.",
	request.ToneSerious:      "진지하고 차분한 문체로 써주세요.",
}

// BuildPost returns the blog-post generation prompt for a request.
func BuildPost(req request.Context) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("다음 주제로 블로그 글을 작성해주세요: %s\n\n", req.Topic))
	if d, ok := audienceDirectives[req.Audience]; ok {
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	if d, ok := toneDirectives[req.Tone]; ok {
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	sb.WriteString("\n제목, 소제목, 본문, 마무리를 갖춘 완성된 글로 작성해주세요.\n")

	return sb.String()
}
