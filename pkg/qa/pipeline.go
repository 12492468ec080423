// Package qa runs the closed-loop quality pipeline: generate a draft,
// have the same provider review it, then approve, improve, or
// regenerate based on the verdict. At most one revision pass runs; the
// loop never cycles.
package qa

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanbit-labs/postgate/pkg/orchestrator"
	"github.com/hanbit-labs/postgate/pkg/provider"
	"github.com/hanbit-labs/postgate/pkg/request"
)

// improveBonus is the estimated score gain of a revision pass.
const improveBonus = 1.5

// Stage names for processing steps.
const (
	StageGenerating   = "generating"
	StageReviewing    = "reviewing"
	StageImproving    = "improving"
	StageRegenerating = "regenerating"
	StageApproved     = "approved"
)

// Step is one entry of the pipeline's processing log.
type Step struct {
	Stage    string        `json:"stage"`
	Provider provider.ID   `json:"provider,omitempty"`
	Detail   string        `json:"detail,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Metrics summarizes the quality outcome of one run.
type Metrics struct {
	OriginalScore      float64 `json:"original_score"`
	ImprovedScore      float64 `json:"improved_score"`
	ImprovementPercent float64 `json:"improvement_percentage"`
}

// Result is the full outcome of one pipeline run.
type Result struct {
	RunID           string                       `json:"run_id"`
	OriginalContent string                       `json:"original_content"`
	ImprovedContent string                       `json:"improved_content,omitempty"`
	FinalContent    string                       `json:"final_content"`
	Review          Review                       `json:"review"`
	Metrics         Metrics                      `json:"quality_metrics"`
	Steps           []Step                       `json:"processing_steps"`
	UsedProvider    provider.ID                  `json:"used_provider"`
	Attempts        []orchestrator.AttemptRecord `json:"attempt_log"`
}

// Pipeline drives the generate-review-revise cycle on top of the
// fallback orchestrator.
type Pipeline struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

// New creates a pipeline.
func New(orch *orchestrator.Orchestrator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{orch: orch, logger: logger}
}

// Run executes the pipeline. A failure during generation fails the
// whole run; review and revision failures degrade to the last good
// content instead of discarding it.
func (p *Pipeline) Run(ctx context.Context, req request.Context, generationPrompt string) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}

	// Generating.
	start := time.Now()
	gen, err := p.orch.Generate(ctx, req, generationPrompt)
	if err != nil {
		return nil, err
	}
	res.OriginalContent = gen.Content
	res.FinalContent = gen.Content
	res.UsedProvider = gen.UsedProvider
	res.Attempts = append(res.Attempts, gen.Attempts...)
	res.Steps = append(res.Steps, Step{
		Stage:    StageGenerating,
		Provider: gen.UsedProvider,
		Detail:   gen.Selection.Reasoning,
		Elapsed:  time.Since(start),
	})

	// Reviewing, pinned to the provider that wrote the draft.
	review, reviewed := p.review(ctx, req, gen, res)
	res.Review = review
	res.Metrics.OriginalScore = review.Score
	res.Metrics.ImprovedScore = review.Score

	if !reviewed {
		// No usable review; ship the draft as-is.
		return res, nil
	}

	switch review.Recommendation {
	case RecommendApprove:
		res.Steps = append(res.Steps, Step{
			Stage:    StageApproved,
			Provider: gen.UsedProvider,
			Detail:   "review approved the draft",
		})

	case RecommendImprove:
		p.improve(ctx, req, gen, review, res)

	case RecommendRegenerate:
		p.regenerate(ctx, req, gen, generationPrompt, review, res)
	}

	if res.Metrics.OriginalScore > 0 {
		res.Metrics.ImprovementPercent = (res.Metrics.ImprovedScore - res.Metrics.OriginalScore) / res.Metrics.OriginalScore * 100
	}
	return res, nil
}

// review runs the self-review stage. Returns the review and whether a
// verdict (parsed or defaulted) is available to act on.
func (p *Pipeline) review(ctx context.Context, req request.Context, gen *orchestrator.Result, res *Result) (Review, bool) {
	start := time.Now()
	reviewReq := req
	reviewReq.Override = gen.UsedProvider

	reply, err := p.orch.Generate(ctx, reviewReq, BuildReviewPrompt(gen.Content))
	if err != nil {
		p.logger.Warn("review stage failed, keeping draft", zap.Error(err))
		res.Steps = append(res.Steps, Step{
			Stage:   StageReviewing,
			Detail:  "review call failed; keeping the draft",
			Elapsed: time.Since(start),
		})
		return Review{Recommendation: RecommendApprove}, false
	}
	res.Attempts = append(res.Attempts, reply.Attempts...)

	review, parseErr := ParseReview(reply.Content)
	if parseErr != nil {
		p.logger.Warn("review reply unparseable, using default", zap.Error(parseErr))
		review = DefaultReview()
	}

	res.Steps = append(res.Steps, Step{
		Stage:    StageReviewing,
		Provider: reply.UsedProvider,
		Detail:   string(review.Recommendation),
		Elapsed:  time.Since(start),
	})
	return review, true
}

// improve runs one revision pass over the draft.
func (p *Pipeline) improve(ctx context.Context, req request.Context, gen *orchestrator.Result, review Review, res *Result) {
	start := time.Now()
	improveReq := req
	improveReq.Override = gen.UsedProvider

	improved, err := p.orch.Generate(ctx, improveReq, BuildImprovePrompt(gen.Content, review))
	if err != nil {
		p.logger.Warn("improve stage failed, keeping draft", zap.Error(err))
		res.Steps = append(res.Steps, Step{
			Stage:   StageImproving,
			Detail:  "revision call failed; keeping the draft",
			Elapsed: time.Since(start),
		})
		return
	}

	res.Attempts = append(res.Attempts, improved.Attempts...)
	res.ImprovedContent = improved.Content
	res.FinalContent = improved.Content
	res.Metrics.ImprovedScore = min(review.Score+improveBonus, 10)
	res.Steps = append(res.Steps, Step{
		Stage:    StageImproving,
		Provider: improved.UsedProvider,
		Elapsed:  time.Since(start),
	})
}

// regenerate produces a fresh draft from the original prompt, steering
// away from the reviewed weaknesses.
func (p *Pipeline) regenerate(ctx context.Context, req request.Context, gen *orchestrator.Result, generationPrompt string, review Review, res *Result) {
	start := time.Now()
	regenReq := req
	regenReq.Override = gen.UsedProvider

	fresh, err := p.orch.Generate(ctx, regenReq, BuildRegeneratePrompt(generationPrompt, review))
	if err != nil {
		p.logger.Warn("regenerate stage failed, keeping draft", zap.Error(err))
		res.Steps = append(res.Steps, Step{
			Stage:   StageRegenerating,
			Detail:  "regeneration call failed; keeping the draft",
			Elapsed: time.Since(start),
		})
		return
	}

	res.Attempts = append(res.Attempts, fresh.Attempts...)
	res.FinalContent = fresh.Content
	res.Steps = append(res.Steps, Step{
		Stage:    StageRegenerating,
		Provider: fresh.UsedProvider,
		Elapsed:  time.Since(start),
	})
}
