// Package orchestrator drives the ordered fallback chain for one
// request: the router's pick first, then the remaining providers in
// priority order, each attempted at most once, until one succeeds or
// the chain is exhausted.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/hanbit-labs/postgate/pkg/breaker"
	"github.com/hanbit-labs/postgate/pkg/executor"
	"github.com/hanbit-labs/postgate/pkg/provider"
	"github.com/hanbit-labs/postgate/pkg/request"
	"github.com/hanbit-labs/postgate/pkg/router"
)

// Outcome labels one attempt record.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AttemptRecord is one traversal step. A provider appears at most
// once per traversal; Retries counts the local attempts its executor
// call consumed.
type AttemptRecord struct {
	Provider provider.ID   `json:"provider"`
	Outcome  string        `json:"outcome"`
	Kind     provider.Kind `json:"kind,omitempty"`
	Error    string        `json:"error,omitempty"`
	Retries  int           `json:"retries"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Result is a successful traversal.
type Result struct {
	TraversalID  string           `json:"traversal_id"`
	Content      string           `json:"content"`
	UsedProvider provider.ID      `json:"used_provider"`
	Selection    router.Selection `json:"selection"`
	Attempts     []AttemptRecord  `json:"attempts"`
}

// ExhaustedError reports a traversal that consumed every candidate.
type ExhaustedError struct {
	TraversalID string
	Attempts    []AttemptRecord
}

func (e *ExhaustedError) Error() string {
	failures := lo.Map(e.Attempts, func(a AttemptRecord, _ int) string {
		return fmt.Sprintf("%s (%s)", a.Provider, a.Kind)
	})
	return fmt.Sprintf("all providers exhausted after %d attempts [%s]; check API keys or retry later",
		len(e.Attempts), strings.Join(failures, ", "))
}

// Kind returns the aggregate failure classification.
func (e *ExhaustedError) Kind() provider.Kind {
	return provider.KindExhausted
}

// Orchestrator owns the fallback traversal.
type Orchestrator struct {
	adapters map[provider.ID]provider.Adapter
	router   *router.Expert
	breaker  *breaker.Breaker
	exec     *executor.Executor
	cooldown time.Duration
	logger   *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCooldown overrides the breaker cooldown applied on rate limits.
func WithCooldown(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.cooldown = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an orchestrator over the configured adapters. Providers
// without an adapter are treated as having unusable credentials.
func New(adapters map[provider.ID]provider.Adapter, rt *router.Expert, b *breaker.Breaker, exec *executor.Executor, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		adapters: adapters,
		router:   rt,
		breaker:  b,
		exec:     exec,
		cooldown: breaker.DefaultCooldown,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate runs one fallback traversal for the request with the given
// generation prompt. On success the first working provider's content
// is returned together with the full attempt log; intermediate
// failures are absorbed into the log, never surfaced individually.
func (o *Orchestrator) Generate(ctx context.Context, req request.Context, prompt string) (*Result, error) {
	selection := router.Selection{}
	var first provider.ID

	if req.Override != "" {
		if _, err := provider.Lookup(req.Override); err != nil {
			return nil, err
		}
		first = req.Override
		selection = router.Selection{
			Provider:  req.Override,
			Reasoning: fmt.Sprintf("provider %s explicitly requested", req.Override),
		}
	} else {
		selection = o.router.Select(req)
		first = selection.Provider
	}

	traversalID := uuid.NewString()
	candidates := candidateOrder(first)
	attempted := make(map[provider.ID]bool, len(candidates))
	var attempts []AttemptRecord

	for _, id := range candidates {
		if attempted[id] {
			continue
		}
		// Breaker state is re-checked on every step: a trip earlier in
		// this traversal removes later candidates too.
		if o.breaker.IsBlocked(id) && id != first {
			continue
		}
		attempted[id] = true

		ad, ok := o.adapters[id]
		if !ok {
			attempts = append(attempts, AttemptRecord{
				Provider: id,
				Outcome:  OutcomeFailure,
				Kind:     provider.KindInvalidCredentials,
				Error:    "provider not configured",
			})
			continue
		}

		desc, err := provider.Lookup(id)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		content, retries, err := o.exec.Invoke(ctx, ad, desc, prompt)
		elapsed := time.Since(start)

		if err == nil {
			attempts = append(attempts, AttemptRecord{
				Provider: id,
				Outcome:  OutcomeSuccess,
				Retries:  retries,
				Elapsed:  elapsed,
			})
			o.logger.Info("generation succeeded",
				zap.String("traversal", traversalID),
				zap.String("provider", string(id)),
				zap.Int("attempts", len(attempts)))
			return &Result{
				TraversalID:  traversalID,
				Content:      content,
				UsedProvider: id,
				Selection:    selection,
				Attempts:     attempts,
			}, nil
		}

		kind := provider.KindOf(err)
		attempts = append(attempts, AttemptRecord{
			Provider: id,
			Outcome:  OutcomeFailure,
			Kind:     kind,
			Error:    err.Error(),
			Retries:  retries,
			Elapsed:  elapsed,
		})

		if kind == provider.KindRateLimited {
			o.breaker.Trip(id, o.cooldown)
			o.logger.Warn("provider rate limited, breaker tripped",
				zap.String("traversal", traversalID),
				zap.String("provider", string(id)),
				zap.Duration("cooldown", o.cooldown))
		} else {
			o.logger.Warn("provider failed, advancing chain",
				zap.String("traversal", traversalID),
				zap.String("provider", string(id)),
				zap.String("kind", string(kind)))
		}
	}

	return nil, &ExhaustedError{TraversalID: traversalID, Attempts: attempts}
}

// candidateOrder returns the traversal order: the selected provider
// first, then the rest in fixed priority order.
func candidateOrder(first provider.ID) []provider.ID {
	out := []provider.ID{first}
	for _, id := range provider.All() {
		if id != first {
			out = append(out, id)
		}
	}
	return out
}
