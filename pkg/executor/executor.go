// Package executor performs a single provider invocation under the
// provider's timeout and retry budget. Rate limits and credential
// failures are never retried here; they surface immediately so the
// fallback layer can react.
package executor

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hanbit-labs/postgate/pkg/provider"
)

// maxBackoff caps the exponential backoff between local retries.
const maxBackoff = 8 * time.Second

// maxJitter bounds the random spread added to each backoff.
const maxJitter = 250 * time.Millisecond

// Backoff returns the wait before retry number attempt (1-based):
// 1s * 2^(attempt-1), capped. Pure, so it is testable without sleeps.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Executor drives one provider call with bounded retries.
type Executor struct {
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
	logger *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithSleep overrides the sleep function, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// WithJitter overrides the jitter source, for tests.
func WithJitter(jitter func() time.Duration) Option {
	return func(e *Executor) {
		e.jitter = jitter
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// New creates an executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		sleep:  sleepWithContext,
		jitter: func() time.Duration { return time.Duration(rand.Int63n(int64(maxJitter))) },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invoke calls the adapter up to the descriptor's retry budget. Each
// attempt runs under the descriptor's timeout. Timeout, network, and
// empty-response failures back off and retry; everything else
// propagates at once with its classification. The returned count is
// the number of attempts consumed.
func (e *Executor) Invoke(ctx context.Context, ad provider.Adapter, desc provider.Descriptor, prompt string) (string, int, error) {
	budget := desc.MaxAttempts
	if budget < 1 {
		budget = 1
	}

	var lastErr *provider.Error
	attempt := 0
	for attempt < budget {
		attempt++
		content, err := e.attempt(ctx, ad, desc, prompt)
		if err == nil {
			if strings.TrimSpace(content) != "" {
				return content, attempt, nil
			}
			err = &provider.Error{Kind: provider.KindEmptyResponse, Provider: desc.ID}
		}

		classified := provider.Classify(desc.ID, err)
		lastErr = classified
		e.logger.Warn("provider attempt failed",
			zap.String("provider", string(desc.ID)),
			zap.Int("attempt", attempt),
			zap.String("kind", string(classified.Kind)),
			zap.Error(err))

		if !provider.Retryable(classified.Kind) || attempt == budget {
			break
		}
		if err := e.sleep(ctx, Backoff(attempt)+e.jitter()); err != nil {
			return "", attempt, provider.Classify(desc.ID, err)
		}
	}

	return "", attempt, lastErr
}

func (e *Executor) attempt(ctx context.Context, ad provider.Adapter, desc provider.Descriptor, prompt string) (string, error) {
	if desc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, desc.Timeout)
		defer cancel()
	}
	return ad.Generate(ctx, prompt)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
