// Package breaker provides a time-based circuit breaker for provider
// endpoints. A provider is tripped for a fixed cooldown after a
// rate-limit response and recovers automatically once the cooldown
// passes; there is no manual reset and no background sweep.
package breaker

import (
	"sync"
	"time"

	"github.com/hanbit-labs/postgate/pkg/provider"
)

// DefaultCooldown is how long a rate-limited provider stays blocked.
const DefaultCooldown = 5 * time.Minute

// Breaker tracks temporarily blocked providers. It is shared
// process-wide and safe for concurrent use; inject a fresh instance
// per test rather than reaching for a package-level singleton.
type Breaker struct {
	mu           sync.RWMutex
	blockedUntil map[provider.ID]time.Time
	now          func() time.Time
}

// Option configures a Breaker.
type Option func(*Breaker)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// New creates an empty breaker.
func New(opts ...Option) *Breaker {
	b := &Breaker{
		blockedUntil: make(map[provider.ID]time.Time),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Trip blocks a provider for the given cooldown. Re-tripping an
// already blocked provider keeps the later of the two expiries, so a
// concurrent trip can never shorten an active block.
func (b *Breaker) Trip(id provider.ID, cooldown time.Duration) {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	until := b.now().Add(cooldown)

	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.blockedUntil[id]; ok && existing.After(until) {
		return
	}
	b.blockedUntil[id] = until
}

// IsBlocked reports whether a provider is currently blocked. Expired
// entries are cleared lazily here.
func (b *Breaker) IsBlocked(id provider.ID) bool {
	b.mu.RLock()
	until, ok := b.blockedUntil[id]
	b.mu.RUnlock()
	if !ok {
		return false
	}

	if b.now().Before(until) {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	// Re-check: a concurrent trip may have extended the block.
	if current, ok := b.blockedUntil[id]; ok && !b.now().Before(current) {
		delete(b.blockedUntil, id)
	}
	return false
}

// BlockedUntil returns the expiry for a blocked provider, or the zero
// time if the provider is available.
func (b *Breaker) BlockedUntil(id provider.ID) time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	until, ok := b.blockedUntil[id]
	if !ok || !b.now().Before(until) {
		return time.Time{}
	}
	return until
}

// Blocked returns the identities currently blocked.
func (b *Breaker) Blocked() []provider.ID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []provider.ID
	for id, until := range b.blockedUntil {
		if b.now().Before(until) {
			out = append(out, id)
		}
	}
	return out
}
