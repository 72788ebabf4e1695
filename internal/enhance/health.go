package enhance

import (
	"context"
	"sync"
	"time"
)

// DefaultHealthTTL is how long a probe result stays valid, amortizing the
// probe cost across a batch instead of paying it per item.
const DefaultHealthTTL = 30 * time.Second

// probeTimeout bounds a single health probe.
const probeTimeout = 2 * time.Second

// HealthState is an explicit, injectable health cache with a timestamped
// probe result. It is deliberately not a process-wide singleton so tests
// can construct independent health states per scenario.
type HealthState struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	probedAt time.Time
	healthy  bool
	valid    bool
}

// NewHealthState creates a health cache with the given TTL (DefaultHealthTTL
// when zero).
func NewHealthState(ttl time.Duration) *HealthState {
	if ttl <= 0 {
		ttl = DefaultHealthTTL
	}
	return &HealthState{ttl: ttl, now: time.Now}
}

// Check returns the cached health verdict, probing the backend when the
// cache is stale. The probe itself is bounded by probeTimeout.
func (h *HealthState) Check(ctx context.Context, backend Backend) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.valid && h.now().Sub(h.probedAt) < h.ttl {
		return h.healthy
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	h.healthy = backend.HealthCheck(probeCtx)
	h.probedAt = h.now()
	h.valid = true
	return h.healthy
}

// Invalidate drops the cached verdict, forcing a probe on the next Check.
func (h *HealthState) Invalidate() {
	h.mu.Lock()
	h.valid = false
	h.mu.Unlock()
}
