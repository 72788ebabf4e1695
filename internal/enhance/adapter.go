package enhance

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/priority-engine/internal/types"
)

// Failure reasons recorded in provenance when enhancement falls back.
const (
	ReasonDisabled     = "disabled"
	ReasonCoolingDown  = "cooling_down"
	ReasonUnhealthy    = "unhealthy_probe"
	ReasonTimeout      = "timeout"
	ReasonCancelled    = "cancelled"
	ReasonBackendError = "backend_error"
	ReasonOutOfRange   = "score_out_of_range"
)

// Adapter defaults
const (
	DefaultTimeout                = 10 * time.Second
	DefaultMaxConsecutiveFailures = 3
	DefaultCooldown               = 5 * time.Minute
)

// Options configures an Adapter.
type Options struct {
	Timeout                time.Duration
	HealthTTL              time.Duration
	MaxConsecutiveFailures int
	Cooldown               time.Duration
}

// DefaultOptions returns the adapter defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:                DefaultTimeout,
		HealthTTL:              DefaultHealthTTL,
		MaxConsecutiveFailures: DefaultMaxConsecutiveFailures,
		Cooldown:               DefaultCooldown,
	}
}

// Outcome describes how one TryEnhance call resolved, for provenance.
type Outcome struct {
	Used          bool
	FailureReason string
	Latency       time.Duration
}

// Adapter wraps an enhancement Backend with a cached health probe, a
// per-call timeout, result validation, and a consecutive-failure circuit
// breaker. It never raises an error to its caller: every failure path
// returns the supplied baseline unchanged.
type Adapter struct {
	backend Backend
	health  *HealthState
	opts    Options
	now     func() time.Time

	mu            sync.Mutex
	failures      int
	disabledUntil time.Time
}

// NewAdapter creates an adapter for the given backend. A nil backend yields
// an adapter that always falls back (the null-object case).
func NewAdapter(backend Backend, opts Options) *Adapter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxConsecutiveFailures <= 0 {
		opts.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	return &Adapter{
		backend: backend,
		health:  NewHealthState(opts.HealthTTL),
		opts:    opts,
		now:     time.Now,
	}
}

// TryEnhance attempts an enhanced alignment computation bounded by timeout
// (the adapter default when zero). On success it returns a fresh result
// with enhancement_used set; on any failure — timeout, malformed or
// out-of-range response, backend error, unhealthy probe, cool-down — it
// returns baseline unchanged plus the failure reason.
func (a *Adapter) TryEnhance(ctx context.Context, item *types.WorkItem, sc *types.StrategyContext, baseline *types.AlignmentResult, timeout time.Duration) (*types.AlignmentResult, Outcome) {
	if a == nil || a.backend == nil {
		return baseline, Outcome{FailureReason: ReasonDisabled}
	}
	if a.coolingDown() {
		return baseline, Outcome{FailureReason: ReasonCoolingDown}
	}
	if !a.health.Check(ctx, a.backend) {
		return baseline, Outcome{FailureReason: ReasonUnhealthy}
	}

	if timeout <= 0 {
		timeout = a.opts.Timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := a.now()

	type reply struct {
		result *EnhancedResult
		err    error
	}
	replies := make(chan reply, 1)
	go func() {
		result, err := a.backend.Analyze(callCtx, item, sc)
		replies <- reply{result: result, err: err}
	}()

	select {
	case <-callCtx.Done():
		// The in-flight call is abandoned, not awaited; the goroutine's
		// buffered send cannot block.
		latency := a.now().Sub(start)
		if ctx.Err() != nil {
			// Caller cancelled the run; not a backend fault.
			return baseline, Outcome{FailureReason: ReasonCancelled, Latency: latency}
		}
		a.recordFailure()
		return baseline, Outcome{FailureReason: ReasonTimeout, Latency: latency}

	case r := <-replies:
		latency := a.now().Sub(start)
		if r.err != nil || r.result == nil {
			a.recordFailure()
			return baseline, Outcome{FailureReason: ReasonBackendError, Latency: latency}
		}
		if r.result.Score < 0 || r.result.Score > 1 || r.result.Confidence < 0 || r.result.Confidence > 1 {
			a.recordFailure()
			return baseline, Outcome{FailureReason: ReasonOutOfRange, Latency: latency}
		}

		a.recordSuccess()
		return enhancedResult(item.ID, baseline, r.result), Outcome{Used: true, Latency: latency}
	}
}

// enhancedResult builds a fresh AlignmentResult from a validated backend
// response, carrying the backend's evidence over the baseline's when given.
func enhancedResult(itemID string, baseline *types.AlignmentResult, enhanced *EnhancedResult) *types.AlignmentResult {
	evidence := baseline.Evidence
	if len(enhanced.Evidence) > 0 {
		evidence = make([]types.EvidenceSnippet, 0, len(enhanced.Evidence))
		for _, snippet := range enhanced.Evidence {
			evidence = append(evidence, types.EvidenceSnippet{Snippet: snippet, Similarity: enhanced.Score})
		}
	}
	return &types.AlignmentResult{
		ItemID:          itemID,
		Score:           enhanced.Score,
		Confidence:      enhanced.Confidence,
		Evidence:        evidence,
		EnhancementUsed: true,
		Path:            types.PathEnhanced,
	}
}

// coolingDown reports whether the breaker is open.
func (a *Adapter) coolingDown() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now().Before(a.disabledUntil)
}

// recordFailure counts a consecutive failure and opens the breaker for the
// cool-down period once the limit is reached.
func (a *Adapter) recordFailure() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures++
	if a.failures >= a.opts.MaxConsecutiveFailures {
		a.disabledUntil = a.now().Add(a.opts.Cooldown)
		a.failures = 0
	}
}

func (a *Adapter) recordSuccess() {
	a.mu.Lock()
	a.failures = 0
	a.mu.Unlock()
}
