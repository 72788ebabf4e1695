// Package enhance provides the optional, pluggable enhancement adapter
// that refines alignment scores, with mandatory fallback to the
// mathematical baseline.
package enhance

import (
	"context"

	"github.com/jonathan/priority-engine/internal/types"
)

// EnhancedResult is the raw outcome of one backend analysis. The adapter
// validates it before accepting; out-of-range scores are failures.
type EnhancedResult struct {
	Score      float64  `json:"alignment_score"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// Backend is the injectable enhancement capability. The engine is agnostic
// to its implementation or absence; a nil backend disables enhancement with
// no other code changes.
type Backend interface {
	// HealthCheck reports whether the backend is currently able to serve.
	// Implementations must bound their own probe cost; callers additionally
	// impose a timeout via ctx.
	HealthCheck(ctx context.Context) bool
	// Analyze computes a refined alignment for one item against the
	// strategic context.
	Analyze(ctx context.Context, item *types.WorkItem, sc *types.StrategyContext) (*EnhancedResult, error)
}
