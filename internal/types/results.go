package types

import "time"

// Computation path identifiers recorded on AlignmentResult.Path.
const (
	// PathTFCosine is the always-available term-frequency cosine path
	PathTFCosine = "tf-cosine"
	// PathNeutralDefault is the insufficient-text neutral fallback path
	PathNeutralDefault = "neutral-default"
	// PathEnhanced is the enhancement-backend path
	PathEnhanced = "enhanced"
)

// EvidenceSnippet links an alignment score back to the strategic fragment
// that produced it.
type EvidenceSnippet struct {
	FragmentID string  `json:"fragment_id"`
	Snippet    string  `json:"snippet"`
	Similarity float64 `json:"similarity"`
}

// AlignmentResult is the outcome of aligning one item against the strategic
// context. Created fresh per run and never mutated after creation.
type AlignmentResult struct {
	ItemID          string            `json:"item_id"`
	Score           float64           `json:"score"`
	Confidence      float64           `json:"confidence"`
	Evidence        []EvidenceSnippet `json:"evidence,omitempty"`
	EnhancementUsed bool              `json:"enhancement_used"`
	Path            string            `json:"path"`
}

// Provenance records how an item's score was computed. Write-once, attached
// to the ItemScore it describes.
type Provenance struct {
	EnhancementInvoked   bool          `json:"enhancement_invoked"`
	EnhancementSucceeded bool          `json:"enhancement_succeeded"`
	FellBack             bool          `json:"fell_back"`
	FallbackReason       string        `json:"fallback_reason,omitempty"`
	Latency              time.Duration `json:"latency_ns"`
}

// ItemScore is the final per-item scoring outcome.
type ItemScore struct {
	ItemID                string             `json:"item_id"`
	FinalScore            float64            `json:"final_score"`
	Breakdown             map[string]float64 `json:"breakdown"`
	AlignmentContribution float64            `json:"alignment_contribution"`
	Rank                  int                `json:"rank"`
	Alignment             *AlignmentResult   `json:"alignment,omitempty"`
	Provenance            Provenance         `json:"provenance"`
}

// CriterionWeight is one ordered (criterion, weight) pair of a derived
// weight vector.
type CriterionWeight struct {
	Criterion string  `json:"criterion"`
	Weight    float64 `json:"weight"`
}

// RunState tracks the lifecycle of a single scoring run.
type RunState string

// Run lifecycle states. Runs are stateless value computations; the state is
// informational and recorded on the final result.
const (
	RunInitialized    RunState = "initialized"
	RunWeightsDerived RunState = "weights_derived"
	RunFailed         RunState = "failed"
	RunItemsScored    RunState = "items_scored"
	RunRanked         RunState = "ranked"
	RunComplete       RunState = "complete"
)

// RankedResult is the complete output of a scoring run: a total ranking of
// all input items plus the weight vector and run metadata that produced it.
type RankedResult struct {
	RunID            string            `json:"run_id"`
	State            RunState          `json:"state"`
	Weights          []CriterionWeight `json:"weights"`
	ConsistencyRatio float64           `json:"consistency_ratio"`
	Scores           []ItemScore       `json:"scores"`
	FromCache        bool              `json:"from_cache,omitempty"`
}
