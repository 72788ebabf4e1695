package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/priority-engine/internal/ahp"
	"github.com/jonathan/priority-engine/internal/alignment"
	"github.com/jonathan/priority-engine/internal/cache"
	"github.com/jonathan/priority-engine/internal/criteria"
	"github.com/jonathan/priority-engine/internal/enhance"
	"github.com/jonathan/priority-engine/internal/types"
)

// UnmappedPolicy decides how a run treats items whose raw values cannot be
// normalized. The policy is explicit configuration, never a silent zero.
type UnmappedPolicy string

// Supported unmapped-value policies
const (
	// PolicyAbort fails the whole run on the first unmappable value
	PolicyAbort UnmappedPolicy = "abort"
	// PolicySkip excludes the affected item from the ranking
	PolicySkip UnmappedPolicy = "skip"
	// PolicyDefault substitutes a neutral 0.5 for the unmappable value
	PolicyDefault UnmappedPolicy = "default"
)

// neutralCriterionScore substitutes for unmappable values under
// PolicyDefault.
const neutralCriterionScore = 0.5

// defaultWorkers bounds concurrent per-item scoring.
const defaultWorkers = 4

// runIDNamespace scopes hash-derived run identifiers. Run IDs are a pure
// function of the scoring inputs so that identical inputs yield identical
// results, cached or not.
var runIDNamespace = uuid.MustParse("5b8c1f9e-7d42-4a0b-9c3d-2f6a8e01d4b7")

// Options configures a scoring run.
type Options struct {
	ConsistencyThreshold float64
	UnmappedPolicy       UnmappedPolicy
	Workers              int
	EnhancementTimeout   time.Duration
	// OnWarning receives non-fatal per-item warnings (insufficient text).
	OnWarning func(itemID string, warning error)
}

// DefaultOptions returns the orchestrator defaults.
func DefaultOptions() Options {
	return Options{
		ConsistencyThreshold: ahp.DefaultConsistencyThreshold,
		UnmappedPolicy:       PolicyAbort,
		Workers:              defaultWorkers,
	}
}

// Orchestrator combines AHP weights, per-item criterion values, and
// alignment scores into ranked output with per-item provenance. Runs are
// stateless value computations; retry is the caller's responsibility.
type Orchestrator struct {
	criteriaSet *criteria.Set
	scorer      *alignment.Scorer
	enhancer    *enhance.Adapter
	results     *cache.ResultCache
	opts        Options
}

// New creates an orchestrator. The enhancer and result cache may be nil to
// disable enhancement and memoization respectively.
func New(criteriaSet *criteria.Set, scorer *alignment.Scorer, enhancer *enhance.Adapter, results *cache.ResultCache, opts Options) *Orchestrator {
	if opts.ConsistencyThreshold <= 0 {
		opts.ConsistencyThreshold = ahp.DefaultConsistencyThreshold
	}
	if opts.UnmappedPolicy == "" {
		opts.UnmappedPolicy = PolicyAbort
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if scorer == nil {
		scorer = alignment.NewScorer(alignment.DefaultConfig())
	}
	return &Orchestrator{
		criteriaSet: criteriaSet,
		scorer:      scorer,
		enhancer:    enhancer,
		results:     results,
		opts:        opts,
	}
}

// ScoreAndRank derives the weight vector (failing fast with a
// ConsistencyError and no partial ranking), scores every item concurrently,
// and returns the complete ranking with per-item provenance. Identical
// inputs yield identical results; with a cache configured, identical inputs
// share one computation.
func (o *Orchestrator) ScoreAndRank(ctx context.Context, matrix *ahp.ComparisonMatrix, items []types.WorkItem, sc *types.StrategyContext) (*types.RankedResult, error) {
	if matrix.Size() != o.criteriaSet.Len() {
		return nil, &Error{Message: fmt.Sprintf("matrix size %d does not match criteria count %d", matrix.Size(), o.criteriaSet.Len())}
	}
	if sc == nil {
		sc = &types.StrategyContext{}
	}

	weights, ratio, err := ahp.DeriveValidatedWeights(matrix, o.opts.ConsistencyThreshold)
	if err != nil {
		return nil, err
	}

	key, err := cache.ComputeKey(weights.Weights, items, sc, o.criteriaSet.Names(), o.criteriaSet.AlignmentShare(), o.opts.UnmappedPolicy)
	if err != nil {
		return nil, &Error{Message: "failed to compute cache key", Cause: err}
	}
	runID := uuid.NewSHA1(runIDNamespace, []byte(key)).String()

	if o.results == nil {
		return o.computeRun(ctx, runID, weights, ratio, items, sc)
	}

	result, hit, err := o.results.GetOrCompute(key, func() (*types.RankedResult, error) {
		return o.computeRun(ctx, runID, weights, ratio, items, sc)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		// Results are immutable; flag the copy, not the cached value.
		served := *result
		served.FromCache = true
		return &served, nil
	}
	return result, nil
}

// computeRun executes the fan-out/fan-in scoring of all items. The ranking
// is emitted only after every per-item score resolves; a failure or
// cancellation yields no partial ranking.
func (o *Orchestrator) computeRun(ctx context.Context, runID string, weights *ahp.WeightVector, ratio float64, items []types.WorkItem, sc *types.StrategyContext) (*types.RankedResult, error) {
	scores := make([]*types.ItemScore, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)
	for i := range items {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := o.scoreItem(gctx, &items[i], sc, weights)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]types.ItemScore, 0, len(items))
	for _, score := range scores {
		if score != nil {
			ranked = append(ranked, *score)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	names := o.criteriaSet.Names()
	weightEntries := make([]types.CriterionWeight, len(names))
	for i, name := range names {
		weightEntries[i] = types.CriterionWeight{Criterion: name, Weight: weights.Weight(i)}
	}

	return &types.RankedResult{
		RunID:            runID,
		State:            types.RunComplete,
		Weights:          weightEntries,
		ConsistencyRatio: ratio,
		Scores:           ranked,
	}, nil
}

// scoreItem normalizes one item's criterion values, computes its AHP
// component, aligns it against the strategic context (opportunistically
// enhanced), and blends the two per the criteria-defined share. A nil score
// with nil error means the item was skipped under PolicySkip.
func (o *Orchestrator) scoreItem(ctx context.Context, item *types.WorkItem, sc *types.StrategyContext, weights *ahp.WeightVector) (*types.ItemScore, error) {
	names := o.criteriaSet.Names()
	breakdown := make(map[string]float64, len(names))

	ahpComponent := 0.0
	for i, name := range names {
		normalized, err := o.normalizeItemValue(item, name)
		if err != nil {
			var unmapped *criteria.UnmappedValueError
			if errors.As(err, &unmapped) {
				switch o.opts.UnmappedPolicy {
				case PolicySkip:
					return nil, nil
				case PolicyDefault:
					normalized = neutralCriterionScore
				default:
					return nil, &Error{Message: fmt.Sprintf("item %q cannot be scored", item.ID), Cause: err}
				}
			} else {
				return nil, &Error{Message: fmt.Sprintf("item %q cannot be scored", item.ID), Cause: err}
			}
		}
		breakdown[name] = normalized
		ahpComponent += weights.Weight(i) * normalized
	}

	align, provenance := o.alignItem(ctx, item, sc)

	share := o.criteriaSet.AlignmentShare()
	if sc.Empty() {
		// Nothing to align against; the ranking is pure AHP.
		share = 0
	}
	alignmentContribution := share * align.Score
	finalScore := (1-share)*ahpComponent + alignmentContribution

	return &types.ItemScore{
		ItemID:                item.ID,
		FinalScore:            finalScore,
		Breakdown:             breakdown,
		AlignmentContribution: alignmentContribution,
		Alignment:             align,
		Provenance:            provenance,
	}, nil
}

// alignItem computes the mathematical baseline alignment, then
// opportunistically attempts enhancement for items with sufficient text.
// The baseline guarantees a populated score regardless of the enhancement
// path's outcome.
func (o *Orchestrator) alignItem(ctx context.Context, item *types.WorkItem, sc *types.StrategyContext) (*types.AlignmentResult, types.Provenance) {
	baseline, warning := o.scorer.ComputeAlignment(item, sc)
	if warning != nil && o.opts.OnWarning != nil {
		o.opts.OnWarning(item.ID, warning)
	}

	eligible := o.enhancer != nil &&
		o.criteriaSet.AllowEnhancement() &&
		baseline.Path == types.PathTFCosine

	if !eligible {
		return baseline, types.Provenance{}
	}

	result, outcome := o.enhancer.TryEnhance(ctx, item, sc, baseline, o.opts.EnhancementTimeout)
	return result, types.Provenance{
		EnhancementInvoked:   true,
		EnhancementSucceeded: outcome.Used,
		FellBack:             !outcome.Used,
		FallbackReason:       outcome.FailureReason,
		Latency:              outcome.Latency,
	}
}

// normalizeItemValue resolves one criterion value for an item, falling back
// to the criterion's configured default when the value is absent.
func (o *Orchestrator) normalizeItemValue(item *types.WorkItem, name string) (float64, error) {
	value, present := item.Values[name]
	if !present {
		return o.criteriaSet.NormalizeMissing(name)
	}
	return o.criteriaSet.Normalize(name, value)
}

// Contributions converts a ranked result's per-criterion breakdowns into
// the contribution form consumed by sensitivity analysis.
func Contributions(result *types.RankedResult) []ahp.ItemContribution {
	contributions := make([]ahp.ItemContribution, 0, len(result.Scores))
	for _, score := range result.Scores {
		contributions = append(contributions, ahp.ItemContribution{
			ItemID:     score.ItemID,
			Components: score.Breakdown,
		})
	}
	return contributions
}
