// Package alignment provides the always-available mathematical alignment
// scorer: deterministic term-frequency cosine similarity between item text
// and strategic-context fragments.
package alignment

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/priority-engine/internal/types"
)

// AggregationPolicy selects how per-fragment similarities combine into one
// alignment score.
type AggregationPolicy string

// Supported aggregation policies
const (
	// PolicyMax scores an item by its best-matching fragment
	PolicyMax AggregationPolicy = "max"
	// PolicyWeightedAverage averages fragment similarities by fragment weight
	PolicyWeightedAverage AggregationPolicy = "weighted_average"
)

// Defaults for scorer configuration
const (
	// NeutralScore is the defined neutral alignment for items with
	// insufficient text, chosen over zero to avoid penalizing items that
	// simply lack descriptive text.
	NeutralScore = 0.5

	defaultTopKEvidence = 3
	defaultMinTokens    = 5
	// confidenceSaturationTokens is the token count at which the
	// mathematical path reports full confidence.
	confidenceSaturationTokens = 40
)

// InsufficientTextWarning is the non-fatal signal that an item's text was
// too short for lexical alignment and received the neutral default score.
type InsufficientTextWarning struct {
	ItemID     string
	TokenCount int
	MinTokens  int
}

func (w *InsufficientTextWarning) Error() string {
	return fmt.Sprintf("item %q has insufficient text for alignment (%d tokens, need %d); using neutral score %.1f",
		w.ItemID, w.TokenCount, w.MinTokens, NeutralScore)
}

// Config holds scorer configuration.
type Config struct {
	Policy       AggregationPolicy
	TopKEvidence int
	MinTokens    int
}

// DefaultConfig returns sensible defaults: weighted-average aggregation,
// top-3 evidence, 5-token minimum.
func DefaultConfig() Config {
	return Config{
		Policy:       PolicyWeightedAverage,
		TopKEvidence: defaultTopKEvidence,
		MinTokens:    defaultMinTokens,
	}
}

// Scorer computes alignment between item text and strategic context.
// Pure CPU-bound computation with no external dependency; this is the
// guarantee that every run produces a complete result set.
type Scorer struct {
	config Config
}

// NewScorer creates a scorer, filling zero config fields with defaults.
func NewScorer(config Config) *Scorer {
	if config.Policy == "" {
		config.Policy = PolicyWeightedAverage
	}
	if config.TopKEvidence <= 0 {
		config.TopKEvidence = defaultTopKEvidence
	}
	if config.MinTokens <= 0 {
		config.MinTokens = defaultMinTokens
	}
	return &Scorer{config: config}
}

// ComputeAlignment scores one item against every context fragment and
// aggregates per the configured policy, returning the top-k matching
// fragments as evidence. Items with insufficient text receive the neutral
// default score and a non-nil InsufficientTextWarning.
func (s *Scorer) ComputeAlignment(item *types.WorkItem, context *types.StrategyContext) (*types.AlignmentResult, *InsufficientTextWarning) {
	itemTerms := termFrequencies(item.Text())
	tokenCount := 0
	for _, freq := range itemTerms {
		tokenCount += freq
	}

	if tokenCount < s.config.MinTokens || context.Empty() {
		warning := &InsufficientTextWarning{
			ItemID:     item.ID,
			TokenCount: tokenCount,
			MinTokens:  s.config.MinTokens,
		}
		if tokenCount >= s.config.MinTokens {
			// Enough text but no context to align against.
			warning = nil
		}
		return &types.AlignmentResult{
			ItemID:     item.ID,
			Score:      NeutralScore,
			Confidence: 0,
			Path:       types.PathNeutralDefault,
		}, warning
	}

	evidence := make([]types.EvidenceSnippet, 0, len(context.Fragments))
	for _, fragment := range context.Fragments {
		fragTerms := termFrequencies(fragment.Text)
		if len(fragTerms) == 0 {
			continue
		}
		evidence = append(evidence, types.EvidenceSnippet{
			FragmentID: fragment.ID,
			Snippet:    snippet(fragment.Text),
			Similarity: cosine(itemTerms, fragTerms),
		})
	}

	score := s.aggregate(evidence, context)

	// Highest-similarity fragments first; fragment id breaks ties so the
	// evidence list is deterministic.
	sort.Slice(evidence, func(i, j int) bool {
		if evidence[i].Similarity != evidence[j].Similarity {
			return evidence[i].Similarity > evidence[j].Similarity
		}
		return evidence[i].FragmentID < evidence[j].FragmentID
	})
	if len(evidence) > s.config.TopKEvidence {
		evidence = evidence[:s.config.TopKEvidence]
	}

	confidence := float64(tokenCount) / confidenceSaturationTokens
	if confidence > 1.0 {
		confidence = 1.0
	}

	return &types.AlignmentResult{
		ItemID:     item.ID,
		Score:      score,
		Confidence: confidence,
		Evidence:   evidence,
		Path:       types.PathTFCosine,
	}, nil
}

// aggregate combines per-fragment similarities into a single score.
func (s *Scorer) aggregate(evidence []types.EvidenceSnippet, context *types.StrategyContext) float64 {
	if len(evidence) == 0 {
		return NeutralScore
	}

	switch s.config.Policy {
	case PolicyMax:
		best := 0.0
		for _, e := range evidence {
			if e.Similarity > best {
				best = e.Similarity
			}
		}
		return best
	default:
		weightByID := make(map[string]float64, len(context.Fragments))
		for _, f := range context.Fragments {
			weightByID[f.ID] = f.FragmentWeight()
		}
		weightedSum := 0.0
		totalWeight := 0.0
		for _, e := range evidence {
			w := weightByID[e.FragmentID]
			weightedSum += w * e.Similarity
			totalWeight += w
		}
		if totalWeight == 0 {
			return NeutralScore
		}
		return weightedSum / totalWeight
	}
}

// stopwords excluded from term-frequency vectors. Small fixed set; enough
// to keep connective words from dominating short fragments.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "our": true, "that": true,
	"the": true, "to": true, "we": true, "with": true, "will": true,
}

// termFrequencies tokenizes text into a lowercase term-frequency map,
// dropping stopwords and single-character tokens.
func termFrequencies(text string) map[string]int {
	frequencies := make(map[string]int)
	for _, token := range tokenize(text) {
		if len(token) < 2 || stopwords[token] {
			continue
		}
		frequencies[token]++
	}
	return frequencies
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// cosine computes cosine similarity between two term-frequency vectors.
func cosine(a, b map[string]int) float64 {
	dot := 0.0
	for term, freqA := range a {
		if freqB, ok := b[term]; ok {
			dot += float64(freqA) * float64(freqB)
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (magnitude(a) * magnitude(b))
}

func magnitude(v map[string]int) float64 {
	sum := 0.0
	for _, freq := range v {
		sum += float64(freq) * float64(freq)
	}
	return math.Sqrt(sum)
}

// snippet truncates fragment text for evidence display.
func snippet(text string) string {
	const maxLen = 120
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
