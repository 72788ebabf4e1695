package ahp

import (
	"math"
	"sort"
)

// DefaultConsistencyThreshold is the accepted upper bound on the
// consistency ratio (Saaty's conventional 0.10).
const DefaultConsistencyThreshold = 0.10

// randomIndex holds Saaty's random-index constants for matrix sizes 1..15.
// Static configuration data for the consistency-ratio computation; index 0
// is unused padding so that randomIndex[n] addresses size n directly.
var randomIndex = [16]float64{
	0, 0.00, 0.00, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41,
	1.45, 1.49, 1.51, 1.48, 1.56, 1.57, 1.59,
}

// Power iteration parameters for the principal eigenvector.
const (
	maxIterations        = 200
	convergenceEpsilon   = 1e-12
	smallMatrixDimension = 3
)

// WeightVector is an ordered set of per-criterion weights summing to 1.0.
// A weight vector only exists for matrices whose consistency ratio passed
// validation.
type WeightVector struct {
	Weights []float64 `json:"weights"`
}

// Weight returns the weight at position i.
func (w *WeightVector) Weight(i int) float64 {
	return w.Weights[i]
}

// Len returns the number of weights.
func (w *WeightVector) Len() int {
	return len(w.Weights)
}

// DeriveWeights computes the principal-eigenvector weights of a comparison
// matrix and its consistency ratio. For small matrices (n <= 3) the
// normalized geometric mean of rows is the closed form; larger matrices
// refine that start with power iteration. The ratio is 0 for n <= 2 by
// definition.
//
// DeriveWeights itself does not enforce the consistency threshold; combine
// it with ValidateConsistency (or call DeriveValidatedWeights).
func DeriveWeights(m *ComparisonMatrix) (*WeightVector, float64) {
	n := m.Size()

	weights := geometricMeanWeights(m)
	if n > smallMatrixDimension {
		weights = powerIterate(m, weights)
	}

	if n <= 2 {
		return &WeightVector{Weights: weights}, 0
	}

	lambdaMax := principalEigenvalue(m, weights)
	consistencyIndex := (lambdaMax - float64(n)) / float64(n-1)
	ratio := consistencyIndex / randomIndex[n]
	if ratio < 0 {
		ratio = 0
	}
	return &WeightVector{Weights: weights}, ratio
}

// DeriveValidatedWeights derives weights and enforces the consistency
// threshold, returning a ConsistencyError (and no vector) on failure.
func DeriveValidatedWeights(m *ComparisonMatrix, threshold float64) (*WeightVector, float64, error) {
	weights, ratio := DeriveWeights(m)
	if err := ValidateConsistency(m, weights, ratio, threshold); err != nil {
		return nil, ratio, err
	}
	return weights, ratio, nil
}

// ValidateConsistency accepts ratios up to and including the threshold.
// On failure it surfaces the judgment pairs with the largest residual
// against the rank-1 reconstruction w_i/w_j.
func ValidateConsistency(m *ComparisonMatrix, weights *WeightVector, ratio, threshold float64) error {
	if threshold <= 0 {
		threshold = DefaultConsistencyThreshold
	}
	if ratio <= threshold {
		return nil
	}
	return &ConsistencyError{
		Ratio:          ratio,
		Threshold:      threshold,
		WorstOffenders: worstOffenders(m, weights, 3),
	}
}

// geometricMeanWeights returns the normalized geometric mean of matrix rows.
func geometricMeanWeights(m *ComparisonMatrix) []float64 {
	n := m.Size()
	weights := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		logSum := 0.0
		for j := 0; j < n; j++ {
			logSum += math.Log(m.Entry(i, j))
		}
		weights[i] = math.Exp(logSum / float64(n))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// powerIterate refines a starting weight estimate toward the principal
// eigenvector: repeatedly apply the matrix and renormalize until the L1
// change drops below epsilon.
func powerIterate(m *ComparisonMatrix, start []float64) []float64 {
	n := m.Size()
	current := make([]float64, n)
	copy(current, start)

	for iter := 0; iter < maxIterations; iter++ {
		next := applyMatrix(m, current)
		sum := 0.0
		for _, v := range next {
			sum += v
		}
		delta := 0.0
		for i := range next {
			next[i] /= sum
			delta += math.Abs(next[i] - current[i])
		}
		copy(current, next)
		if delta < convergenceEpsilon {
			break
		}
	}
	return current
}

// principalEigenvalue estimates lambda-max as the mean of (A*w)_i / w_i.
func principalEigenvalue(m *ComparisonMatrix, weights []float64) float64 {
	product := applyMatrix(m, weights)
	sum := 0.0
	for i, v := range product {
		sum += v / weights[i]
	}
	return sum / float64(len(weights))
}

func applyMatrix(m *ComparisonMatrix, vector []float64) []float64 {
	n := m.Size()
	result := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			result[i] += m.Entry(i, j) * vector[j]
		}
	}
	return result
}

// worstOffenders ranks upper-triangle judgments by how far they deviate,
// in log space, from the ratio the derived weights imply.
func worstOffenders(m *ComparisonMatrix, weights *WeightVector, top int) []OffendingPair {
	n := m.Size()
	pairs := make([]OffendingPair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			implied := weights.Weight(i) / weights.Weight(j)
			judgment := m.Entry(i, j)
			residual := math.Abs(math.Log(judgment / implied))
			pairs = append(pairs, OffendingPair{
				Row:      i,
				Col:      j,
				Judgment: judgment,
				Implied:  implied,
				Residual: residual,
			})
		}
	}

	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].Residual != pairs[b].Residual {
			return pairs[a].Residual > pairs[b].Residual
		}
		// Deterministic order for equal residuals.
		if pairs[a].Row != pairs[b].Row {
			return pairs[a].Row < pairs[b].Row
		}
		return pairs[a].Col < pairs[b].Col
	})

	if len(pairs) > top {
		pairs = pairs[:top]
	}
	return pairs
}
