package ahp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveWeights_UniformMatrixYieldsEqualWeights(t *testing.T) {
	m, err := BuildMatrix(3, nil)
	require.NoError(t, err)

	weights, ratio := DeriveWeights(m)

	require.Equal(t, 3, weights.Len())
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0/3.0, weights.Weight(i), 1e-9)
	}
	assert.InDelta(t, 0.0, ratio, 1e-9)
}

func TestDeriveWeights_SumToOne(t *testing.T) {
	m, err := BuildMatrix(4, []Judgment{
		{Row: 0, Col: 1, Ratio: 3},
		{Row: 0, Col: 2, Ratio: 5},
		{Row: 0, Col: 3, Ratio: 7},
		{Row: 1, Col: 2, Ratio: 2},
		{Row: 1, Col: 3, Ratio: 3},
		{Row: 2, Col: 3, Ratio: 2},
	})
	require.NoError(t, err)

	weights, _ := DeriveWeights(m)

	sum := 0.0
	for i := 0; i < weights.Len(); i++ {
		sum += weights.Weight(i)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestDeriveWeights_OrdersByDominance(t *testing.T) {
	// Criterion 0 dominates 1, which dominates 2.
	m, err := BuildMatrix(3, []Judgment{
		{Row: 0, Col: 1, Ratio: 3},
		{Row: 0, Col: 2, Ratio: 6},
		{Row: 1, Col: 2, Ratio: 2},
	})
	require.NoError(t, err)

	weights, ratio := DeriveWeights(m)

	assert.Greater(t, weights.Weight(0), weights.Weight(1))
	assert.Greater(t, weights.Weight(1), weights.Weight(2))
	// This matrix is exactly consistent (3*2 = 6)
	assert.InDelta(t, 0.0, ratio, 1e-6)
}

func TestDeriveWeights_TrivialSizesHaveZeroRatio(t *testing.T) {
	one, err := BuildMatrix(1, nil)
	require.NoError(t, err)
	weights, ratio := DeriveWeights(one)
	assert.Equal(t, 0.0, ratio)
	assert.InDelta(t, 1.0, weights.Weight(0), 1e-12)

	two, err := BuildMatrix(2, []Judgment{{Row: 0, Col: 1, Ratio: 9}})
	require.NoError(t, err)
	_, ratio = DeriveWeights(two)
	assert.Equal(t, 0.0, ratio)
}

func TestDeriveWeights_CyclicJudgmentsAreInconsistent(t *testing.T) {
	// A beats B, B beats C, C beats A: the matrix cannot be reconciled.
	m, err := BuildMatrix(3, []Judgment{
		{Row: 0, Col: 1, Ratio: 9},
		{Row: 1, Col: 2, Ratio: 9},
		{Row: 2, Col: 0, Ratio: 9},
	})
	require.NoError(t, err)

	weights, ratio := DeriveWeights(m)

	// The cycle is symmetric, so no criterion can dominate.
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0/3.0, weights.Weight(i), 1e-6)
	}
	assert.Greater(t, ratio, DefaultConsistencyThreshold)
}

func TestValidateConsistency_ThresholdBoundary(t *testing.T) {
	m, err := BuildMatrix(3, nil)
	require.NoError(t, err)
	weights, _ := DeriveWeights(m)

	// Exactly at the threshold is accepted
	assert.NoError(t, ValidateConsistency(m, weights, 0.10, 0.10))

	// Just above is rejected
	err = ValidateConsistency(m, weights, 0.1001, 0.10)
	var consistencyErr *ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	assert.Equal(t, 0.1001, consistencyErr.Ratio)
	assert.Equal(t, 0.10, consistencyErr.Threshold)
}

func TestDeriveValidatedWeights_ReportsWorstOffenders(t *testing.T) {
	m, err := BuildMatrix(3, []Judgment{
		{Row: 0, Col: 1, Ratio: 9},
		{Row: 1, Col: 2, Ratio: 9},
		{Row: 2, Col: 0, Ratio: 9},
	})
	require.NoError(t, err)

	_, _, err = DeriveValidatedWeights(m, DefaultConsistencyThreshold)

	var consistencyErr *ConsistencyError
	require.ErrorAs(t, err, &consistencyErr)
	require.NotEmpty(t, consistencyErr.WorstOffenders)
	assert.LessOrEqual(t, len(consistencyErr.WorstOffenders), 3)

	first := consistencyErr.WorstOffenders[0]
	assert.NotZero(t, first.Judgment)
	assert.NotZero(t, first.Implied)
}

func TestDeriveValidatedWeights_ConsistentMatrixPasses(t *testing.T) {
	m, err := BuildMatrix(3, []Judgment{
		{Row: 0, Col: 1, Ratio: 2},
		{Row: 0, Col: 2, Ratio: 4},
		{Row: 1, Col: 2, Ratio: 2},
	})
	require.NoError(t, err)

	weights, ratio, err := DeriveValidatedWeights(m, DefaultConsistencyThreshold)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, ratio, 1e-6)

	// Exactly consistent matrix reproduces the generating ratios
	assert.InDelta(t, 2.0, weights.Weight(0)/weights.Weight(1), 1e-6)
	assert.InDelta(t, 4.0, weights.Weight(0)/weights.Weight(2), 1e-6)
}

func TestDeriveWeights_Deterministic(t *testing.T) {
	judgments := []Judgment{
		{Row: 0, Col: 1, Ratio: 3},
		{Row: 0, Col: 2, Ratio: 5},
		{Row: 1, Col: 2, Ratio: 2},
		{Row: 0, Col: 3, Ratio: 4},
		{Row: 1, Col: 3, Ratio: 2},
		{Row: 2, Col: 3, Ratio: 1},
	}

	first, firstRatio := DeriveWeights(mustMatrix(t, 4, judgments))
	second, secondRatio := DeriveWeights(mustMatrix(t, 4, judgments))

	assert.Equal(t, first.Weights, second.Weights)
	assert.Equal(t, firstRatio, secondRatio)
}

func mustMatrix(t *testing.T, n int, judgments []Judgment) *ComparisonMatrix {
	t.Helper()
	m, err := BuildMatrix(n, judgments)
	require.NoError(t, err)
	return m
}
