package ahp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitivityAnalysis_StableRankingReportsNoChanges(t *testing.T) {
	weights := &WeightVector{Weights: []float64{0.6, 0.4}}
	contributions := []ItemContribution{
		// item_a dominates on both criteria; no perturbation can flip it
		{ItemID: "item_a", Components: map[string]float64{"impact": 0.9, "effort": 0.9}},
		{ItemID: "item_b", Components: map[string]float64{"impact": 0.2, "effort": 0.2}},
	}

	changes := SensitivityAnalysis([]string{"impact", "effort"}, weights, 0.1, contributions)

	assert.Empty(t, changes)
}

func TestSensitivityAnalysis_DetectsRankFlip(t *testing.T) {
	weights := &WeightVector{Weights: []float64{0.5, 0.5}}
	contributions := []ItemContribution{
		// Scores are nearly tied with opposite strengths; shifting weight
		// toward either criterion flips the order.
		{ItemID: "item_a", Components: map[string]float64{"impact": 0.9, "effort": 0.1}},
		{ItemID: "item_b", Components: map[string]float64{"impact": 0.1, "effort": 0.89}},
	}

	changes := SensitivityAnalysis([]string{"impact", "effort"}, weights, 0.2, contributions)

	require.NotEmpty(t, changes)
	for _, change := range changes {
		assert.NotEqual(t, change.OldRank, change.NewRank)
		assert.Contains(t, []string{"impact", "effort"}, change.Criterion)
	}
}

func TestSensitivityAnalysis_OutputIsDeterministicallyOrdered(t *testing.T) {
	weights := &WeightVector{Weights: []float64{0.5, 0.5}}
	contributions := []ItemContribution{
		{ItemID: "item_a", Components: map[string]float64{"impact": 0.9, "effort": 0.1}},
		{ItemID: "item_b", Components: map[string]float64{"impact": 0.1, "effort": 0.89}},
	}

	first := SensitivityAnalysis([]string{"impact", "effort"}, weights, 0.2, contributions)
	second := SensitivityAnalysis([]string{"impact", "effort"}, weights, 0.2, contributions)

	assert.Equal(t, first, second)
}

func TestSensitivityAnalysis_RejectsDegenerateInputs(t *testing.T) {
	weights := &WeightVector{Weights: []float64{0.5, 0.5}}
	contributions := []ItemContribution{
		{ItemID: "item_a", Components: map[string]float64{"impact": 0.9}},
	}

	assert.Nil(t, SensitivityAnalysis([]string{"impact"}, weights, 0.1, contributions))      // name/weight length mismatch
	assert.Nil(t, SensitivityAnalysis([]string{"impact", "effort"}, weights, 0, contributions)) // zero perturbation
	assert.Nil(t, SensitivityAnalysis([]string{"impact", "effort"}, weights, 0.1, nil))      // no items
}
