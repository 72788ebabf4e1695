package ahp

import "sort"

// ItemContribution holds one item's normalized per-criterion components,
// keyed by criterion name, as produced by the scoring orchestrator.
type ItemContribution struct {
	ItemID     string             `json:"item_id"`
	Components map[string]float64 `json:"components"`
}

// RankChange reports that perturbing one criterion's weight moved an item
// to a different rank position.
type RankChange struct {
	Criterion    string  `json:"criterion"`
	Perturbation float64 `json:"perturbation"`
	ItemID       string  `json:"item_id"`
	OldRank      int     `json:"old_rank"`
	NewRank      int     `json:"new_rank"`
}

// SensitivityAnalysis perturbs each criterion weight by +/- the given
// relative perturbation (e.g. 0.1 for 10%), renormalizes the vector, and
// reports every resulting rank-order change. An empty result supports audit
// claims that the ranking is stable under the tested perturbation.
func SensitivityAnalysis(names []string, weights *WeightVector, perturbation float64, contributions []ItemContribution) []RankChange {
	if len(names) != weights.Len() || len(contributions) == 0 || perturbation <= 0 {
		return nil
	}

	baseRanks := rankContributions(names, weights.Weights, contributions)

	var changes []RankChange
	for k, name := range names {
		for _, direction := range []float64{1, -1} {
			delta := direction * perturbation
			perturbed := perturbWeight(weights.Weights, k, delta)
			newRanks := rankContributions(names, perturbed, contributions)
			for itemID, oldRank := range baseRanks {
				if newRanks[itemID] != oldRank {
					changes = append(changes, RankChange{
						Criterion:    name,
						Perturbation: delta,
						ItemID:       itemID,
						OldRank:      oldRank,
						NewRank:      newRanks[itemID],
					})
				}
			}
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Criterion != changes[j].Criterion {
			return changes[i].Criterion < changes[j].Criterion
		}
		if changes[i].Perturbation != changes[j].Perturbation {
			return changes[i].Perturbation > changes[j].Perturbation
		}
		return changes[i].ItemID < changes[j].ItemID
	})
	return changes
}

// perturbWeight scales weight k by (1+delta), floors at zero, and
// renormalizes the vector to sum 1.
func perturbWeight(weights []float64, k int, delta float64) []float64 {
	perturbed := make([]float64, len(weights))
	copy(perturbed, weights)
	perturbed[k] *= 1 + delta
	if perturbed[k] < 0 {
		perturbed[k] = 0
	}
	sum := 0.0
	for _, w := range perturbed {
		sum += w
	}
	if sum == 0 {
		return weights
	}
	for i := range perturbed {
		perturbed[i] /= sum
	}
	return perturbed
}

// rankContributions computes weighted sums and assigns dense ranks,
// descending by score with ascending item-id tie-break.
func rankContributions(names []string, weights []float64, contributions []ItemContribution) map[string]int {
	type scored struct {
		itemID string
		score  float64
	}
	items := make([]scored, 0, len(contributions))
	for _, c := range contributions {
		total := 0.0
		for k, name := range names {
			total += weights[k] * c.Components[name]
		}
		items = append(items, scored{itemID: c.ItemID, score: total})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].itemID < items[j].itemID
	})

	ranks := make(map[string]int, len(items))
	for i, item := range items {
		ranks[item.itemID] = i + 1
	}
	return ranks
}
