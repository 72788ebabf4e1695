package ahp

// ConsistencyReport summarizes a matrix's consistency for interactive
// judgment-collection feedback, usable standalone without producing a
// weight vector.
type ConsistencyReport struct {
	Size           int             `json:"size"`
	Ratio          float64         `json:"ratio"`
	Threshold      float64         `json:"threshold"`
	Consistent     bool            `json:"consistent"`
	Weights        []float64       `json:"weights,omitempty"`
	WorstOffenders []OffendingPair `json:"worst_offenders,omitempty"`
}

// Report derives the consistency ratio of a matrix and reports whether it
// passes the threshold. Weights are included only when the matrix is
// consistent; an inconsistent matrix instead reports its worst-offending
// judgment pairs.
func Report(m *ComparisonMatrix, threshold float64) ConsistencyReport {
	if threshold <= 0 {
		threshold = DefaultConsistencyThreshold
	}

	weights, ratio := DeriveWeights(m)
	report := ConsistencyReport{
		Size:       m.Size(),
		Ratio:      ratio,
		Threshold:  threshold,
		Consistent: ratio <= threshold,
	}
	if report.Consistent {
		report.Weights = weights.Weights
	} else {
		report.WorstOffenders = worstOffenders(m, weights, 3)
	}
	return report
}
