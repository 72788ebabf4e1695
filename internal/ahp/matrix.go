package ahp

import "fmt"

// Bounds of the pairwise judgment scale. A ratio expresses "i is ratio times
// as important as j"; reciprocals below 1 express the inverse judgment.
const (
	MinJudgmentRatio = 1.0 / 9.0
	MaxJudgmentRatio = 9.0
)

// Judgment is one raw pairwise comparison between criteria at positions
// Row and Col: criterion Row is Ratio times as important as criterion Col.
type Judgment struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Ratio float64 `json:"ratio"`
}

// ComparisonMatrix is an n x n reciprocal matrix of pairwise judgments:
// unit diagonal, entry[j][i] = 1/entry[i][j] by construction. It is rebuilt
// fully on any judgment change, never partially mutated.
type ComparisonMatrix struct {
	n       int
	entries [][]float64
}

// BuildMatrix constructs a reciprocal comparison matrix of size n from raw
// judgments. Pairs with no judgment default to 1 (equal importance).
// Out-of-range indices, out-of-scale ratios, diagonal judgments, and
// conflicting duplicates are rejected.
func BuildMatrix(n int, judgments []Judgment) (*ComparisonMatrix, error) {
	if n < 1 {
		return nil, &MatrixError{Message: fmt.Sprintf("matrix size must be at least 1, got %d", n)}
	}

	entries := make([][]float64, n)
	for i := range entries {
		entries[i] = make([]float64, n)
		for j := range entries[i] {
			entries[i][j] = 1.0
		}
	}

	seen := make(map[[2]int]float64, len(judgments))
	for _, j := range judgments {
		if j.Row < 0 || j.Row >= n || j.Col < 0 || j.Col >= n {
			return nil, &MatrixError{Message: fmt.Sprintf("judgment (%d,%d) is out of range for a %dx%d matrix", j.Row, j.Col, n, n)}
		}
		if j.Row == j.Col {
			return nil, &MatrixError{Message: fmt.Sprintf("judgment (%d,%d) compares a criterion with itself", j.Row, j.Col)}
		}
		if j.Ratio < MinJudgmentRatio || j.Ratio > MaxJudgmentRatio {
			return nil, &MatrixError{Message: fmt.Sprintf("judgment ratio %g is outside the bounded scale [1/9, 9]", j.Ratio)}
		}

		key := [2]int{j.Row, j.Col}
		if prev, dup := seen[key]; dup && prev != j.Ratio {
			return nil, &MatrixError{Message: fmt.Sprintf("conflicting judgments for pair (%d,%d): %g and %g", j.Row, j.Col, prev, j.Ratio)}
		}
		reverse := [2]int{j.Col, j.Row}
		if prev, dup := seen[reverse]; dup && prev != 1.0/j.Ratio {
			return nil, &MatrixError{Message: fmt.Sprintf("judgment for pair (%d,%d) contradicts the reciprocal of (%d,%d)", j.Row, j.Col, j.Col, j.Row)}
		}
		seen[key] = j.Ratio

		entries[j.Row][j.Col] = j.Ratio
		entries[j.Col][j.Row] = 1.0 / j.Ratio
	}

	return &ComparisonMatrix{n: n, entries: entries}, nil
}

// Size returns the matrix dimension.
func (m *ComparisonMatrix) Size() int {
	return m.n
}

// Entry returns the judgment at (i, j).
func (m *ComparisonMatrix) Entry(i, j int) float64 {
	return m.entries[i][j]
}
