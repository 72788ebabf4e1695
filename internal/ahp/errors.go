// Package ahp implements the consistency-validated pairwise comparison
// engine (Analytic Hierarchy Process).
package ahp

import (
	"fmt"
	"strings"
)

// MatrixError represents an invalid judgment or matrix construction problem.
type MatrixError struct {
	Message string
}

func (e *MatrixError) Error() string {
	return fmt.Sprintf("comparison matrix error: %s", e.Message)
}

// OffendingPair identifies one pairwise judgment that contradicts the
// derived weight vector, measured against the rank-1 reconstruction w_i/w_j.
type OffendingPair struct {
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Judgment float64 `json:"judgment"`
	Implied  float64 `json:"implied"`
	Residual float64 `json:"residual"`
}

// ConsistencyError means the judgments fail the consistency threshold.
// Recoverable by the caller: the worst-offending pairs point at the
// judgments to revisit. No weight vector is produced.
type ConsistencyError struct {
	Ratio          float64
	Threshold      float64
	WorstOffenders []OffendingPair
}

func (e *ConsistencyError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("consistency ratio %.4f exceeds threshold %.4f", e.Ratio, e.Threshold))
	if len(e.WorstOffenders) > 0 {
		sb.WriteString("; worst-offending judgments:")
		for _, pair := range e.WorstOffenders {
			sb.WriteString(fmt.Sprintf(" (%d,%d)=%.3f implied %.3f", pair.Row, pair.Col, pair.Judgment, pair.Implied))
		}
	}
	return sb.String()
}
