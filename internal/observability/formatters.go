// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/priority-engine/internal/ahp"
	"github.com/jonathan/priority-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintConsistencyReport outputs the consistency check result, including the
// derived weights when accepted and the worst offending pairs when not.
func (p *Printer) PrintConsistencyReport(report *ahp.ConsistencyReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Consistency ratio: %.4f (threshold %.2f)\n", report.Ratio, report.Threshold))
	if report.Consistent {
		sb.WriteString("Verdict: ACCEPTED\n\n")
		sb.WriteString("Derived weights:\n")
		for i, w := range report.Weights {
			sb.WriteString(fmt.Sprintf("  w[%d] = %.4f\n", i, w))
		}
	} else {
		sb.WriteString("Verdict: REJECTED\n\n")
		sb.WriteString("Most inconsistent judgments:\n")
		for _, pair := range report.WorstOffenders {
			sb.WriteString(fmt.Sprintf("  (%d,%d) stated %.2f, implied %.2f\n",
				pair.Row, pair.Col, pair.Judgment, pair.Implied))
		}
	}

	p.printBox("CONSISTENCY CHECK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWeightVector outputs the derived criterion weights.
func (p *Printer) PrintWeightVector(weights []types.CriterionWeight) {
	if len(weights) == 0 {
		return
	}

	var sb strings.Builder
	for _, w := range weights {
		bar := strings.Repeat("█", int(w.Weight*30+0.5))
		sb.WriteString(fmt.Sprintf("%-20s %.4f %s\n", w.Criterion, w.Weight, bar))
	}

	p.printBox("CRITERION WEIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the ranked work items with scores and provenance markers.
func (p *Printer) PrintRanking(result *types.RankedResult) {
	if result == nil || len(result.Scores) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run %s  (CR %.4f", result.RunID, result.ConsistencyRatio))
	if result.FromCache {
		sb.WriteString(", cached")
	}
	sb.WriteString(")\n\n")

	count := min(len(result.Scores), maxItemsToShow)
	for i := 0; i < count; i++ {
		score := result.Scores[i]
		sb.WriteString(fmt.Sprintf("#%-3d %s\n", score.Rank, score.ItemID))
		sb.WriteString(fmt.Sprintf("     Score: %.4f", score.FinalScore))
		if score.Alignment != nil {
			sb.WriteString(fmt.Sprintf("  (alignment %.2f via %s)", score.Alignment.Score, score.Alignment.Path))
		}
		sb.WriteString("\n")
		if score.Provenance.FellBack {
			sb.WriteString(fmt.Sprintf("     Fallback: %s\n", score.Provenance.FallbackReason))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(result.Scores) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more items", len(result.Scores)-maxItemsToShow))
	}

	p.printBox("RANKED WORK ITEMS", sb.String())
}

// PrintSensitivity outputs rank changes observed under weight perturbation.
func (p *Printer) PrintSensitivity(changes []ahp.RankChange) {
	if len(changes) == 0 {
		p.printBox("SENSITIVITY ANALYSIS", "Ranking is stable under perturbation")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d rank changes:\n\n", len(changes)))

	count := min(len(changes), maxItemsToShow)
	for i := 0; i < count; i++ {
		change := changes[i]
		sb.WriteString(fmt.Sprintf("⚠ %s %+0.0f%%: %s  #%d → #%d\n",
			change.Criterion, change.Perturbation*100, change.ItemID,
			change.OldRank, change.NewRank))
	}

	if len(changes) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more changes", len(changes)-maxItemsToShow))
	}

	p.printBox("SENSITIVITY ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}
