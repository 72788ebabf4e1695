package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/priority-engine/internal/ahp"
	"github.com/jonathan/priority-engine/internal/observability"
)

var validateMatrixCmd = &cobra.Command{
	Use:   "validate-matrix",
	Short: "Check pairwise judgments for consistency",
	Long:  "Builds the comparison matrix from pairwise judgments and reports its consistency ratio, the derived weights when accepted, and the most inconsistent judgment pairs when rejected. No ranking is performed.",
	RunE:  runValidateMatrix,
}

var (
	validateMatrixJudgments string
	validateMatrixThreshold float64
	validateMatrixOutput    string
)

func init() {
	validateMatrixCmd.Flags().StringVarP(&validateMatrixJudgments, "judgments", "j", "", "Path to input criteria and judgments JSON file (required)")
	validateMatrixCmd.Flags().Float64VarP(&validateMatrixThreshold, "threshold", "t", ahp.DefaultConsistencyThreshold, "Maximum acceptable consistency ratio")
	validateMatrixCmd.Flags().StringVarP(&validateMatrixOutput, "out", "o", "", "Path to output consistency report JSON file (optional)")

	if err := validateMatrixCmd.MarkFlagRequired("judgments"); err != nil {
		panic(fmt.Sprintf("failed to mark judgments flag as required: %v", err))
	}

	rootCmd.AddCommand(validateMatrixCmd)
}

func runValidateMatrix(_ *cobra.Command, _ []string) error {
	_, matrix, err := loadJudgmentsFile(validateMatrixJudgments, nil)
	if err != nil {
		return err
	}

	report := ahp.Report(matrix, validateMatrixThreshold)

	if validateMatrixOutput != "" {
		if err := writeJSONOutput(validateMatrixOutput, report); err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintConsistencyReport(&report)

	if !report.Consistent {
		return fmt.Errorf("matrix is inconsistent: ratio %.4f exceeds threshold %.2f", report.Ratio, report.Threshold)
	}

	return nil
}
