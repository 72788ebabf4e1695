package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/priority-engine/internal/ahp"
	"github.com/jonathan/priority-engine/internal/observability"
	"github.com/jonathan/priority-engine/internal/scoring"
	"github.com/jonathan/priority-engine/internal/types"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Report ranking stability under weight perturbation",
	Long:  "Perturbs each criterion weight up and down by a relative amount, renormalizes, and reports every rank change in a previously produced ranking. An empty report means the ranking is stable under the tested perturbation.",
	RunE:  runSensitivity,
}

var (
	sensitivityJudgments    string
	sensitivityResult       string
	sensitivityPerturbation float64
	sensitivityOutput       string
)

func init() {
	sensitivityCmd.Flags().StringVarP(&sensitivityJudgments, "judgments", "j", "", "Path to input criteria and judgments JSON file (required)")
	sensitivityCmd.Flags().StringVarP(&sensitivityResult, "result", "r", "", "Path to ranked result JSON produced by the rank command (required)")
	sensitivityCmd.Flags().Float64VarP(&sensitivityPerturbation, "perturbation", "p", 0.1, "Relative weight perturbation (0.1 = 10%)")
	sensitivityCmd.Flags().StringVarP(&sensitivityOutput, "out", "o", "", "Path to output rank changes JSON file (optional)")

	if err := sensitivityCmd.MarkFlagRequired("judgments"); err != nil {
		panic(fmt.Sprintf("failed to mark judgments flag as required: %v", err))
	}
	if err := sensitivityCmd.MarkFlagRequired("result"); err != nil {
		panic(fmt.Sprintf("failed to mark result flag as required: %v", err))
	}

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivity(_ *cobra.Command, _ []string) error {
	criteriaSet, matrix, err := loadJudgmentsFile(sensitivityJudgments, nil)
	if err != nil {
		return err
	}

	resultContent, err := os.ReadFile(sensitivityResult)
	if err != nil {
		return fmt.Errorf("failed to read result file %s: %w", sensitivityResult, err)
	}

	var result types.RankedResult
	if err := json.Unmarshal(resultContent, &result); err != nil {
		return fmt.Errorf("failed to unmarshal ranked result JSON: %w", err)
	}

	weights, _, err := ahp.DeriveValidatedWeights(matrix, ahp.DefaultConsistencyThreshold)
	if err != nil {
		return fmt.Errorf("judgments fail consistency validation: %w", err)
	}

	changes := ahp.SensitivityAnalysis(criteriaSet.Names(), weights, sensitivityPerturbation, scoring.Contributions(&result))

	if sensitivityOutput != "" {
		if err := writeJSONOutput(sensitivityOutput, changes); err != nil {
			return err
		}
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintSensitivity(changes)

	return nil
}
