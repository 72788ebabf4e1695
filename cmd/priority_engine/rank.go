package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/priority-engine/internal/alignment"
	"github.com/jonathan/priority-engine/internal/cache"
	"github.com/jonathan/priority-engine/internal/config"
	"github.com/jonathan/priority-engine/internal/enhance"
	"github.com/jonathan/priority-engine/internal/llm"
	"github.com/jonathan/priority-engine/internal/observability"
	"github.com/jonathan/priority-engine/internal/scoring"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank work items by weighted criteria and strategic alignment",
	Long:  "Derives criterion weights from pairwise judgments, validates their consistency, scores every work item against the criteria and the strategy context, and writes a ranked result JSON.",
	RunE:  runRank,
}

var (
	rankConfig    string
	rankItems     string
	rankJudgments string
	rankContext   string
	rankOutput    string
	rankEnhance   bool
	rankVerbose   bool
)

func init() {
	rankCmd.Flags().StringVarP(&rankConfig, "config", "c", "", "Path to JSON config file (optional)")
	rankCmd.Flags().StringVarP(&rankItems, "items", "i", "", "Path to input work items JSON file (required)")
	rankCmd.Flags().StringVarP(&rankJudgments, "judgments", "j", "", "Path to input criteria and judgments JSON file (required)")
	rankCmd.Flags().StringVarP(&rankContext, "context", "s", "", "Path to strategy context file (JSON, HTML, or text)")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Path to output ranked result JSON file (required)")
	rankCmd.Flags().BoolVar(&rankEnhance, "enhance", false, "Enable LLM enhancement of alignment scores (requires GEMINI_API_KEY)")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print detailed ranking output")

	if err := rankCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{
		Items:     rankItems,
		Judgments: rankJudgments,
		Context:   rankContext,
		Enhance:   rankEnhance,
		Verbose:   rankVerbose,
	}

	// 1. Merge config file values as flag defaults
	if rankConfig != "" {
		fileCfg, err := config.LoadConfig(rankConfig)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		if !cmd.Flags().Changed("enhance") {
			cfg.Enhance = cfg.Enhance || fileCfg.Enhance
		}
	}
	cfg = cfg.MergeWithDefaults(config.Config{})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Items == "" {
		return fmt.Errorf("items path is required (flag --items or config 'items')")
	}
	if cfg.Judgments == "" {
		return fmt.Errorf("judgments path is required (flag --judgments or config 'judgments')")
	}

	// 2. Load and validate inputs
	criteriaSet, matrix, err := loadJudgmentsFile(cfg.Judgments, cfg.AlignmentShare)
	if err != nil {
		return err
	}

	items, err := loadWorkItems(cfg.Items)
	if err != nil {
		return err
	}

	strategyContext, err := loadStrategyContext(cfg.Context)
	if err != nil {
		return err
	}

	// 3. Optionally wire the enhancement adapter
	var enhancer *enhance.Adapter
	if cfg.Enhance {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("enhancement requested but no API key found (config 'api_key' or GEMINI_API_KEY)")
		}

		client, err := llm.NewClient(cmd.Context(), nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()

		enhanceOpts := enhance.DefaultOptions()
		if cfg.EnhanceTimeout() > 0 {
			enhanceOpts.Timeout = cfg.EnhanceTimeout()
		}
		enhancer = enhance.NewAdapter(enhance.NewGeminiBackend(client), enhanceOpts)
	}

	// 4. Score and rank
	opts := scoring.DefaultOptions()
	opts.ConsistencyThreshold = cfg.ConsistencyThreshold
	opts.UnmappedPolicy = scoring.UnmappedPolicy(cfg.UnmappedPolicy)
	opts.Workers = cfg.Workers
	opts.EnhancementTimeout = cfg.EnhanceTimeout()
	opts.OnWarning = func(itemID string, warning error) {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", itemID, warning)
	}

	orchestrator := scoring.New(criteriaSet, alignment.NewScorer(alignment.DefaultConfig()), enhancer, cache.New(), opts)
	result, err := orchestrator.ScoreAndRank(cmd.Context(), matrix, items, strategyContext)
	if err != nil {
		return fmt.Errorf("failed to rank items: %w", err)
	}

	// 5. Write output
	if err := writeJSONOutput(rankOutput, result); err != nil {
		return err
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintWeightVector(result.Weights)
		printer.PrintRanking(result)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Successfully ranked %d items to %s\n", len(result.Scores), rankOutput)

	return nil
}
