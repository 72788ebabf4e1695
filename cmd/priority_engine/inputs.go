// Package main implements the priority_engine CLI tool for AHP-based work
// prioritization.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/priority-engine/internal/ahp"
	"github.com/jonathan/priority-engine/internal/criteria"
	"github.com/jonathan/priority-engine/internal/ingestion"
	"github.com/jonathan/priority-engine/internal/schemas"
	"github.com/jonathan/priority-engine/internal/types"
)

// judgmentsFile is the on-disk shape of the criteria-and-judgments input.
type judgmentsFile struct {
	Criteria  []criteria.Spec          `json:"criteria"`
	Alignment criteria.AlignmentConfig `json:"alignment"`
	Judgments []ahp.Judgment           `json:"judgments"`
}

// loadJudgmentsFile reads, schema-validates, and decodes the criteria and
// pairwise judgments, returning the validated criteria set alongside the
// built comparison matrix. shareDefault supplies the alignment share when
// the file's alignment section leaves it unset; an explicit share in the
// file always wins.
func loadJudgmentsFile(path string, shareDefault *float64) (*criteria.Set, *ahp.ComparisonMatrix, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read judgments file %s: %w", path, err)
	}

	if err := schemas.ValidateJudgments(string(content)); err != nil {
		return nil, nil, fmt.Errorf("judgments file %s is invalid: %w", path, err)
	}

	var file judgmentsFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal judgments JSON: %w", err)
	}
	if file.Alignment.Share == nil {
		file.Alignment.Share = shareDefault
	}

	set, err := criteria.DefineCriteria(file.Criteria, file.Alignment)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to define criteria: %w", err)
	}

	matrix, err := ahp.BuildMatrix(set.Len(), file.Judgments)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build comparison matrix: %w", err)
	}

	return set, matrix, nil
}

// loadWorkItems reads, schema-validates, and decodes the work items input.
func loadWorkItems(path string) ([]types.WorkItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file %s: %w", path, err)
	}

	if err := schemas.ValidateWorkItems(string(content)); err != nil {
		return nil, fmt.Errorf("items file %s is invalid: %w", path, err)
	}

	var items []types.WorkItem
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal work items JSON: %w", err)
	}

	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("work item %d is invalid: %w", i, err)
		}
	}

	return items, nil
}

// loadStrategyContext reads a strategy context from a JSON fragment file,
// an HTML document, or plain text, selected by extension.
func loadStrategyContext(path string) (*types.StrategyContext, error) {
	if path == "" {
		return &types.StrategyContext{}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read context file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := schemas.ValidateStrategyContext(string(content)); err != nil {
			return nil, fmt.Errorf("context file %s is invalid: %w", path, err)
		}
		var sc types.StrategyContext
		if err := json.Unmarshal(content, &sc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal strategy context JSON: %w", err)
		}
		return &sc, nil
	case ".html", ".htm":
		return ingestion.ContextFromHTML(string(content))
	default:
		return ingestion.ContextFromText(string(content))
	}
}

// writeJSONOutput marshals v with indentation and writes it to path,
// creating the output directory if needed.
func writeJSONOutput(path string, v any) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	return nil
}
