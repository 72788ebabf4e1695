package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/priority-engine/internal/llm"
	"github.com/jonathan/priority-engine/internal/prompts"
	"github.com/jonathan/priority-engine/internal/types"
)

// GeminiBackend implements the enhancement capability on top of the Gemini
// LLM client.
type GeminiBackend struct {
	client llm.Client
}

// NewGeminiBackend wraps an LLM client as an enhancement backend.
func NewGeminiBackend(client llm.Client) *GeminiBackend {
	return &GeminiBackend{client: client}
}

// HealthCheck sends a minimal generation request on the lite tier.
func (b *GeminiBackend) HealthCheck(ctx context.Context) bool {
	prompt := prompts.MustGet("enhancement.json", "health-probe")
	_, err := b.client.GenerateContent(ctx, prompt, llm.TierLite)
	return err == nil
}

// Analyze asks the model to assess the item's semantic alignment with the
// strategic goals.
func (b *GeminiBackend) Analyze(ctx context.Context, item *types.WorkItem, sc *types.StrategyContext) (*EnhancedResult, error) {
	prompt := b.buildPrompt(item, sc)

	jsonResp, err := b.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var result EnhancedResult
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(jsonResp)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w (content: %s)", err, jsonResp)
	}
	return &result, nil
}

// buildPrompt formats the alignment prompt from the embedded template.
func (b *GeminiBackend) buildPrompt(item *types.WorkItem, sc *types.StrategyContext) string {
	var fragments []string
	for _, f := range sc.Fragments {
		fragments = append(fragments, fmt.Sprintf("- %s", f.Text))
	}

	description := item.Description
	if description == "" {
		description = "Not specified"
	}

	template := prompts.MustGet("enhancement.json", "align-item-context")
	return prompts.Format(template, map[string]string{
		"Context":     strings.Join(fragments, "\n"),
		"Title":       item.Title,
		"Description": description,
	})
}
