package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompts(t *testing.T) {
	prompt, err := Get("enhancement.json", "align-item-context")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Context}}")
	assert.Contains(t, prompt, "{{.Title}}")
	assert.Contains(t, prompt, "alignment_score")

	probe, err := Get("enhancement.json", "health-probe")
	require.NoError(t, err)
	assert.NotEmpty(t, probe)
}

func TestGet_UnknownKeyFails(t *testing.T) {
	_, err := Get("enhancement.json", "no-such-prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-prompt")
}

func TestGet_UnknownFileFails(t *testing.T) {
	_, err := Get("missing.json", "align-item-context")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissingPrompt(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("enhancement.json", "no-such-prompt")
	})
}

func TestFormat_ReplacesPlaceholders(t *testing.T) {
	formatted := Format("Title: {{.Title}}\nGoals: {{.Context}}", map[string]string{
		"Title":   "Harden payments retries",
		"Context": "Expand the payments platform",
	})

	assert.Equal(t, "Title: Harden payments retries\nGoals: Expand the payments platform", formatted)
	assert.False(t, strings.Contains(formatted, "{{."))
}

func TestFormat_LeavesUnknownPlaceholders(t *testing.T) {
	formatted := Format("{{.Title}} and {{.Unknown}}", map[string]string{"Title": "x"})
	assert.Equal(t, "x and {{.Unknown}}", formatted)
}
