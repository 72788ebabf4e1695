package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJudgmentsFile_Valid(t *testing.T) {
	path := writeTempFile(t, "judgments.json", `{
		"criteria": [
			{"name": "impact", "method": "minmax", "polarity": "higher_is_better", "min": 0, "max": 10},
			{"name": "risk", "method": "value_map", "value_map": {"low": 1.0, "high": 0.1}}
		],
		"alignment": {"share": 0.25},
		"judgments": [{"row": 0, "col": 1, "ratio": 3}]
	}`)

	set, matrix, err := loadJudgmentsFile(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"impact", "risk"}, set.Names())
	assert.Equal(t, 0.25, set.AlignmentShare())
	assert.Equal(t, 2, matrix.Size())
	assert.Equal(t, 3.0, matrix.Entry(0, 1))
}

func TestLoadJudgmentsFile_ConfigShareAppliesWhenFileOmitsIt(t *testing.T) {
	path := writeTempFile(t, "judgments.json", `{
		"criteria": [
			{"name": "impact", "method": "minmax", "polarity": "higher_is_better", "min": 0, "max": 10},
			{"name": "risk", "method": "value_map", "value_map": {"low": 1.0, "high": 0.1}}
		],
		"judgments": [{"row": 0, "col": 1, "ratio": 3}]
	}`)

	share := 0.5
	set, _, err := loadJudgmentsFile(path, &share)
	require.NoError(t, err)
	assert.Equal(t, 0.5, set.AlignmentShare())

	// Without a configured share the criteria-level default applies.
	set, _, err = loadJudgmentsFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.25, set.AlignmentShare())
}

func TestLoadJudgmentsFile_FileShareWinsOverConfigShare(t *testing.T) {
	path := writeTempFile(t, "judgments.json", `{
		"criteria": [
			{"name": "impact", "method": "minmax", "polarity": "higher_is_better", "min": 0, "max": 10},
			{"name": "risk", "method": "value_map", "value_map": {"low": 1.0, "high": 0.1}}
		],
		"alignment": {"share": 0.1},
		"judgments": [{"row": 0, "col": 1, "ratio": 3}]
	}`)

	share := 0.5
	set, _, err := loadJudgmentsFile(path, &share)
	require.NoError(t, err)
	assert.Equal(t, 0.1, set.AlignmentShare())
}

func TestLoadJudgmentsFile_SchemaViolationFails(t *testing.T) {
	path := writeTempFile(t, "judgments.json", `{
		"criteria": [{"name": "impact", "method": "zscore"}],
		"judgments": []
	}`)

	_, _, err := loadJudgmentsFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoadJudgmentsFile_OutOfScaleRatioFails(t *testing.T) {
	path := writeTempFile(t, "judgments.json", `{
		"criteria": [
			{"name": "impact", "method": "minmax", "polarity": "higher_is_better", "min": 0, "max": 10},
			{"name": "risk", "method": "value_map", "value_map": {"low": 1.0}}
		],
		"judgments": [{"row": 0, "col": 1, "ratio": 50}]
	}`)

	_, _, err := loadJudgmentsFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comparison matrix")
}

func TestLoadWorkItems_Valid(t *testing.T) {
	path := writeTempFile(t, "items.json", `[
		{"id": "item_001", "title": "Migrate billing", "values": {"impact": 8, "risk": "low"}}
	]`)

	items, err := loadWorkItems(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item_001", items[0].ID)
}

func TestLoadWorkItems_MissingTitleFails(t *testing.T) {
	path := writeTempFile(t, "items.json", `[{"id": "item_001"}]`)

	_, err := loadWorkItems(path)
	assert.Error(t, err)
}

func TestLoadStrategyContext_SelectsByExtension(t *testing.T) {
	jsonPath := writeTempFile(t, "context.json", `{"fragments": [{"id": "frag_001", "text": "Expand the payments platform"}]}`)
	textPath := writeTempFile(t, "context.txt", "Expand the payments platform.\n\nReduce infrastructure cost overall.")
	htmlPath := writeTempFile(t, "context.html", `<html><body><p>Expand the payments platform.</p></body></html>`)

	fromJSON, err := loadStrategyContext(jsonPath)
	require.NoError(t, err)
	assert.Len(t, fromJSON.Fragments, 1)

	fromText, err := loadStrategyContext(textPath)
	require.NoError(t, err)
	assert.Len(t, fromText.Fragments, 2)

	fromHTML, err := loadStrategyContext(htmlPath)
	require.NoError(t, err)
	assert.Len(t, fromHTML.Fragments, 1)
}

func TestLoadStrategyContext_EmptyPathYieldsEmptyContext(t *testing.T) {
	sc, err := loadStrategyContext("")
	require.NoError(t, err)
	assert.True(t, sc.Empty())
}

func TestWriteJSONOutput_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "result.json")

	require.NoError(t, writeJSONOutput(path, map[string]string{"ok": "yes"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"ok": "yes"`)
}
