package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, _, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyDirJSON(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var data TestResult
	resp := decodeResponse(t, out, &data)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, data.Total)
	assert.Empty(t, data.Scenarios)
}

func TestTestCommandGoldenScenarios(t *testing.T) {
	out, _, err := execute(t, "test", harnessScenarios, "--golden", harnessGolden)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ simplify_not_not")
	assert.Contains(t, out, "✓ match_compensated")
	assert.Contains(t, out, "Test Summary: 6 passed, 0 failed, 6 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandGoldenScenariosJSON(t *testing.T) {
	out, _, err := execute(t, "test", harnessScenarios, "--golden", harnessGolden, "--format", "json")
	require.NoError(t, err)

	var data TestResult
	decodeResponse(t, out, &data)
	require.Equal(t, 6, data.Total)
	for _, s := range data.Scenarios {
		assert.True(t, s.Pass, s.Name)
		assert.Equal(t, "match", s.Golden, s.Name)
	}
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := execute(t, "test", harnessScenarios, "--golden", harnessGolden, "--filter", "match_*", "--format", "json")
	require.NoError(t, err)

	var data TestResult
	decodeResponse(t, out, &data)
	assert.Equal(t, 3, data.Total)
	for _, s := range data.Scenarios {
		assert.Equal(t, "match", s.Kind)
	}
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, _, err := execute(t, "test", harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandChecksWithRuleSets(t *testing.T) {
	rulesDir := t.TempDir()
	writeFile(t, rulesDir, "cleanup.cue", cleanupRuleSet)

	out, _, err := execute(t, "test", harnessChecks, "--rules", rulesDir, "--format", "json")
	require.NoError(t, err)

	var data TestResult
	decodeResponse(t, out, &data)
	assert.Equal(t, 6, data.Total)
	assert.Equal(t, 6, data.Passed)
	for _, s := range data.Scenarios {
		assert.Equal(t, "missing", s.Golden, s.Name)
	}
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "simplify_not_not.yaml", notNotScenario)

	out, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ simplify_not_not (golden updated)")

	written, err := os.ReadFile(filepath.Join(dir, "golden", "simplify_not_not.golden"))
	require.NoError(t, err)
	expected, err := os.ReadFile(filepath.Join(harnessGolden, "simplify_not_not.golden"))
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(written))

	out, _, err = execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "simplify_not_not.yaml", notNotScenario)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	writeFile(t, filepath.Join(dir, "golden"), "simplify_not_not.golden", `{"scenario":"simplify_not_not","steps":0,"trace":[]}`)

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ simplify_not_not")
	assert.Contains(t, out, "does not match golden file")
	assert.Contains(t, out, "FAIL [E203]")
}

func TestTestCommandBadScenarioFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\nunknown_field: 1\n")

	_, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
