package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyText(t *testing.T) {
	out, _, err := execute(t, "simplify", filepath.Join(harnessScenarios, "simplify_not_not.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "scenario: simplify_not_not (simplify)")
	assert.Contains(t, out, "simplified: q.a IS NULL")
	assert.Contains(t, out, "steps: 1")
	assert.NotContains(t, out, "[1]")
}

func TestSimplifyVerbosePrintsTrace(t *testing.T) {
	out, _, err := execute(t, "simplify", filepath.Join(harnessScenarios, "simplify_not_not.yaml"), "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "  [1] not_not (root): not (not (q.a IS NULL)) => q.a IS NULL")
}

func TestSimplifyJSON(t *testing.T) {
	out, _, err := execute(t, "simplify", filepath.Join(harnessScenarios, "simplify_not_not.yaml"), "--format", "json")
	require.NoError(t, err)

	var data struct {
		Scenario   string `json:"scenario"`
		Kind       string `json:"kind"`
		Pass       bool   `json:"pass"`
		Simplified string `json:"simplified"`
		Steps      int    `json:"steps"`
		Trace      []struct {
			Rule string `json:"rule"`
			Root bool   `json:"root"`
		} `json:"trace"`
	}
	resp := decodeResponse(t, out, &data)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "simplify_not_not", data.Scenario)
	assert.True(t, data.Pass)
	assert.Equal(t, "q.a IS NULL", data.Simplified)
	assert.Equal(t, 1, data.Steps)
	require.Len(t, data.Trace, 1)
	assert.Equal(t, "not_not", data.Trace[0].Rule)
	assert.True(t, data.Trace[0].Root)
}

func TestSimplifyFailedExpectation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wrong.yaml", `name: wrong
description: "expects the wrong field"
kind: simplify
rules: [not_not]
predicate:
  not:
    not:
      is_null: {field: q.a}
expect:
  simplified: "q.b IS NULL"
`)

	out, _, err := execute(t, "simplify", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "simplified: q.a IS NULL")
	assert.Contains(t, out, "FAIL [E202]")
}

func TestSimplifyQuotaReportsError(t *testing.T) {
	out, _, err := execute(t, "simplify", filepath.Join(harnessScenarios, "simplify_quota.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "error: QUOTA_EXCEEDED")
}

func TestSimplifyWrongKind(t *testing.T) {
	_, _, err := execute(t, "simplify", filepath.Join(harnessScenarios, "match_exact.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `want "simplify"`)
}

func TestSimplifyMissingFile(t *testing.T) {
	_, _, err := execute(t, "simplify", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSimplifyMissingArg(t *testing.T) {
	_, _, err := execute(t, "simplify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestSimplifyWithNamedRuleSet(t *testing.T) {
	rulesDir := t.TempDir()
	writeFile(t, rulesDir, "cleanup.cue", cleanupRuleSet)

	out, _, err := execute(t, "simplify", filepath.Join(harnessChecks, "simplify_named_ruleset.yaml"), "--rules", rulesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "simplified: (FALSE) or (q.a IS NULL)")
}

func TestSimplifyNamedRuleSetMissing(t *testing.T) {
	_, _, err := execute(t, "simplify", filepath.Join(harnessChecks, "simplify_named_ruleset.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSimplifyInvalidRuleSets(t *testing.T) {
	rulesDir := t.TempDir()
	writeFile(t, rulesDir, "bad.cue", "package rules\n\nruleset: cleanup: rules: [\"no_such_rule\"]\n")

	_, _, err := execute(t, "simplify", filepath.Join(harnessChecks, "simplify_named_ruleset.yaml"), "--rules", rulesDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid rule sets")
}

func TestMatchText(t *testing.T) {
	out, _, err := execute(t, "match", filepath.Join(harnessScenarios, "match_compensated.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "outcome: compensated")
	assert.Contains(t, out, "compensation: ((c.x > 3) and (c.x < 10))")
}

func TestMatchJSON(t *testing.T) {
	out, _, err := execute(t, "match", filepath.Join(harnessScenarios, "match_none.yaml"), "--format", "json")
	require.NoError(t, err)

	var data struct {
		Outcome string `json:"outcome"`
	}
	resp := decodeResponse(t, out, &data)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "no_match", data.Outcome)
}

func TestMatchWrongKind(t *testing.T) {
	_, _, err := execute(t, "match", filepath.Join(harnessScenarios, "simplify_not_not.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
