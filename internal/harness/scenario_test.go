package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario("testdata/scenarios/match_compensated.yaml")
	require.NoError(t, err)

	assert.Equal(t, "match_compensated", sc.Name)
	assert.Equal(t, KindMatch, sc.Kind)
	assert.Equal(t, map[string]string{"q": "c"}, sc.Aliases)
	assert.False(t, sc.Predicate.IsZero())
	assert.False(t, sc.Candidate.IsZero())
	assert.Equal(t, "compensated", sc.Expect.Outcome)
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nkind: simplify\npredicate: true\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nkind: simplify\npredicate: true\n",
			wantErr: "description is required",
		},
		{
			name:    "missing predicate",
			content: "name: n\ndescription: d\nkind: simplify\n",
			wantErr: "predicate is required",
		},
		{
			name:    "missing kind",
			content: "name: n\ndescription: d\npredicate: true\n",
			wantErr: "kind is required",
		},
		{
			name:    "unknown kind",
			content: "name: n\ndescription: d\nkind: explore\npredicate: true\n",
			wantErr: `unknown kind "explore"`,
		},
		{
			name:    "match without candidate",
			content: "name: n\ndescription: d\nkind: match\npredicate: true\n",
			wantErr: "require a candidate",
		},
		{
			name:    "candidate outside match",
			content: "name: n\ndescription: d\nkind: simplify\npredicate: true\ncandidate: true\n",
			wantErr: "only valid for match",
		},
		{
			name:    "negative max steps",
			content: "name: n\ndescription: d\nkind: simplify\npredicate: true\nmax_steps: -1\n",
			wantErr: "max_steps",
		},
		{
			name:    "bad eval",
			content: "name: n\ndescription: d\nkind: simplify\npredicate: true\nexpect: {eval: maybe}\n",
			wantErr: "expect.eval",
		},
		{
			name:    "bad outcome",
			content: "name: n\ndescription: d\nkind: match\npredicate: true\ncandidate: true\nexpect: {outcome: partial}\n",
			wantErr: "expect.outcome",
		},
		{
			name:    "unknown field",
			content: "name: n\ndescription: d\nkind: simplify\npredicate: true\nexpects: {}\n",
			wantErr: "expects",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadScenarios_SortedByFile(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", "name: second\ndescription: d\nkind: simplify\npredicate: true\n")
	writeScenario(t, dir, "a.yml", "name: first\ndescription: d\nkind: simplify\npredicate: true\n")
	writeScenario(t, dir, "notes.txt", "ignored")

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadScenarios_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "a.yaml", "name: same\ndescription: d\nkind: simplify\npredicate: true\n")
	writeScenario(t, dir, "b.yaml", "name: same\ndescription: d\nkind: simplify\npredicate: true\n")

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"same"`)
}
