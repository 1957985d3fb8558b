package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestRun(id string, seq int64) Run {
	return Run{
		ID:      id,
		Kind:    KindSimplify,
		RuleSet: "default",
		Rules:   []string{"not_not", "or_to_range"},
		Input:   "not (not (q.a IS NULL))",
		Output:  "q.a IS NULL",
		Status:  StatusOK,
		Steps:   1,
		Seq:     seq,
	}
}
