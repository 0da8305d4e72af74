package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pydocgen/internal/explain"
)

// Test Plan for Analyzer:
// - Valid file yields populated, annotated collections
// - Unparseable file recovers to four empty collections with no error
// - Missing file is an I/O error
// - Always-failing collaborator still completes with placeholders

func newTestAnalyzer(e explain.Explainer) *Analyzer {
	return New(explain.NewRequester(e, explain.RequesterOptions{}))
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAnalyzer_ValidFile(t *testing.T) {
	t.Parallel()

	path := writeScript(t, `import os

def main():
    print("hi")

main()
`)

	mock := &explain.MockExplainer{Response: "explained"}
	analysis, err := newTestAnalyzer(mock).Analyze(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []string{"os"}, analysis.Imports)
	require.Len(t, analysis.Functions, 1)
	assert.Equal(t, "main", analysis.Functions[0].Name)
	assert.Equal(t, "explained", analysis.Functions[0].Explanation)

	// print("hi") is an unclaimed body line; main() is a loose call
	require.Len(t, analysis.Loose, 2)
	assert.Equal(t, `print("hi")`, analysis.Loose[0].Code)
	assert.Equal(t, "main()", analysis.Loose[1].Code)
	assert.Equal(t, "explained", analysis.Loose[1].Explanation)
}

func TestAnalyzer_UnparseableFile(t *testing.T) {
	t.Parallel()

	path := writeScript(t, "def f(:\n")

	mock := &explain.MockExplainer{}
	analysis, err := newTestAnalyzer(mock).Analyze(context.Background(), path)

	// Test: parse failure is recovered, not propagated
	require.NoError(t, err)
	assert.Empty(t, analysis.Imports)
	assert.Empty(t, analysis.Classes)
	assert.Empty(t, analysis.Functions)
	assert.Empty(t, analysis.Loose)

	// Test: nothing was sent to the collaborator
	assert.Equal(t, 0, mock.Calls())
}

func TestAnalyzer_MissingFile(t *testing.T) {
	t.Parallel()

	analysis, err := newTestAnalyzer(&explain.MockExplainer{}).
		Analyze(context.Background(), filepath.Join(t.TempDir(), "nope.py"))

	require.Error(t, err)
	assert.Nil(t, analysis)
}

func TestAnalyzer_FailingCollaborator(t *testing.T) {
	t.Parallel()

	path := writeScript(t, `def f():
    pass
`)

	failing := &explain.FailingExplainer{Err: errors.New("network down")}
	analysis, err := newTestAnalyzer(failing).Analyze(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, analysis.Functions, 1)
	assert.Contains(t, analysis.Functions[0].Explanation, "network down")
}
