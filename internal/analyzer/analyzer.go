// Package analyzer wires the decomposition pipeline: read the source file,
// parse it, extract segments, reconcile leftover lines, and attach
// explanations.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"os"

	"pydocgen/internal/explain"
	"pydocgen/internal/parser"
	"pydocgen/internal/segment"
)

// Analyzer runs the full analysis pipeline for one Python file.
type Analyzer struct {
	parser    *parser.Parser
	requester *explain.Requester
}

// New creates an Analyzer around an explanation requester.
func New(requester *explain.Requester) *Analyzer {
	return &Analyzer{
		parser:    parser.NewParser(),
		requester: requester,
	}
}

// Analyze reads and decomposes the file at path, then annotates every
// explainable segment. Unparseable input is recovered by returning an
// analysis with all four collections empty; the error return covers I/O
// only.
func (a *Analyzer) Analyze(ctx context.Context, path string) (*segment.Analysis, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	file, err := a.parser.Parse(path, source)
	if err != nil {
		log.Printf("Error parsing script: %v", err)
		return segment.NewAnalysis(), nil
	}
	defer file.Close()

	universe := segment.NewUniverse(len(file.Lines))
	analysis := segment.Extract(file, universe)
	analysis.Loose = segment.Reconcile(universe, file.Lines)

	a.requester.Annotate(ctx, analysis)
	return analysis, nil
}
