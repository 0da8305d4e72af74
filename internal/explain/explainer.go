package explain

import "context"

// Explainer produces a natural-language explanation for a code snippet.
// Implementations are expected to attempt each request exactly once; retry
// policy, if any, belongs to the caller.
type Explainer interface {
	Explain(ctx context.Context, code string) (string, error)
}

// Cache is an optional store of previously generated explanations, keyed by
// the code text. Implementations absorb their own failures and report a miss
// instead.
type Cache interface {
	Get(code string) (string, bool)
	Put(code, explanation string)
}

// ProgressReporter receives callbacks as the explanation phase advances.
type ProgressReporter interface {
	// OnExplanationStart is called once with the number of segments that
	// will request an explanation.
	OnExplanationStart(total int)

	// OnExplanationDone is called after each segment has its explanation
	// attached, whether it came from the collaborator, the cache, or a
	// failure placeholder.
	OnExplanationDone()
}

// NoOpProgressReporter is a ProgressReporter that does nothing.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnExplanationStart(total int) {}
func (NoOpProgressReporter) OnExplanationDone()           {}
