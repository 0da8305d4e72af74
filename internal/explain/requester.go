package explain

import (
	"context"
	"fmt"
	"log"
	"sync"

	"pydocgen/internal/segment"
)

// Requester attaches an explanation to every class, function, and loose
// segment of an analysis. Imports are excluded. Each segment gets exactly
// one result: the collaborator's text, a cached copy, or a placeholder
// embedding the failure reason. A failed segment never aborts the batch.
type Requester struct {
	explainer   Explainer
	cache       Cache
	progress    ProgressReporter
	concurrency int
}

// RequesterOptions configures optional requester behavior.
type RequesterOptions struct {
	// Cache, when non-nil, is consulted before the collaborator and updated
	// after a successful request.
	Cache Cache

	// Progress, when non-nil, receives per-segment callbacks.
	Progress ProgressReporter

	// Concurrency bounds simultaneous requests. Values below 2 mean fully
	// sequential execution. Segments are annotated in place, so collection
	// order is unaffected by completion order.
	Concurrency int
}

// NewRequester creates a Requester around an explanation collaborator.
func NewRequester(explainer Explainer, opts RequesterOptions) *Requester {
	progress := opts.Progress
	if progress == nil {
		progress = NoOpProgressReporter{}
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Requester{
		explainer:   explainer,
		cache:       opts.Cache,
		progress:    progress,
		concurrency: concurrency,
	}
}

// Annotate requests an explanation for every explainable segment of the
// analysis and stores the results in place.
func (r *Requester) Annotate(ctx context.Context, analysis *segment.Analysis) {
	type task struct {
		code string
		set  func(string)
	}

	tasks := make([]task, 0, analysis.NumExplainable())
	for _, cls := range analysis.Classes {
		cls := cls
		tasks = append(tasks, task{code: cls.Code, set: func(s string) { cls.Explanation = s }})
	}
	for _, fn := range analysis.Functions {
		fn := fn
		tasks = append(tasks, task{code: fn.Code, set: func(s string) { fn.Explanation = s }})
	}
	for _, loose := range analysis.Loose {
		loose := loose
		tasks = append(tasks, task{code: loose.Code, set: func(s string) { loose.Explanation = s }})
	}

	r.progress.OnExplanationStart(len(tasks))

	if r.concurrency <= 1 {
		for _, t := range tasks {
			t.set(r.explainOne(ctx, t.code))
			r.progress.OnExplanationDone()
		}
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.concurrency)
	for _, t := range tasks {
		t := t
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			t.set(r.explainOne(ctx, t.code))
			r.progress.OnExplanationDone()
		}()
	}
	wg.Wait()
}

// explainOne resolves a single segment's explanation. Collaborator failures
// are logged and degraded to a placeholder string.
func (r *Requester) explainOne(ctx context.Context, code string) string {
	if r.cache != nil {
		if cached, ok := r.cache.Get(code); ok {
			return cached
		}
	}

	text, err := r.explainer.Explain(ctx, code)
	if err != nil {
		log.Printf("Error generating explanation: %v", err)
		return fmt.Sprintf("Unable to generate explanation. Error: %s", err)
	}

	if r.cache != nil {
		r.cache.Put(code, text)
	}
	return text
}
