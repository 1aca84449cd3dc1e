package pipeline

import (
	"context"
	"sort"

	"github.com/verinews/verinews/internal/model"
	"github.com/verinews/verinews/internal/worker"
)

// BatchResult is the outcome of one input in a batch run.
type BatchResult struct {
	Index  int
	Text   string
	Result *model.AnalysisResult
	Err    error
}

// GetError returns the error from the batch result.
func (r *BatchResult) GetError() error {
	return r.Err
}

type analyzeJob struct {
	pipeline *Pipeline
	ctx      context.Context
	index    int
	text     string
}

// Execute runs one analysis inside the worker pool.
func (j *analyzeJob) Execute(_ context.Context) worker.Result {
	result, err := j.pipeline.analyze(j.ctx, j.text)
	return &BatchResult{
		Index:  j.index,
		Text:   j.text,
		Result: result,
		Err:    err,
	}
}

// AnalyzeBatch runs many inputs through the provider concurrently. Provider
// calls share the rate limiter and ledger writes stay serialized; results come
// back in input order. The single-submission guard applies to interactive
// Submit only.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, texts []string) []BatchResult {
	workers := p.config.Concurrency.Workers
	if workers <= 0 {
		workers = 1
	}

	pool := worker.NewPool(workers)
	pool.Start()

	for i, text := range texts {
		pool.Submit(&analyzeJob{pipeline: p, ctx: ctx, index: i, text: text})
	}

	raw := pool.Wait()

	results := make([]BatchResult, 0, len(raw))
	for _, r := range raw {
		if br, ok := r.(*BatchResult); ok {
			results = append(results, *br)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}
