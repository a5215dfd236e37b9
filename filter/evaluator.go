package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fluxsweep/fluxsweep/influxdb"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of concurrent workers
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the minimum list size for chunked processing
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// ConcurrentEvaluator implements both Evaluator and BatchEvaluator interfaces
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate evaluates a single filter against all tasks
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, tasks []influxdb.TaskInfo) ([]influxdb.TaskInfo, error) {
	if len(tasks) == 0 {
		return []influxdb.TaskInfo{}, nil
	}

	// Small lists are cheaper to evaluate in place
	if len(tasks) < e.batchSize || !filter.IsThreadSafe() {
		return e.evaluateSequential(filter, tasks), nil
	}

	return e.evaluateConcurrent(ctx, filter, tasks)
}

// EvaluateBatch evaluates multiple filters against tasks concurrently.
// Filters that fail to evaluate are omitted from the result.
func (e *ConcurrentEvaluator) EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, tasks []influxdb.TaskInfo) (map[string][]influxdb.TaskInfo, error) {
	results := make(map[string][]influxdb.TaskInfo)
	if len(filters) == 0 || len(tasks) == 0 {
		return results, nil
	}

	resultChan := make(chan BatchResult, len(filters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for name, filter := range filters {
		name, filter := name, filter
		g.Go(func() error {
			matches, err := e.Evaluate(gctx, filter, tasks)
			resultChan <- BatchResult{
				FilterName: name,
				Matches:    matches,
				Error:      err,
			}
			return nil // A failing filter doesn't abort the batch
		})
	}

	g.Wait()
	close(resultChan)

	for result := range resultChan {
		if result.Error != nil {
			continue
		}
		results[result.FilterName] = result.Matches
	}

	return results, nil
}

// evaluateSequential evaluates a filter against all tasks sequentially
func (e *ConcurrentEvaluator) evaluateSequential(filter CompiledFilter, tasks []influxdb.TaskInfo) []influxdb.TaskInfo {
	matches := make([]influxdb.TaskInfo, 0, len(tasks)/4)
	for _, task := range tasks {
		if filter.Evaluate(task) {
			matches = append(matches, task)
		}
	}
	return matches
}

// evaluateConcurrent splits the task list into chunks and evaluates
// them in parallel, preserving input order in the result.
func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, tasks []influxdb.TaskInfo) ([]influxdb.TaskInfo, error) {
	chunkSize := max(len(tasks)/e.workerCount, e.batchSize)

	var chunks [][]influxdb.TaskInfo
	for i := 0; i < len(tasks); i += chunkSize {
		end := min(i+chunkSize, len(tasks))
		chunks = append(chunks, tasks[i:end])
	}

	// Each goroutine writes only its own slot
	chunkMatches := make([][]influxdb.TaskInfo, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			matches := make([]influxdb.TaskInfo, 0, len(chunk)/4)
			for _, task := range chunk {
				if filter.Evaluate(task) {
					matches = append(matches, task)
				}
			}

			chunkMatches[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, matches := range chunkMatches {
		total += len(matches)
	}

	all := make([]influxdb.TaskInfo, 0, total)
	for _, matches := range chunkMatches {
		all = append(all, matches...)
	}

	return all, nil
}
