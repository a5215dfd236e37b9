package filter

import (
	"context"

	"github.com/fluxsweep/fluxsweep/influxdb"
)

// Filter defines the basic interface for task filters
type Filter interface {
	// Evaluate checks if a task matches the filter criteria
	Evaluate(task influxdb.TaskInfo) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string

	// IsThreadSafe indicates if the filter can be evaluated concurrently
	IsThreadSafe() bool
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// Evaluator evaluates filters against tasks
type Evaluator interface {
	// Evaluate evaluates a filter against all tasks
	Evaluate(ctx context.Context, filter CompiledFilter, tasks []influxdb.TaskInfo) ([]influxdb.TaskInfo, error)
}

// BatchEvaluator evaluates multiple filters concurrently
type BatchEvaluator interface {
	// EvaluateBatch evaluates multiple filters against tasks concurrently
	EvaluateBatch(ctx context.Context, filters map[string]CompiledFilter, tasks []influxdb.TaskInfo) (map[string][]influxdb.TaskInfo, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// BatchResult represents the result of evaluating a filter
type BatchResult struct {
	FilterName string
	Matches    []influxdb.TaskInfo
	Error      error
}
