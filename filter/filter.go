package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluxsweep/fluxsweep/influxdb"
)

// defaultCompiler is shared by the package-level helpers so repeated
// compilations of the same expression hit the cache.
var defaultCompiler = NewExprCompiler(WithCache(100))

// CompileFilter compiles an expression using the shared compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// ParseAndCreateFilter parses a filter expression and returns a filter
// function. An empty expression matches every task.
func ParseAndCreateFilter(expression string) (func(influxdb.TaskInfo) bool, error) {
	if strings.TrimSpace(expression) == "" {
		return func(influxdb.TaskInfo) bool { return true }, nil
	}

	compiled, err := CompileFilter(expression)
	if err != nil {
		return nil, err
	}

	return compiled.Evaluate, nil
}

// EvaluateFilters compiles the named expressions and evaluates them all
// against the given tasks
func EvaluateFilters(ctx context.Context, filters map[string]string, tasks []influxdb.TaskInfo) (map[string][]influxdb.TaskInfo, error) {
	compiled := make(map[string]CompiledFilter, len(filters))
	for name, expression := range filters {
		filter, err := CompileFilter(expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	evaluator := NewConcurrentEvaluator()
	return evaluator.EvaluateBatch(ctx, compiled, tasks)
}
