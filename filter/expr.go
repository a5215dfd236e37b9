package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/fluxsweep/fluxsweep/influxdb"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached.(CompiledFilter), nil
		}
	}

	// Compile with static environment for validation
	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(), // Allow task properties
		expr.AsBool(),                  // Ensure boolean result
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate evaluates the filter against a task. Tasks that cause
// runtime errors are treated as non-matching.
func (f *exprFilter) Evaluate(task influxdb.TaskInfo) bool {
	env := createRuntimeEnvironment(task)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false
	}

	// Result is guaranteed to be bool due to AsBool() option during compilation
	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// IsThreadSafe indicates that expr filters are thread-safe
func (f *exprFilter) IsThreadSafe() bool {
	return true
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 24)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}

// createRuntimeEnvironment creates the runtime environment for filter evaluation
func createRuntimeEnvironment(task influxdb.TaskInfo) map[string]any {
	env := make(map[string]any, 48)

	// Add helper functions
	addHelperFunctions(env)

	// Add task data
	env["Task"] = task

	// Add task-specific helper functions using closures for efficiency
	env["hasStatus"] = createHasStatusFunc(task.Status)
	env["fluxContains"] = createFluxContainsFunc(task.Flux)
	env["inOrg"] = createInOrgFunc(task.Org, task.OrgID)
	env["isActive"] = func() bool { return task.Active() }
	env["isInactive"] = func() bool { return !task.Active() }
	env["isCron"] = func() bool { return task.Cron != "" }
	env["runsEvery"] = func(every string) bool { return task.Every == every }
	env["neverRan"] = func() bool { return task.LatestCompleted.IsZero() }

	// Direct task properties for convenience
	env["ID"] = task.ID
	env["Name"] = task.Name
	env["Org"] = task.Org
	env["OrgID"] = task.OrgID
	env["Status"] = task.Status
	env["Description"] = task.Description
	env["Flux"] = task.Flux
	env["Every"] = task.Every
	env["Cron"] = task.Cron
	env["Offset"] = task.Offset
	env["CreatedAt"] = task.CreatedAt
	env["UpdatedAt"] = task.UpdatedAt
	env["LatestCompleted"] = task.LatestCompleted

	return env
}

// Helper factory functions for better performance through closures

func createHasStatusFunc(status string) func(string) bool {
	lowerStatus := strings.ToLower(status)
	return func(want string) bool {
		return strings.ToLower(want) == lowerStatus
	}
}

func createFluxContainsFunc(flux string) func(string) bool {
	lowerFlux := strings.ToLower(flux)
	return func(substr string) bool {
		return strings.Contains(lowerFlux, strings.ToLower(substr))
	}
}

func createInOrgFunc(org, orgID string) func(string) bool {
	return func(name string) bool {
		return strings.EqualFold(org, name) || strings.EqualFold(orgID, name)
	}
}
