package eval

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/repo"
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logging.GetLogger("eval")

// Function is a custom function callable from expressions.
type Function func(args ...any) (any, error)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithoutCache disables the program cache, every expression is compiled on each call.
func WithoutCache() Option {
	return func(e *Evaluator) {
		e.programs = nil
	}
}

// WithFunction makes fn callable as name(...) from expressions. The names get,
// has and keys are reserved.
func WithFunction(name string, fn Function) Option {
	return func(e *Evaluator) {
		if fn == nil || name == "" {
			return
		}
		e.functions[name] = fn
	}
}

// Evaluator runs expr-lang expressions against repositories.
//
// Top-level keys of the repository are available as variables ("db.host" reads
// the mapping db), the functions get(path, default?), has(path) and
// keys(offset?) resolve paths through the repository itself.
type Evaluator struct {
	programs  *xsync.MapOf[string, *exprvm.Program]
	functions map[string]Function
}

// New creates an evaluator. Compiled programs are cached unless WithoutCache is given.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		programs:  xsync.NewMapOf[string, *exprvm.Program](),
		functions: map[string]Function{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Evaluate compiles and runs expression against r.
func (e *Evaluator) Evaluate(r repo.IReadonlyRepository, expression string) (any, error) {
	if expression == "" {
		return nil, &EvaluationError{Expr: expression, Err: ErrEmptyExpression}
	}

	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}

	result, err := exprlang.Run(program, environment(r))
	if err != nil {
		return nil, &EvaluationError{Expr: expression, Err: err}
	}
	return result, nil
}

// EvaluateBool runs expression and requires a boolean result.
func (e *Evaluator) EvaluateBool(r repo.IReadonlyRepository, expression string) (bool, error) {
	result, err := e.Evaluate(r, expression)
	if err != nil {
		return false, err
	}
	b, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{Expr: expression, Err: fmt.Errorf("expected bool result, got %T", result)}
	}
	return b, nil
}

// Cached returns the number of cached programs.
func (e *Evaluator) Cached() int {
	if e.programs == nil {
		return 0
	}
	return e.programs.Size()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (e *Evaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.programs != nil {
		if program, ok := e.programs.Load(expression); ok {
			return program, nil
		}
	}

	// the function stubs only declare the signatures, the real ones are bound per run
	options := []exprlang.Option{
		exprlang.Env(map[string]any{
			"get":  func(path string, def ...any) any { return nil },
			"has":  func(path string) bool { return false },
			"keys": func(offset ...string) []string { return nil },
		}),
		exprlang.AllowUndefinedVariables(),
	}
	names := make([]string, 0, len(e.functions))
	for name := range e.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		options = append(options, exprlang.Function(name, e.functions[name]))
	}

	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, &EvaluationError{Expr: expression, Err: err}
	}
	if e.programs != nil {
		e.programs.Store(expression, program)
		log.Debugf("cached program for %q", expression)
	}
	return program, nil
}

func environment(r repo.IReadonlyRepository) map[string]any {
	env := map[string]any{}
	for key, value := range r.ToArray() {
		env[key] = value
	}
	env["get"] = func(path string, def ...any) any {
		return r.Get(path, def...)
	}
	env["has"] = func(path string) bool {
		return r.Has(path)
	}
	env["keys"] = func(offset ...string) []string {
		if len(offset) == 0 {
			return r.GetKeys()
		}
		return r.GetKeys(repo.WithOffset(offset[0]))
	}
	return env
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// ErrEmptyExpression is returned for empty expressions.
var ErrEmptyExpression = errors.New("expression must not be empty")

// EvaluationError captures the failing expression alongside the originating error.
type EvaluationError struct {
	Expr string
	Err  error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("eval: expr=%q: %v", e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
