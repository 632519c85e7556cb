// Package query evaluates expr-lang expressions against SingleKey results.
//
// A result's top-level fields are exposed as variables, so a completed report
// can be checked with expressions such as:
//
//	singlekey_score >= 700 and success
//	has("report_url")
//	lower(detail) contains "waiting"
//	score() > 650 and complete()
package query

import (
	"errors"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/singlekey/singlekey"
)

// DefaultCacheSize is the number of compiled expressions kept by NewCompiler
const DefaultCacheSize = 64

// Query is a compiled expression. It is safe for concurrent use.
type Query struct {
	expression string
	program    *vm.Program
	funcs      map[string]any
}

// Option configures a Compiler
type Option func(*Compiler)

// WithCache sets the compiled expression cache size. Zero disables caching.
func WithCache(size int) Option {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		} else {
			c.cache = nil
		}
	}
}

// WithFunctions adds helper functions available to every expression
func WithFunctions(funcs map[string]any) Option {
	return func(c *Compiler) {
		maps.Copy(c.helperFuncs, funcs)
		maps.Copy(c.customFuncs, funcs)
	}
}

// Compiler turns expressions into Queries
type Compiler struct {
	helperFuncs map[string]any
	customFuncs map[string]any
	cache       *lruCache
}

// NewCompiler creates a compiler with the default helpers and cache
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		helperFuncs: helperFunctions(),
		customFuncs: make(map[string]any),
		cache:       newLRUCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCompiler = NewCompiler()

// Evaluate compiles expression with the package compiler and runs it against result
func Evaluate(expression string, result singlekey.Result) (any, error) {
	q, err := defaultCompiler.Compile(expression)
	if err != nil {
		return nil, err
	}
	return q.Evaluate(result)
}

// Compile parses and compiles an expression
func (c *Compiler) Compile(expression string) (*Query, error) {
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
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.helperFuncs),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		compileErr := &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Position:   -1,
			Err:        err,
		}
		var fileErr *file.Error
		if errors.As(err, &fileErr) {
			compileErr.Reason = fileErr.Message
			compileErr.Position = fileErr.Column
		}
		return nil, compileErr
	}

	q := &Query{expression: expression, program: program, funcs: c.customFuncs}
	if c.cache != nil {
		c.cache.Put(expression, q)
	}
	return q, nil
}

// Clear removes all cached queries
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached queries
func (c *Compiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Expression returns the source expression
func (q *Query) Expression() string {
	return q.expression
}

// Evaluate runs the query against result and returns its value
func (q *Query) Evaluate(result singlekey.Result) (any, error) {
	out, err := expr.Run(q.program, runtimeEnvironment(result, q.funcs))
	if err != nil {
		return nil, &EvaluationError{
			Expression:    q.expression,
			PurchaseToken: result.PurchaseToken(),
			Reason:        "failed to evaluate expression",
			Err:           err,
		}
	}
	return out, nil
}

// Match runs the query and reports whether its value is truthy
func (q *Query) Match(result singlekey.Result) (bool, error) {
	out, err := q.Evaluate(result)
	if err != nil {
		return false, err
	}
	return truthy(out), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// helperFunctions returns the compile-time environment. Result-bound helpers
// are declared with their signatures and replaced at run time.
func helperFunctions() map[string]any {
	return map[string]any{
		"result":   map[string]any{},
		"has":      func(string) bool { return false },
		"score":    func() float64 { return 0 },
		"complete": func() bool { return false },
	}
}

// runtimeEnvironment exposes the result's fields alongside the helpers.
// Helpers win over result fields of the same name.
func runtimeEnvironment(result singlekey.Result, funcs map[string]any) map[string]any {
	env := make(map[string]any, len(result)+len(funcs)+4)
	maps.Copy(env, result)
	maps.Copy(env, funcs)

	env["result"] = map[string]any(result)
	env["has"] = func(key string) bool {
		v, ok := result[key]
		return ok && v != nil
	}
	env["score"] = func() float64 {
		s, ok := result.Score()
		if !ok {
			return 0
		}
		if f, ok := s.(float64); ok {
			return f
		}
		return 0
	}
	env["complete"] = result.IsComplete
	return env
}
