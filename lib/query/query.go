package query

import (
	"fmt"

	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/repo"
	"github.com/ohler55/ojg/jp"
	"github.com/puzpuzpuz/xsync/v3"
)

var log = logging.GetLogger("query")

// compiled caches parsed expressions by their source.
var compiled = xsync.NewMapOf[string, jp.Expr]()

// Query is a compiled JSONPath expression, e.g. "$.servers[*].host".
type Query struct {
	source string
	expr   jp.Expr
}

// Compile parses a JSONPath expression. Parsed expressions are cached, compiling
// the same source twice is cheap.
func Compile(source string) (*Query, error) {
	if expr, ok := compiled.Load(source); ok {
		return &Query{source: source, expr: expr}, nil
	}

	expr, err := jp.ParseString(source)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", source, err)
	}
	compiled.Store(source, expr)
	log.Debugf("compiled jsonpath %q", source)
	return &Query{source: source, expr: expr}, nil
}

// String returns the source of the query.
func (q *Query) String() string {
	return q.source
}

// Select returns all values of src matched by the query.
func (q *Query) Select(src repo.Arrayable) []any {
	results := q.expr.Get(document(src))
	if results == nil {
		return []any{}
	}
	return results
}

// First returns the first value matched by the query.
func (q *Query) First(src repo.Arrayable) (any, bool) {
	results := q.Select(src)
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}

// Select compiles source and returns all values of src it matches.
func Select(src repo.Arrayable, source string) ([]any, error) {
	q, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return q.Select(src), nil
}

// document converts src into the generic values jp works on. Hierarchical
// repositories export list-like mappings as slices, so "$.list[0]" works.
func document(src repo.Arrayable) any {
	if src == nil {
		return map[string]any{}
	}
	if n, ok := src.(repo.Noder); ok {
		return n.ToNode().Export()
	}
	return src.ToArray()
}
