package tree

import (
	"strconv"

	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/repo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// enumResult is the outcome of enumerating one mapping. A mapping that turns
// out to hold numeric keys is opaque: its parent stores it as a single value
// instead of splicing in its entries.
type enumResult struct {
	entries *orderedmap.OrderedMap[string, any]
	opaque  bool
}

// GetValues returns path/value pairs in insertion order. Leaves are listed
// under their path. Mappings are flattened into their paths unless they
// contain numeric keys, then they are listed as a whole under their own path.
// Such a mapping is exported like Get does: keys exactly "0".."n-1" give a
// []any, so {"0":"x","1":"y"} is listed as []any{"x", "y"}, any other keys give
// a map[string]any.
// Numeric keys at the starting level are appended positionally under the next
// free index ("0", "1", ...) instead.
//
// Options: WithOffset, WithTrimPrefix and WithMaxDepth act like in GetKeys. With
// WithNumericKeys(true) numeric keys are treated like named ones. A mapping at
// the depth limit is listed as a whole.
func (r *Repository) GetValues(opts ...repo.Option) *orderedmap.OrderedMap[string, any] {
	cfg := repo.ApplyOptions(opts)

	start, ok := r.start(cfg.HasOffset, cfg.Offset)
	if !ok || !start.IsBranch() {
		return orderedmap.New[string, any]()
	}

	res := r.listValues(start, r.prefix(cfg), cfg.NumericKeys, depthBudget(cfg.MaxDepth), false)
	if res.opaque {
		return orderedmap.New[string, any]()
	}
	return res.entries
}

// listValues enumerates the values below n. Nested levels (abortOnNumeric)
// give up as soon as they see a numeric key so the parent keeps the mapping
// intact, the top level appends such entries positionally.
func (r *Repository) listValues(n *node.Node, prefix string, numeric bool, depth int, abortOnNumeric bool) enumResult {
	entries := orderedmap.New[string, any]()
	if depth == 0 {
		return enumResult{entries: entries, opaque: true}
	}
	depth--

	next := 0
	put := func(key string, value any) {
		entries.Set(key, value)
		if node.IsNumericKey(key) {
			if idx, err := strconv.Atoi(key); err == nil && idx >= next {
				next = idx + 1
			}
		}
	}

	opaque := false
	n.Each(func(key string, child *node.Node) bool {
		if !numeric && node.IsNumericKey(key) {
			if abortOnNumeric {
				opaque = true
				return false
			}
			put(strconv.Itoa(next), child.Export())
			return true
		}

		path := prefix + key
		if !child.IsBranch() {
			put(path, child.Export())
			return true
		}

		sub := r.listValues(child, path+r.separator, numeric, depth, true)
		if sub.opaque {
			put(path, child.Export())
			return true
		}
		for pair := sub.entries.Oldest(); pair != nil; pair = pair.Next() {
			put(pair.Key, pair.Value)
		}
		return true
	})

	return enumResult{entries: entries, opaque: opaque}
}
