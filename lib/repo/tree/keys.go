package tree

import (
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/repo"
)

// GetKeys returns the paths of the repository in insertion order. Every named
// mapping is listed before its descendants, numeric keys are skipped but their
// subtrees are still descended into.
//
// Options: WithOffset starts at a path (missing or scalar offsets yield no keys),
// WithTrimPrefix(false) prefixes the returned paths with the offset, WithMaxDepth
// limits the levels descended (0 = unlimited).
func (r *Repository) GetKeys(opts ...repo.Option) []string {
	cfg := repo.ApplyOptions(opts)

	start, ok := r.start(cfg.HasOffset, cfg.Offset)
	if !ok || !start.IsBranch() {
		return []string{}
	}

	keys := make([]string, 0, start.Len())
	r.listKeys(start, r.prefix(cfg), depthBudget(cfg.MaxDepth), &keys)
	return keys
}

// listKeys appends the keys below n. A negative depth never runs out.
func (r *Repository) listKeys(n *node.Node, prefix string, depth int, keys *[]string) {
	if depth == 0 {
		return
	}
	depth--

	n.Each(func(key string, child *node.Node) bool {
		if !node.IsNumericKey(key) {
			*keys = append(*keys, prefix+key)
		}
		if child.IsBranch() {
			r.listKeys(child, prefix+key+r.separator, depth, keys)
		}
		return true
	})
}

// prefix returns the prefix of enumerated keys.
func (r *Repository) prefix(cfg repo.Options) string {
	if cfg.TrimPrefix || !cfg.HasOffset || cfg.Offset == "" {
		return ""
	}
	return cfg.Offset + r.separator
}

// depthBudget maps the public max depth (0 = unlimited) to the recursion budget.
func depthBudget(maxDepth int) int {
	if maxDepth <= 0 {
		return -1
	}
	return maxDepth
}
