package tree

import (
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/repo"
)

// Merge merges source into the repository.
//
// With WithRecursive(true) (default) mappings present on both sides are merged
// key by key, scalars present on both sides are resolved by WithCollision: by
// default both are kept as a positional list, {"a": 1} merged with {"a": 2}
// gives {"a": [1, 2]}. With WithRecursive(false) top-level keys of the side with
// precedence replace the other ones. Numeric keys are always appended.
//
// WithOverride(true) (default) applies source last, false lets the existing data
// win. WithOffset merges into the mapping at a path, creating it if needed; a
// scalar found there is replaced by a mapping.
func (r *Repository) Merge(source repo.Arrayable, opts ...repo.Option) {
	cfg := repo.ApplyOptions(opts)
	r.combine(source, cfg, func(first, second *node.Node) *node.Node {
		return node.Merge(first, second, cfg.Recursive, cfg.Collision)
	})
}

// Replace replaces keys of the repository with the ones of source. Collisions
// are always last-writer-wins, mappings on both sides are replaced key by key
// with WithRecursive(true) (default). The other options behave as in Merge.
func (r *Repository) Replace(source repo.Arrayable, opts ...repo.Option) {
	cfg := repo.ApplyOptions(opts)
	r.combine(source, cfg, func(first, second *node.Node) *node.Node {
		return node.Replace(first, second, cfg.Recursive)
	})
}

// combine applies fn to the target mapping and the normalized source in the
// order given by cfg.Override and stores the result at the target.
func (r *Repository) combine(source repo.Arrayable, cfg repo.Options, fn func(first, second *node.Node) *node.Node) {
	src := r.normalize(source)

	apply := func(target *node.Node) {
		if target.IsLeaf() {
			log.Debugf("replacing scalar at merge target with mapping")
			target.ToBranch()
		}
		if cfg.Override {
			target.Assign(fn(target, src))
		} else {
			target.Assign(fn(src, target))
		}
	}

	if !cfg.HasOffset {
		apply(r.root)
		return
	}
	r.update(cfg.Offset, apply)
}

// normalize converts a source into a node tree. Hierarchical sources are taken
// as they are, any other source goes through construction so dotted top-level
// keys are promoted.
func (r *Repository) normalize(source repo.Arrayable) *node.Node {
	if source == nil {
		return node.NewBranch()
	}
	if n, ok := source.(repo.Noder); ok {
		return n.ToNode()
	}
	return New(source.ToArray(), WithSeparator(r.separator)).root
}
