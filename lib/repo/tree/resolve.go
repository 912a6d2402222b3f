package tree

import (
	"strings"

	"github.com/ValentinKolb/hKV/lib/node"
)

// split turns a path into its segments. The empty path is a single empty segment.
func (r *Repository) split(path string) []string {
	return strings.Split(path, r.separator)
}

// present reports whether a child counts as existing. Leaves holding nil (json
// null) are treated like missing keys.
func present(n *node.Node) bool {
	return !(n.IsLeaf() && n.Value() == nil)
}

// lookup walks segments from the root without modifying anything.
func (r *Repository) lookup(segments []string) (*node.Node, bool) {
	current := r.root
	for _, segment := range segments {
		child, ok := current.Child(segment)
		if !ok || !present(child) {
			return nil, false
		}
		current = child
	}
	return current, true
}

// dig walks segments from the root and creates missing intermediate mappings.
// A scalar found on the way is converted into a mapping, discarding its value.
func (r *Repository) dig(segments []string) *node.Node {
	current := r.root
	for _, segment := range segments {
		child, ok := current.Child(segment)
		if !ok || !present(child) {
			if current.IsLeaf() {
				log.Debugf("overwriting scalar with mapping at segment %q", segment)
			}
			child = node.NewBranch()
			current.SetChild(segment, child)
		}
		current = child
	}
	return current
}

// update runs fn on the node at path, creating it if needed. The node handed to
// fn is only valid during the call.
func (r *Repository) update(path string, fn func(target *node.Node)) {
	fn(r.dig(r.split(path)))
}

// setNode stores value at path. A nil value removes the path instead.
func (r *Repository) setNode(path string, value *node.Node) {
	if value == nil || (value.IsLeaf() && value.Value() == nil) {
		r.Unset(path)
		return
	}
	r.update(path, func(target *node.Node) {
		target.Assign(value)
	})
}

// start returns the node an operation with an optional offset starts at.
func (r *Repository) start(hasOffset bool, offset string) (*node.Node, bool) {
	if !hasOffset {
		return r.root, true
	}
	return r.lookup(r.split(offset))
}
