// Package node implements the document tree every hierarchical repository is
// built on.
//
// A Node is a tagged union: a Leaf holds a terminal value (string, number,
// bool, nil, ...), a Branch an insertion ordered mapping of child nodes.
// Lists have no variant of their own, they are branches keyed "0".."n-1" and
// are exported as []any again.
//
// Merge and Replace combine two trees into a new one. Merge appends positional
// keys and resolves collisions of named keys by a CollisionPolicy, Replace
// lets the later tree win key by key.
package node
