package node

import "strconv"

// CollisionPolicy decides what a recursive merge does with a named key that
// holds a non-branch value on at least one side.
type CollisionPolicy uint8

const (
	// CollisionAccumulate keeps both values as a positional list, e.g.
	// {"a": 1} merged with {"a": 2} gives {"a": [1, 2]}.
	CollisionAccumulate CollisionPolicy = iota
	// CollisionOverride lets the later value win.
	CollisionOverride
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionAccumulate:
		return "accumulate"
	case CollisionOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Merge combines two trees and returns a new one, first being applied before
// second. The inputs are not modified.
//
// Positional (numeric) keys of both sides are appended and renumbered instead
// of being matched by key. Named keys present on both sides are resolved by
// recursive and collision: a shallow merge takes the value of second, a
// recursive merge descends into two branches and otherwise applies the
// collision policy.
func Merge(first, second *Node, recursive bool, collision CollisionPolicy) *Node {
	result := NewBranch()
	next := 0

	appendAll := func(src *Node, fromSecond bool) {
		src.Each(func(key string, child *Node) bool {
			if IsNumericKey(key) {
				result.children.Set(strconv.Itoa(next), child.Clone())
				next++
				return true
			}
			existing, ok := result.children.Get(key)
			if !ok || !fromSecond {
				result.children.Set(key, child.Clone())
				return true
			}
			switch {
			case !recursive:
				result.children.Set(key, child.Clone())
			case existing.IsBranch() && child.IsBranch():
				result.children.Set(key, Merge(existing, child, recursive, collision))
			case collision == CollisionOverride:
				result.children.Set(key, child.Clone())
			default:
				result.children.Set(key, Merge(asList(existing), asList(child), recursive, collision))
			}
			return true
		})
	}

	appendAll(asBranch(first), false)
	appendAll(asBranch(second), true)
	result.list = asBranch(first).IsList() && asBranch(second).IsList()
	return result
}

// Replace combines two trees with last-writer-wins semantics and returns a new
// one. Keys of second overwrite keys of first, positional keys included. With
// recursive set, keys holding branches on both sides are replaced key by key.
func Replace(first, second *Node, recursive bool) *Node {
	result := asBranch(first).Clone()
	asBranch(second).Each(func(key string, child *Node) bool {
		existing, ok := result.children.Get(key)
		if ok && recursive && existing.IsBranch() && child.IsBranch() {
			result.children.Set(key, Replace(existing, child, recursive))
			return true
		}
		result.children.Set(key, child.Clone())
		return true
	})
	return result
}

// asBranch views a nil or leaf node as an empty branch.
func asBranch(n *Node) *Node {
	if n == nil || !n.IsBranch() {
		return NewBranch()
	}
	return n
}

// asList wraps a leaf into a single element list; a nil value becomes an empty
// list. Branches are returned as is.
func asList(n *Node) *Node {
	if n.IsBranch() {
		return n
	}
	list := NewList()
	if n.value != nil {
		list.children.Set("0", NewLeaf(n.value))
	}
	return list
}
