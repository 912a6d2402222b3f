package patch

import (
	"fmt"

	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/node"
	jsonpatch "github.com/evanphx/json-patch"
)

var log = logging.GetLogger("patch")

// Error is returned when a patch cannot be decoded or applied
type Error struct {
	Kind string // "json-patch" or "merge-patch"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Apply applies a json patch (RFC 6902) to root and returns the patched tree.
// root is not modified. Keys that survive the patch keep their position, new
// keys are appended.
func Apply(root *node.Node, ops []byte) (*node.Node, error) {
	p, err := jsonpatch.DecodePatch(ops)
	if err != nil {
		return nil, &Error{Kind: "json-patch", Err: err}
	}
	log.Debugf("applying json patch with %d operations", len(p))

	return transform(root, "json-patch", p.Apply)
}

// Merge applies a json merge patch (RFC 7386) to root and returns the patched
// tree: null removes a key, mappings are merged, everything else replaces.
// root is not modified.
func Merge(root *node.Node, doc []byte) (*node.Node, error) {
	return transform(root, "merge-patch", func(original []byte) ([]byte, error) {
		return jsonpatch.MergePatch(original, doc)
	})
}

// transform runs fn on the json encoding of root and decodes the result
func transform(root *node.Node, kind string, fn func([]byte) ([]byte, error)) (*node.Node, error) {
	if root == nil {
		root = node.NewBranch()
	}
	c := codec.NewJSONCodec()

	original, err := c.Encode(root)
	if err != nil {
		return nil, err
	}
	patched, err := fn(original)
	if err != nil {
		return nil, &Error{Kind: kind, Err: err}
	}
	result, err := c.Decode(patched)
	if err != nil {
		return nil, &Error{Kind: kind, Err: err}
	}
	return restoreOrder(root, result), nil
}

// restoreOrder rebuilds patched with the key order of original: shared keys
// first in their original order, then keys only patched holds. Lists keep
// the order of patched.
func restoreOrder(original, patched *node.Node) *node.Node {
	if !original.IsBranch() || !patched.IsBranch() || patched.IsList() {
		return patched
	}

	result := node.NewBranch()
	original.Each(func(key string, child *node.Node) bool {
		if p, ok := patched.Child(key); ok {
			result.SetChild(key, restoreOrder(child, p))
		}
		return true
	})
	patched.Each(func(key string, child *node.Node) bool {
		if _, ok := original.Child(key); !ok {
			result.SetChild(key, child)
		}
		return true
	})
	return result
}
