package node

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// --------------------------------------------------------------------------
// Node Definition
// --------------------------------------------------------------------------

// Kind tags the variant a Node holds.
type Kind uint8

const (
	KindLeaf   Kind = iota // 0: terminal value
	KindBranch             // 1: named mapping of child nodes
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// Children is the ordered child mapping of a branch.
type Children = orderedmap.OrderedMap[string, *Node]

// Node is either a Leaf holding a terminal value or a Branch holding an
// insertion ordered mapping of child nodes.
//
// Nodes are mutable. Holding the same *Node in two places shares it, which is
// what Attach relies on.
type Node struct {
	kind     Kind
	value    any
	children *Children
	list     bool // decoded from a sequence, keeps an empty branch a list
}

// NewLeaf creates a terminal node.
func NewLeaf(value any) *Node {
	return &Node{kind: KindLeaf, value: value}
}

// NewBranch creates an empty branch.
func NewBranch() *Node {
	return &Node{kind: KindBranch, children: orderedmap.New[string, *Node]()}
}

// NewList creates an empty branch that stays a list while it has no children.
func NewList() *Node {
	return &Node{kind: KindBranch, children: orderedmap.New[string, *Node](), list: true}
}

func (n *Node) Kind() Kind {
	return n.kind
}

func (n *Node) IsLeaf() bool {
	return n.kind == KindLeaf
}

func (n *Node) IsBranch() bool {
	return n.kind == KindBranch
}

// Value returns the terminal value of a leaf, nil for branches.
func (n *Node) Value() any {
	if n.kind != KindLeaf {
		return nil
	}
	return n.value
}

// Len returns the number of children of a branch, 0 for leaves.
func (n *Node) Len() int {
	if n.kind != KindBranch {
		return 0
	}
	return n.children.Len()
}

// Child returns the child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	if n.kind != KindBranch {
		return nil, false
	}
	return n.children.Get(key)
}

// SetChild stores child under key. Existing keys keep their position.
// Calling SetChild on a leaf converts it into a branch first, dropping the
// terminal value.
func (n *Node) SetChild(key string, child *Node) {
	if n.kind != KindBranch {
		n.ToBranch()
	}
	n.children.Set(key, child)
}

// DeleteChild removes key from a branch. It reports whether the key existed.
func (n *Node) DeleteChild(key string) bool {
	if n.kind != KindBranch {
		return false
	}
	_, ok := n.children.Delete(key)
	return ok
}

// Keys returns the child keys of a branch in insertion order.
func (n *Node) Keys() []string {
	if n.kind != KindBranch {
		return nil
	}
	keys := make([]string, 0, n.children.Len())
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every child in insertion order until fn returns false.
func (n *Node) Each(fn func(key string, child *Node) bool) {
	if n.kind != KindBranch {
		return
	}
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// ToBranch converts n in place into an empty branch. Any terminal value is
// discarded. Branches are left untouched.
func (n *Node) ToBranch() {
	if n.kind == KindBranch {
		return
	}
	n.kind = KindBranch
	n.value = nil
	n.children = orderedmap.New[string, *Node]()
	n.list = false
}

// Assign overwrites n in place with the content of other. Other holders of n
// observe the new content.
func (n *Node) Assign(other *Node) {
	if other == nil {
		*n = Node{kind: KindLeaf}
		return
	}
	n.kind = other.kind
	n.value = other.value
	n.children = other.children
	n.list = other.list
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	if n.kind == KindLeaf {
		return NewLeaf(cloneValue(n.value))
	}
	clone := NewBranch()
	clone.list = n.list
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		clone.children.Set(pair.Key, pair.Value.Clone())
	}
	return clone
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.kind == KindLeaf {
		return fmt.Sprintf("Leaf(%v)", n.value)
	}
	return fmt.Sprintf("Branch(%v)", n.Keys())
}

// --------------------------------------------------------------------------
// Conversion from generic values
// --------------------------------------------------------------------------

// FromValue converts a generic Go value into a node tree. Mappings become
// branches, slices become branches keyed "0".."n-1", everything else a leaf.
// Plain Go maps carry no order, so their keys are inserted sorted.
func FromValue(value any) *Node {
	switch v := value.(type) {
	case *Node:
		if v == nil {
			return NewLeaf(nil)
		}
		return v.Clone()
	case map[string]any:
		branch := NewBranch()
		for _, key := range sortedKeys(v) {
			branch.children.Set(key, FromValue(v[key]))
		}
		return branch
	case *orderedmap.OrderedMap[string, any]:
		branch := NewBranch()
		if v == nil {
			return branch
		}
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			branch.children.Set(pair.Key, FromValue(pair.Value))
		}
		return branch
	case yaml.MapSlice:
		branch := NewBranch()
		for _, item := range v {
			branch.children.Set(keyString(item.Key), FromValue(item.Value))
		}
		return branch
	case []any:
		branch := NewList()
		for i, item := range v {
			branch.children.Set(strconv.Itoa(i), FromValue(item))
		}
		return branch
	case nil:
		return NewLeaf(nil)
	}

	// typed maps and slices (map[string]string, []string, ...)
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return NewLeaf(value)
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		branch := NewBranch()
		for _, key := range keys {
			branch.children.Set(key, FromValue(rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key())).Interface()))
		}
		return branch
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// byte slices are values, not lists
			return NewLeaf(value)
		}
		branch := NewList()
		for i := 0; i < rv.Len(); i++ {
			branch.children.Set(strconv.Itoa(i), FromValue(rv.Index(i).Interface()))
		}
		return branch
	default:
		return NewLeaf(value)
	}
}

// FromMap converts a mapping into a branch. A nil map gives an empty branch.
func FromMap(values map[string]any) *Node {
	if values == nil {
		return NewBranch()
	}
	return FromValue(values)
}

// --------------------------------------------------------------------------
// Conversion to generic values
// --------------------------------------------------------------------------

// Export converts n into plain Go values: leaves yield their value, list-like
// branches (keys exactly "0".."n-1") yield []any, other branches
// map[string]any.
func (n *Node) Export() any {
	if n == nil {
		return nil
	}
	if n.kind == KindLeaf {
		return cloneValue(n.value)
	}
	if n.IsList() {
		out := make([]any, 0, n.children.Len())
		for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, pair.Value.Export())
		}
		return out
	}
	out := make(map[string]any, n.children.Len())
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value.Export()
	}
	return out
}

// ExportMap exports a branch as map[string]any. List-like branches are
// returned keyed by their indices.
func (n *Node) ExportMap() map[string]any {
	out := map[string]any{}
	if n == nil || n.kind != KindBranch {
		return out
	}
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value.Export()
	}
	return out
}

// ExportOrdered converts n like Export but keeps branch order by returning
// *orderedmap.OrderedMap[string, any] for non-list branches.
func (n *Node) ExportOrdered() any {
	if n == nil {
		return nil
	}
	if n.kind == KindLeaf {
		return cloneValue(n.value)
	}
	if n.IsList() {
		out := make([]any, 0, n.children.Len())
		for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
			out = append(out, pair.Value.ExportOrdered())
		}
		return out
	}
	out := orderedmap.New[string, any](n.children.Len())
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.ExportOrdered())
	}
	return out
}

// IsList reports whether the branch keys are exactly "0".."n-1" in order.
// An empty branch is a list only if it was created as one.
func (n *Node) IsList() bool {
	if n.kind != KindBranch {
		return false
	}
	if n.children.Len() == 0 {
		return n.list
	}
	i := 0
	for pair := n.children.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key != strconv.Itoa(i) {
			return false
		}
		i++
	}
	return true
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// IsNumericKey reports whether key consists of ASCII digits only.
func IsNumericKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < '0' || key[i] > '9' {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func keyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}

// cloneValue copies mutable generic containers so exported values never alias
// stored ones.
func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out
	default:
		return v
	}
}
