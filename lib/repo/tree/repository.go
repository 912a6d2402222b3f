package tree

import (
	"strings"

	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/repo"
)

// DefaultSeparator joins the segments of a path.
const DefaultSeparator = "."

var log = logging.GetLogger("tree")

// Option configures a Repository at construction.
type Option func(*Repository)

// WithSeparator sets the path separator. An empty separator is ignored.
func WithSeparator(sep string) Option {
	return func(r *Repository) {
		if sep != "" {
			r.separator = sep
		}
	}
}

// Repository is a hierarchical key-value repository. Keys are paths whose
// segments are joined by the separator, "a.b.c" addresses root["a"]["b"]["c"].
//
// The root is always a branch. It may be shared with other holders (see Attach).
type Repository struct {
	root      *node.Node
	separator string
}

// compile time check
var _ repo.IHierarchicalRepository = (*Repository)(nil)

// New creates a repository holding values. Top-level keys of values that contain
// the separator are promoted to nested paths once: {"a.b": 1} is stored as
// {"a": {"b": 1}}. Nested keys are kept literally.
func New(values map[string]any, opts ...Option) *Repository {
	return NewFromNode(node.FromMap(values), opts...)
}

// NewFromNode creates a repository from a node tree like New. The tree is copied.
// A leaf is treated like an empty mapping.
func NewFromNode(values *node.Node, opts ...Option) *Repository {
	r := &Repository{separator: DefaultSeparator}
	for _, opt := range opts {
		opt(r)
	}
	if values == nil || !values.IsBranch() {
		r.root = node.NewBranch()
	} else {
		r.root = values.Clone()
	}
	r.expand()
	return r
}

// expand promotes top-level keys containing the separator to nested paths.
func (r *Repository) expand() {
	for _, key := range r.root.Keys() {
		if !strings.Contains(key, r.separator) {
			continue
		}
		child, _ := r.root.Child(key)
		r.setNode(key, child)
		r.root.DeleteChild(key)
		log.Debugf("promoted dotted key %q", key)
	}
}

// NewFromJSON creates a repository from a json document. Unlike FromJSON, dotted
// top-level keys of the document are promoted.
func NewFromJSON(text string, opts ...Option) (*Repository, error) {
	decoded, err := codec.NewJSONCodec().Decode([]byte(text))
	if err != nil {
		return nil, err
	}
	return NewFromNode(decoded, opts...), nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see repo/interface.go)
// --------------------------------------------------------------------------

func (r *Repository) Separator() string {
	return r.separator
}

func (r *Repository) Has(key string) bool {
	_, ok := r.lookup(r.split(key))
	return ok
}

func (r *Repository) Get(key string, def ...any) any {
	n, ok := r.lookup(r.split(key))
	if !ok {
		return defaultValue(def)
	}
	value := n.Export()
	if value == nil {
		return defaultValue(def)
	}
	return value
}

func (r *Repository) Set(key string, value any) {
	r.setNode(key, node.FromValue(value))
}

func (r *Repository) Unset(key string) {
	segments := r.split(key)
	last := segments[len(segments)-1]

	// a single segment addresses a key of the root, empty segments are keys too
	parent := r.root
	if len(segments) > 1 {
		var ok bool
		if parent, ok = r.lookup(segments[:len(segments)-1]); !ok {
			return
		}
	}
	parent.DeleteChild(last)
}

func (r *Repository) Clear() {
	r.root = node.NewBranch()
}

func (r *Repository) IsEmpty() bool {
	return r.root.Len() == 0
}

func (r *Repository) Attach(shared *node.Node) {
	if shared == nil {
		r.root = node.NewBranch()
		return
	}
	if shared.IsLeaf() {
		log.Debugf("attached root holds a scalar, converting it to a mapping")
		shared.ToBranch()
	}
	r.root = shared
}

func (r *Repository) Shared() *node.Node {
	return r.root
}

func (r *Repository) ToNode() *node.Node {
	return r.root.Clone()
}

func (r *Repository) ToArray() map[string]any {
	return r.root.ExportMap()
}

func (r *Repository) FromArray(values map[string]any) {
	r.root.Assign(node.FromMap(values))
}

func (r *Repository) ToJSON() (string, error) {
	return r.Encode(codec.NewJSONCodec())
}

func (r *Repository) FromJSON(text string) error {
	return r.Decode(codec.NewJSONCodec(), text)
}

// ToYAML encodes the content as yaml.
func (r *Repository) ToYAML() (string, error) {
	return r.Encode(codec.NewYAMLCodec())
}

// FromYAML replaces the content with a yaml document. On malformed input a
// *codec.DecodeError is returned and the content is left untouched.
func (r *Repository) FromYAML(text string) error {
	return r.Decode(codec.NewYAMLCodec(), text)
}

// Encode encodes the content with c.
func (r *Repository) Encode(c codec.ICodec) (string, error) {
	b, err := c.Encode(r.root)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode writes a document decoded by c into the current root, attached
// holders observe the new content. On malformed input the content is left
// untouched.
func (r *Repository) Decode(c codec.ICodec, text string) error {
	decoded, err := c.Decode([]byte(text))
	if err != nil {
		log.Warningf("failed to decode %s document: %v", c.Name(), err)
		return err
	}
	r.root.Assign(decoded)
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func defaultValue(def []any) any {
	if len(def) == 0 {
		return nil
	}
	return def[0]
}
