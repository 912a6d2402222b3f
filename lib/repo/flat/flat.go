package flat

import (
	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/logging"
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/ValentinKolb/hKV/lib/repo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var log = logging.GetLogger("flat")

// Values is the ordered single level mapping backing a flat repository.
type Values = orderedmap.OrderedMap[string, any]

// Repository is a single level key-value repository. Keys are taken literally.
// Set stores values as they are given. New, FromArray, Merge, Replace and the
// decoders store exported values: slices become []any, mappings map[string]any
// and mappings keyed exactly "0".."n-1" []any.
type Repository struct {
	values *Values
}

// compile time check
var _ repo.IRepository = (*Repository)(nil)

// New creates a flat repository holding values. Plain Go maps carry no order,
// so the keys are inserted sorted.
func New(values map[string]any) *Repository {
	r := &Repository{values: orderedmap.New[string, any]()}
	r.FromArray(values)
	return r
}

// --------------------------------------------------------------------------
// Interface Methods (docu see repo/interface.go)
// --------------------------------------------------------------------------

// Has reports whether key exists, keys holding nil included.
func (r *Repository) Has(key string) bool {
	_, ok := r.values.Get(key)
	return ok
}

func (r *Repository) Get(key string, def ...any) any {
	value, ok := r.values.Get(key)
	if !ok || value == nil {
		if len(def) == 0 {
			return nil
		}
		return def[0]
	}
	return value
}

// GetKeys returns the keys in insertion order. Options are ignored.
func (r *Repository) GetKeys(_ ...repo.Option) []string {
	keys := make([]string, 0, r.values.Len())
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// GetValues returns a copy of the key value pairs. Options are ignored.
func (r *Repository) GetValues(_ ...repo.Option) *orderedmap.OrderedMap[string, any] {
	out := orderedmap.New[string, any](r.values.Len())
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

func (r *Repository) Set(key string, value any) {
	if value == nil {
		r.Unset(key)
		return
	}
	r.values.Set(key, value)
}

func (r *Repository) Unset(key string) {
	r.values.Delete(key)
}

func (r *Repository) Clear() {
	r.values = orderedmap.New[string, any]()
}

func (r *Repository) IsEmpty() bool {
	return r.values.Len() == 0
}

// Merge merges source into the repository. Numeric keys are appended and
// renumbered. Keys present on both sides are merged as in the hierarchical
// repository: mappings key by key, scalars as a positional list unless
// WithCollision(node.CollisionOverride) is given. WithOffset is ignored.
func (r *Repository) Merge(source repo.Arrayable, opts ...repo.Option) {
	cfg := repo.ApplyOptions(opts)
	r.combine(source, cfg.Override, func(first, second *node.Node) *node.Node {
		return node.Merge(first, second, cfg.Recursive, cfg.Collision)
	})
}

// Replace replaces keys of the repository with the ones of source, last
// writer wins. Only WithOverride is honoured.
func (r *Repository) Replace(source repo.Arrayable, opts ...repo.Option) {
	cfg := repo.ApplyOptions(opts)
	r.combine(source, cfg.Override, func(first, second *node.Node) *node.Node {
		return node.Replace(first, second, false)
	})
}

func (r *Repository) ToArray() map[string]any {
	out := make(map[string]any, r.values.Len())
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

func (r *Repository) FromArray(values map[string]any) {
	r.fill(node.FromMap(values))
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

// Attach makes the repository operate on shared. Mutations through either
// holder are visible to the other until the repository is attached to another
// mapping or cleared. A nil mapping detaches.
func (r *Repository) Attach(shared *Values) {
	if shared == nil {
		r.values = orderedmap.New[string, any]()
		return
	}
	r.values = shared
}

// Shared returns the mapping currently in use.
func (r *Repository) Shared() *Values {
	return r.values
}

// Encode encodes the content with c.
func (r *Repository) Encode(c codec.ICodec) (string, error) {
	b, err := c.Encode(node.FromValue(r.values))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode replaces the content with a document decoded by c. Top-level keys
// keep their order, nested mappings are stored as plain values.
func (r *Repository) Decode(c codec.ICodec, text string) error {
	decoded, err := c.Decode([]byte(text))
	if err != nil {
		log.Warningf("failed to decode %s document: %v", c.Name(), err)
		return err
	}
	r.fill(decoded)
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (r *Repository) combine(source repo.Arrayable, override bool, fn func(first, second *node.Node) *node.Node) {
	var src *node.Node
	switch s := source.(type) {
	case nil:
		src = node.NewBranch()
	case repo.Noder:
		src = s.ToNode()
	default:
		src = node.FromMap(s.ToArray())
	}

	current := node.FromValue(r.values)
	if override {
		r.fill(fn(current, src))
	} else {
		r.fill(fn(src, current))
	}
}

// fill replaces the content of the current mapping in place with the top
// level entries of root, attached holders observe the new content.
func (r *Repository) fill(root *node.Node) {
	for _, key := range r.GetKeys() {
		r.values.Delete(key)
	}
	root.Each(func(key string, child *node.Node) bool {
		r.values.Set(key, child.Export())
		return true
	})
}
