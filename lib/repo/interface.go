package repo

import (
	"github.com/ValentinKolb/hKV/lib/node"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Arrayable is implemented by everything that can be exported as a generic mapping.
// Repositories accept any Arrayable as the source of Merge and Replace.
type Arrayable interface {
	// ToArray returns the content as a generic (possibly nested) mapping
	ToArray() map[string]any
}

// Noder is implemented by sources that can hand out an ordered node tree.
// Merge and Replace prefer it over ToArray since it keeps key order.
type Noder interface {
	// ToNode returns a copy of the content as a branch node
	ToNode() *node.Node
}

// Values adapts a plain mapping to Arrayable.
type Values map[string]any

// ToArray implements Arrayable.
func (v Values) ToArray() map[string]any {
	return v
}

// IReadonlyRepository is the read surface shared by all repositories.
// Absence of a key is never an error.
type IReadonlyRepository interface {
	Arrayable
	// Has returns whether a key exists
	Has(key string) bool
	// Get returns the value for a key. If the key does not exist or holds nil, the first
	// default is returned (nil if no default is given)
	Get(key string, def ...any) any
	// GetKeys returns the keys of the repository in insertion order
	GetKeys(opts ...Option) []string
	// GetValues returns the key value pairs of the repository in insertion order
	GetValues(opts ...Option) *orderedmap.OrderedMap[string, any]
	// ToJSON encodes the content as json. Non-ASCII characters are written verbatim
	ToJSON() (string, error)
}

// IRepository is the generic interface of a key-value repository.
type IRepository interface {
	IReadonlyRepository
	// Set inserts or updates a key-value pair. Setting nil is equivalent to Unset
	Set(key string, value any)
	// Unset removes a key. Removing a non-existent key is a no-op
	Unset(key string)
	// Clear removes all keys
	Clear()
	// Merge merges source into the repository (see WithOverride, WithCollision)
	Merge(source Arrayable, opts ...Option)
	// Replace replaces keys of the repository with the ones of source (see WithOverride)
	Replace(source Arrayable, opts ...Option)
	// IsEmpty returns whether the repository holds no keys
	IsEmpty() bool
	// FromArray replaces the content with values
	FromArray(values map[string]any)
	// FromJSON replaces the content with a json document.
	// On malformed input a *codec.DecodeError is returned and the content is left untouched
	FromJSON(text string) error
}

// IHierarchicalRepository is a repository addressed by separator-joined paths.
type IHierarchicalRepository interface {
	IRepository
	Noder
	// Separator returns the path separator
	Separator() string
	// Attach makes the repository operate on a shared root.
	// Mutations through either holder are visible to the other until the repository
	// is attached to another root or cleared.
	Attach(shared *node.Node)
	// Shared returns the root currently in use, e.g. to attach another repository to it
	Shared() *node.Node
}
