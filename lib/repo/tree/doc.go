// Package tree implements the hierarchical repository of hKV: a nested node tree
// addressed by paths whose segments are joined by a separator (default ".").
//
//	r := tree.New(map[string]any{"db.host": "localhost"})
//	r.Get("db.host")           // "localhost"
//	r.Set("db.port", 5432)
//	r.GetKeys()                // [db db.host db.port]
//	r.GetValues()              // {db.host: localhost, db.port: 5432}
//
// Path Resolution:
//
//	Reads walk the path without touching the tree. Writes create missing mappings on the
//	way, and a scalar found on the way is replaced by a mapping (its value is lost).
//	Leaves holding nil are treated like missing keys. An empty segment (leading,
//	trailing or doubled separator) addresses the empty key.
//
// Dotted Keys:
//
//	Top-level keys containing the separator are promoted to nested paths exactly once,
//	at construction (New, NewFromNode) and for sources of Merge/Replace that are not
//	hierarchical repositories themselves. Keys passed to FromArray, FromJSON and
//	FromYAML as well as nested keys are stored literally and can not be addressed by
//	a path afterward.
//
// Numeric Keys:
//
//	Keys made up of ASCII digits only are list markers. GetKeys skips them (but lists
//	their named descendants), GetValues keeps mappings holding them as a single value
//	instead of flattening them. Merge appends and renumbers them instead of matching them.
//
// Shared Roots:
//
//	Attach makes the repository operate on a root owned by someone else, typically
//	another repository (b.Attach(a.Shared())). Both holders observe each other's
//	mutations until the repository is attached to another root or cleared. FromArray,
//	FromJSON and FromYAML write into the shared root, Clear detaches.
//
// Thread Safety:
//
//	The repository is not safe for concurrent use.
package tree
