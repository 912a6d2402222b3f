package repo

import "github.com/ValentinKolb/hKV/lib/node"

// Options holds the parameters of enumeration (GetKeys, GetValues) and
// combination (Merge, Replace) operations. Each operation reads the fields
// relevant to it and ignores the rest.
type Options struct {
	// HasOffset is set when Offset should be used as the starting path instead of the root
	HasOffset bool
	// Offset is the starting path
	Offset string
	// TrimPrefix strips the offset from the returned keys (default true)
	TrimPrefix bool
	// NumericKeys turns numeric keys into key strings instead of treating them as list markers (default false)
	NumericKeys bool
	// MaxDepth limits the number of levels an enumeration descends, 0 means unlimited (default 0)
	MaxDepth int
	// Override gives the source precedence over the existing data (default true)
	Override bool
	// Recursive combines nested mappings key by key instead of replacing them as a whole (default true)
	Recursive bool
	// Collision decides what Merge does with a key that holds a non-mapping value on both sides
	// (default node.CollisionAccumulate)
	Collision node.CollisionPolicy
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the options used when no Option is given.
func DefaultOptions() Options {
	return Options{
		TrimPrefix: true,
		Override:   true,
		Recursive:  true,
		Collision:  node.CollisionAccumulate,
	}
}

// ApplyOptions returns the default options modified by opts.
func ApplyOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithOffset sets the starting path of an operation.
func WithOffset(path string) Option {
	return func(o *Options) {
		o.HasOffset = true
		o.Offset = path
	}
}

// WithTrimPrefix controls whether the offset is stripped from returned keys.
func WithTrimPrefix(trim bool) Option {
	return func(o *Options) {
		o.TrimPrefix = trim
	}
}

// WithNumericKeys controls whether numeric keys are turned into key strings.
func WithNumericKeys(include bool) Option {
	return func(o *Options) {
		o.NumericKeys = include
	}
}

// WithMaxDepth limits the depth of an enumeration (0 = unlimited).
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithOverride sets whether the source of Merge/Replace wins ties.
func WithOverride(override bool) Option {
	return func(o *Options) {
		o.Override = override
	}
}

// WithRecursive sets whether Merge/Replace descend into nested mappings.
func WithRecursive(recursive bool) Option {
	return func(o *Options) {
		o.Recursive = recursive
	}
}

// WithCollision sets the collision policy of Merge.
func WithCollision(policy node.CollisionPolicy) Option {
	return func(o *Options) {
		o.Collision = policy
	}
}
