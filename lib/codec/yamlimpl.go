package codec

import (
	"math"

	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/goccy/go-yaml"
)

// NewYAMLCodec creates a new codec for yaml documents. Mapping order is kept
// in both directions.
func NewYAMLCodec() ICodec {
	return &yamlCodecImpl{}
}

// yamlCodecImpl implements the ICodec interface for yaml
type yamlCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (y yamlCodecImpl) Name() string {
	return "yaml"
}

func (y yamlCodecImpl) Encode(root *node.Node) ([]byte, error) {
	return yaml.MarshalWithOptions(toYAMLValue(root), yaml.IndentSequence(true))
}

func (y yamlCodecImpl) Decode(b []byte) (*node.Node, error) {
	var doc any
	if err := yaml.UnmarshalWithOptions(b, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, newDecodeError(y.Name(), ErrCodeMalformed, err)
	}

	switch doc.(type) {
	case nil:
		// an empty document is an empty mapping
		return node.NewBranch(), nil
	case yaml.MapSlice, []any:
		return node.FromValue(normalizeYAML(doc)), nil
	default:
		return nil, newDecodeError(y.Name(), ErrCodeUnsupported, ErrRootNotMapping)
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// toYAMLValue converts a node into values the yaml encoder writes in order
func toYAMLValue(n *node.Node) any {
	if n.IsLeaf() {
		return n.Value()
	}
	if n.IsList() {
		list := make([]any, 0, n.Len())
		n.Each(func(_ string, child *node.Node) bool {
			list = append(list, toYAMLValue(child))
			return true
		})
		return list
	}
	mapping := make(yaml.MapSlice, 0, n.Len())
	n.Each(func(key string, child *node.Node) bool {
		mapping = append(mapping, yaml.MapItem{Key: key, Value: toYAMLValue(child)})
		return true
	})
	return mapping
}

// normalizeYAML aligns decoded scalars with the json codec: integers are int64
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case yaml.MapSlice:
		for i := range v {
			v[i].Value = normalizeYAML(v[i].Value)
		}
		return v
	case []any:
		for i := range v {
			v[i] = normalizeYAML(v[i])
		}
		return v
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return v
	case int:
		return int64(v)
	default:
		return v
	}
}
