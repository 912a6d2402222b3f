package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/buger/jsonparser"
	"github.com/mailru/easyjson/jwriter"
	"github.com/ohler55/ojg/oj"
)

// NewJSONCodec creates a new codec for json documents.
// Encoding keeps the insertion order of keys and writes non-ASCII characters verbatim.
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface for json
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Name() string {
	return "json"
}

func (j jsonCodecImpl) Encode(root *node.Node) ([]byte, error) {
	w := &jwriter.Writer{NoEscapeHTML: true}
	encodeJSONValue(w, root)
	return w.BuildBytes()
}

func (j jsonCodecImpl) Decode(b []byte) (*node.Node, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, newDecodeError(j.Name(), ErrCodeMalformed, ErrEmptyDocument)
	}
	// jsonparser is lenient with trailing data, so the document is validated first
	if _, err := oj.Parse(b); err != nil {
		return nil, newDecodeError(j.Name(), ErrCodeMalformed, err)
	}

	value, dataType, _, err := jsonparser.Get(b)
	if err != nil {
		return nil, newDecodeError(j.Name(), ErrCodeMalformed, err)
	}
	if dataType != jsonparser.Object && dataType != jsonparser.Array {
		return nil, newDecodeError(j.Name(), ErrCodeUnsupported, ErrRootNotMapping)
	}

	root, err := decodeJSONValue(value, dataType)
	if err != nil {
		return nil, newDecodeError(j.Name(), ErrCodeMalformed, err)
	}
	return root, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// encodeJSONValue writes a node in insertion order. List-like branches become
// arrays. Non-ASCII and html characters are written verbatim.
func encodeJSONValue(w *jwriter.Writer, n *node.Node) {
	if n.IsLeaf() {
		encodeJSONScalar(w, n.Value())
		return
	}

	if n.IsList() {
		w.RawByte('[')
		first := true
		n.Each(func(_ string, child *node.Node) bool {
			if !first {
				w.RawByte(',')
			}
			first = false
			encodeJSONValue(w, child)
			return true
		})
		w.RawByte(']')
		return
	}

	w.RawByte('{')
	first := true
	n.Each(func(key string, child *node.Node) bool {
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(key)
		w.RawByte(':')
		encodeJSONValue(w, child)
		return true
	})
	w.RawByte('}')
}

func encodeJSONScalar(w *jwriter.Writer, value any) {
	switch v := value.(type) {
	case nil:
		w.RawString("null")
	case string:
		w.String(v)
	case bool:
		w.Bool(v)
	case int:
		w.Int(v)
	case int64:
		w.Int64(v)
	case int32:
		w.Int32(v)
	case uint64:
		w.Uint64(v)
	case float64:
		w.Float64(v)
	default:
		// anything else (structs, time.Time, ...) takes the encoding/json route
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			w.Raw(nil, err)
			return
		}
		w.Raw(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil)
	}
}

// decodeJSONValue converts a raw json value into a node, keeping object key order
func decodeJSONValue(raw []byte, dataType jsonparser.ValueType) (*node.Node, error) {
	switch dataType {
	case jsonparser.Object:
		branch := node.NewBranch()
		err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, vt jsonparser.ValueType, _ int) error {
			child, err := decodeJSONValue(value, vt)
			if err != nil {
				return err
			}
			branch.SetChild(string(key), child)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return branch, nil

	case jsonparser.Array:
		branch := node.NewList()
		index := 0
		var innerErr error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, vt jsonparser.ValueType, _ int, err error) {
			if innerErr != nil {
				return
			}
			if err != nil {
				innerErr = err
				return
			}
			child, err := decodeJSONValue(value, vt)
			if err != nil {
				innerErr = err
				return
			}
			branch.SetChild(strconv.Itoa(index), child)
			index++
		})
		if err != nil {
			return nil, err
		}
		if innerErr != nil {
			return nil, innerErr
		}
		return branch, nil

	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, err
		}
		return node.NewLeaf(s), nil

	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(raw); err == nil {
			return node.NewLeaf(i), nil
		}
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return nil, err
		}
		return node.NewLeaf(f), nil

	case jsonparser.Boolean:
		v, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, err
		}
		return node.NewLeaf(v), nil

	case jsonparser.Null:
		return node.NewLeaf(nil), nil

	default:
		return nil, fmt.Errorf("unexpected json value type %s", dataType)
	}
}
