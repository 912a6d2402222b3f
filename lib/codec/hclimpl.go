package codec

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// NewHCLCodec creates a new codec for hcl documents.
//
// Attributes become keys, blocks become mappings nested under their type and
// labels (`server "web" {}` is server.web). Repeating a block collects the
// bodies in a list. Expressions must be literals: references to variables or
// function calls are rejected. Encoding writes mappings as blocks and
// everything else as attributes, so keys must be valid identifiers.
func NewHCLCodec() ICodec {
	return &hclCodecImpl{}
}

// hclCodecImpl implements the ICodec interface for hcl
type hclCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ICodec)
// --------------------------------------------------------------------------

func (h hclCodecImpl) Name() string {
	return "hcl"
}

func (h hclCodecImpl) Encode(root *node.Node) ([]byte, error) {
	// values that are no mapping are written as a single expression
	if root.IsLeaf() || root.IsList() {
		val, err := toCty(root)
		if err != nil {
			return nil, err
		}
		return hclwrite.TokensForValue(val).Bytes(), nil
	}

	f := hclwrite.NewEmptyFile()
	if err := encodeHCLBody(f.Body(), root); err != nil {
		return nil, err
	}
	return hclwrite.Format(f.Bytes()), nil
}

func (h hclCodecImpl) Decode(b []byte) (*node.Node, error) {
	file, diags := hclsyntax.ParseConfig(b, "document.hcl", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, newDecodeError(h.Name(), ErrCodeMalformed, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, newDecodeError(h.Name(), ErrCodeUnsupported, fmt.Errorf("unexpected body type %T", file.Body))
	}

	root, err := decodeHCLBody(body)
	if err != nil {
		return nil, newDecodeError(h.Name(), ErrCodeMalformed, err)
	}
	return root, nil
}

// --------------------------------------------------------------------------
// Encoding
// --------------------------------------------------------------------------

func encodeHCLBody(body *hclwrite.Body, n *node.Node) error {
	var err error
	n.Each(func(key string, child *node.Node) bool {
		if !hclsyntax.ValidIdentifier(key) {
			err = fmt.Errorf("key %q is not a valid hcl identifier", key)
			return false
		}

		if child.IsBranch() && !child.IsList() {
			block := body.AppendNewBlock(key, nil)
			err = encodeHCLBody(block.Body(), child)
			return err == nil
		}

		var val cty.Value
		val, err = toCty(child)
		if err != nil {
			return false
		}
		body.SetAttributeValue(key, val)
		return true
	})
	return err
}

// toCty converts a node into a cty value. Mappings become objects, lists tuples.
func toCty(n *node.Node) (cty.Value, error) {
	if n.IsLeaf() {
		return scalarToCty(n.Value())
	}

	if n.IsList() {
		elems := make([]cty.Value, 0, n.Len())
		var err error
		n.Each(func(_ string, child *node.Node) bool {
			var val cty.Value
			val, err = toCty(child)
			elems = append(elems, val)
			return err == nil
		})
		if err != nil {
			return cty.NilVal, err
		}
		return cty.TupleVal(elems), nil
	}

	if n.Len() == 0 {
		return cty.EmptyObjectVal, nil
	}
	attrs := make(map[string]cty.Value, n.Len())
	var err error
	n.Each(func(key string, child *node.Node) bool {
		attrs[key], err = toCty(child)
		return err == nil
	})
	if err != nil {
		return cty.NilVal, err
	}
	return cty.ObjectVal(attrs), nil
}

func scalarToCty(value any) (cty.Value, error) {
	switch v := value.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int32:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case float32:
		return cty.NumberFloatVal(float64(v)), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	default:
		return cty.StringVal(fmt.Sprint(v)), nil
	}
}

// --------------------------------------------------------------------------
// Decoding
// --------------------------------------------------------------------------

// hclItem is an attribute or a block, positioned in the source
type hclItem struct {
	offset int
	attr   *hclsyntax.Attribute
	block  *hclsyntax.Block
}

// decodeHCLBody converts a body, attributes and blocks in source order
func decodeHCLBody(body *hclsyntax.Body) (*node.Node, error) {
	items := make([]hclItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, hclItem{offset: attr.SrcRange.Start.Byte, attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, hclItem{offset: block.TypeRange.Start.Byte, block: block})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].offset < items[j].offset })

	result := node.NewBranch()
	repeated := map[*node.Node]bool{}
	for _, item := range items {
		if item.attr != nil {
			value, err := decodeHCLExpr(item.attr.Expr)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", item.attr.Name, err)
			}
			result.SetChild(item.attr.Name, value)
			continue
		}

		value, err := decodeHCLBody(item.block.Body)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", item.block.Type, err)
		}

		// type and labels form the path of the block body
		path := append([]string{item.block.Type}, item.block.Labels...)
		parent := result
		for _, key := range path[:len(path)-1] {
			child, ok := parent.Child(key)
			if !ok || !child.IsBranch() {
				child = node.NewBranch()
				parent.SetChild(key, child)
			}
			parent = child
		}

		key := path[len(path)-1]
		existing, ok := parent.Child(key)
		switch {
		case !ok:
			parent.SetChild(key, value)
		case repeated[existing]:
			existing.SetChild(strconv.Itoa(existing.Len()), value)
		default:
			list := node.NewList()
			list.SetChild("0", existing)
			list.SetChild("1", value)
			repeated[list] = true
			parent.SetChild(key, list)
		}
	}
	return result, nil
}

// decodeHCLExpr converts a literal expression. Object and tuple constructors
// are walked directly to keep the key order of the source.
func decodeHCLExpr(expr hclsyntax.Expression) (*node.Node, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		branch := node.NewBranch()
		for _, item := range e.Items {
			k, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			key, err := ctyKey(k)
			if err != nil {
				return nil, err
			}
			value, err := decodeHCLExpr(item.ValueExpr)
			if err != nil {
				return nil, err
			}
			branch.SetChild(key, value)
		}
		return branch, nil

	case *hclsyntax.TupleConsExpr:
		branch := node.NewList()
		for i, elem := range e.Exprs {
			value, err := decodeHCLExpr(elem)
			if err != nil {
				return nil, err
			}
			branch.SetChild(strconv.Itoa(i), value)
		}
		return branch, nil

	default:
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		return fromCty(val)
	}
}

// fromCty converts a cty value into a node
func fromCty(val cty.Value) (*node.Node, error) {
	if !val.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	if val.IsNull() {
		return node.NewLeaf(nil), nil
	}

	t := val.Type()
	switch {
	case t == cty.String:
		return node.NewLeaf(val.AsString()), nil
	case t == cty.Bool:
		return node.NewLeaf(val.True()), nil
	case t == cty.Number:
		return node.NewLeaf(ctyNumber(val.AsBigFloat())), nil
	case t.IsObjectType() || t.IsMapType():
		branch := node.NewBranch()
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			child, err := fromCty(v)
			if err != nil {
				return nil, err
			}
			branch.SetChild(k.AsString(), child)
		}
		return branch, nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		branch := node.NewList()
		i := 0
		for it := val.ElementIterator(); it.Next(); i++ {
			_, v := it.Element()
			child, err := fromCty(v)
			if err != nil {
				return nil, err
			}
			branch.SetChild(strconv.Itoa(i), child)
		}
		return branch, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", t.FriendlyName())
	}
}

// ctyNumber returns integral numbers as int64 like the json codec does
func ctyNumber(f *big.Float) any {
	if f.IsInt() {
		if i, acc := f.Int64(); acc == big.Exact {
			return i
		}
	}
	v, _ := f.Float64()
	return v
}

func ctyKey(k cty.Value) (string, error) {
	if !k.IsKnown() || k.IsNull() {
		return "", fmt.Errorf("object key must be known and not null")
	}
	switch k.Type() {
	case cty.String:
		return k.AsString(), nil
	case cty.Number:
		return k.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		return strconv.FormatBool(k.True()), nil
	default:
		return "", fmt.Errorf("unsupported object key type %s", k.Type().FriendlyName())
	}
}
