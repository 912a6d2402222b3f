package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/node"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() ICodec{
	"JSON": NewJSONCodec,
	"YAML": NewYAMLCodec,
}

// testDocuments creates a set of documents covering all value kinds
func testDocuments() map[string]map[string]any {
	return map[string]map[string]any{
		"Empty": {},
		"Scalars": {
			"text":    "value",
			"count":   int64(42),
			"ratio":   1.5,
			"enabled": true,
			"nothing": nil,
		},
		"Nested": {
			"db": map[string]any{
				"host": "localhost",
				"port": int64(5432),
				"options": map[string]any{
					"ssl": false,
				},
			},
		},
		"Lists": {
			"tags":    []any{"a", "b", "c"},
			"servers": []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}},
		},
		"Unicode": {
			"greeting": "grüße <html> & 日本",
		},
		"EmptyList": {
			"tags":  []any{},
			"count": int64(1),
		},
	}
}

// TestCodecRoundTrip tests that documents survive an encode/decode cycle
func TestCodecRoundTrip(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			for docName, doc := range testDocuments() {
				data, err := c.Encode(node.FromMap(doc))
				if err != nil {
					t.Errorf("Failed to encode document %s: %v", docName, err)
					continue
				}

				root, err := c.Decode(data)
				if err != nil {
					t.Errorf("Failed to decode document %s: %v\n%s", docName, err, data)
					continue
				}

				if result := root.ExportMap(); !reflect.DeepEqual(doc, result) {
					t.Errorf("Document %s mismatch:\nExpected: %#v\nGot: %#v", docName, doc, result)
				}
			}
		})
	}
}

// TestCodecKeyOrder tests that mapping order survives both directions
func TestCodecKeyOrder(t *testing.T) {
	inputs := map[string]string{
		"JSON": `{"z":1,"a":{"y":2,"b":3},"m":4}`,
		"YAML": "z: 1\na:\n  y: 2\n  b: 3\nm: 4\n",
	}

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()
			root, err := c.Decode([]byte(inputs[name]))
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}

			if keys := root.Keys(); !reflect.DeepEqual(keys, []string{"z", "a", "m"}) {
				t.Errorf("Expected top-level order [z a m], got %v", keys)
			}
			a, _ := root.Child("a")
			if keys := a.Keys(); !reflect.DeepEqual(keys, []string{"y", "b"}) {
				t.Errorf("Expected nested order [y b], got %v", keys)
			}

			data, err := c.Encode(root)
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			if string(data) != inputs[name] {
				t.Errorf("Expected %q, got %q", inputs[name], data)
			}
		})
	}
}

// TestJSONEncodeVerbatim tests that html and non-ASCII characters are not escaped
func TestJSONEncodeVerbatim(t *testing.T) {
	root := node.NewBranch()
	root.SetChild("text", node.NewLeaf("<a href=\"x\">ä & ö</a>"))

	data, err := NewJSONCodec().Encode(root)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	expected := `{"text":"<a href=\"x\">ä & ö</a>"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

// TestEmptyListsStayLists tests that empty arrays are not written back as objects
func TestEmptyListsStayLists(t *testing.T) {
	inputs := map[string]string{
		"JSON": `{"a":[],"b":[1],"c":{}}`,
		"YAML": "a: []\nb:\n- 1\nc: {}\n",
	}

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()
			root, err := c.Decode([]byte(inputs[name]))
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			a, _ := root.Child("a")
			if !a.IsList() {
				t.Errorf("Expected an empty list, got %v", a)
			}
			if cNode, _ := root.Child("c"); cNode.IsList() {
				t.Errorf("Expected an empty mapping, got a list")
			}

			reencoded, err := c.Decode(mustEncode(t, c, root))
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			expected := map[string]any{"a": []any{}, "b": []any{int64(1)}, "c": map[string]any{}}
			if result := reencoded.ExportMap(); !reflect.DeepEqual(expected, result) {
				t.Errorf("Expected %#v, got %#v", expected, result)
			}
		})
	}

	data := mustEncode(t, NewJSONCodec(), node.FromValue(map[string]any{"a": []any{}, "b": []any{1}}))
	if string(data) != `{"a":[],"b":[1]}` {
		t.Errorf("Expected %s, got %s", `{"a":[],"b":[1]}`, data)
	}
}

func mustEncode(t *testing.T, c ICodec, n *node.Node) []byte {
	t.Helper()
	data, err := c.Encode(n)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	return data
}

// TestJSONNumbers tests that integers decode as int64 and other numbers as float64
func TestJSONNumbers(t *testing.T) {
	root, err := NewJSONCodec().Decode([]byte(`{"int":7,"neg":-3,"float":2.5,"exp":1e3}`))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	expected := map[string]any{"int": int64(7), "neg": int64(-3), "float": 2.5, "exp": 1000.0}
	if result := root.ExportMap(); !reflect.DeepEqual(expected, result) {
		t.Errorf("Expected %#v, got %#v", expected, result)
	}
}

// TestListRoot tests that a list as document root becomes a branch keyed by index
func TestListRoot(t *testing.T) {
	inputs := map[string]string{
		"JSON": `["a","b"]`,
		"YAML": "- a\n- b\n",
	}

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			root, err := factory().Decode([]byte(inputs[name]))
			if err != nil {
				t.Fatalf("Failed to decode: %v", err)
			}
			if !root.IsList() || root.Len() != 2 {
				t.Errorf("Expected a list with 2 elements, got %v", root)
			}
		})
	}
}

// TestDecodeErrors tests the classification of invalid input
func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		codec string
		input string
		code  ErrCode
	}{
		{"JSON", `{"a":`, ErrCodeMalformed},
		{"JSON", ``, ErrCodeMalformed},
		{"JSON", `42`, ErrCodeUnsupported},
		{"JSON", `"text"`, ErrCodeUnsupported},
		{"YAML", "a: [1, 2", ErrCodeMalformed},
		{"YAML", "just a string", ErrCodeUnsupported},
	}

	for _, tt := range tests {
		root, err := testCodecs[tt.codec]().Decode([]byte(tt.input))
		if root != nil {
			t.Errorf("%s %q: expected no root on error, got %v", tt.codec, tt.input, root)
		}

		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("%s %q: expected a DecodeError, got %v", tt.codec, tt.input, err)
			continue
		}
		if decodeErr.Code != tt.code {
			t.Errorf("%s %q: expected code %s, got %s", tt.codec, tt.input, tt.code, decodeErr.Code)
		}
		if !IsDecodeError(err) {
			t.Errorf("%s %q: IsDecodeError returned false", tt.codec, tt.input)
		}
	}

	_, err := NewJSONCodec().Decode([]byte("  \n"))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument, got %v", err)
	}
}

// TestEmptyYAML tests that an empty yaml document is an empty mapping
func TestEmptyYAML(t *testing.T) {
	root, err := NewYAMLCodec().Decode([]byte(""))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !root.IsBranch() || root.Len() != 0 {
		t.Errorf("Expected an empty branch, got %v", root)
	}
}

func TestGet(t *testing.T) {
	for _, format := range []string{"json", "JSON", " yaml", "yml"} {
		if _, err := Get(format); err != nil {
			t.Errorf("Expected codec for %q, got %v", format, err)
		}
	}
	if _, err := Get("toml"); err == nil || !strings.Contains(err.Error(), "toml") {
		t.Errorf("Expected an error naming the format, got %v", err)
	}
}
