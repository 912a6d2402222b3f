package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/node"
)

const hclDocument = `
name    = "hkv"
port    = 5432
ratio   = 1.5
enabled = true
nothing = null
tags    = ["a", "b"]
meta    = { z = 1, a = "x" }

server "web" {
  host = "a"
}

server "db" {
  host = "b"
}

rule {
  allow = true
}

rule {
  allow = false
}
`

// TestHCLDecode tests attributes and blocks in source order
func TestHCLDecode(t *testing.T) {
	root, err := NewHCLCodec().Decode([]byte(hclDocument))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}

	expectedKeys := []string{"name", "port", "ratio", "enabled", "nothing", "tags", "meta", "server", "rule"}
	if keys := root.Keys(); !reflect.DeepEqual(keys, expectedKeys) {
		t.Errorf("Expected keys %v, got %v", expectedKeys, keys)
	}

	meta, _ := root.Child("meta")
	if keys := meta.Keys(); !reflect.DeepEqual(keys, []string{"z", "a"}) {
		t.Errorf("Expected object keys [z a], got %v", keys)
	}
	server, _ := root.Child("server")
	if keys := server.Keys(); !reflect.DeepEqual(keys, []string{"web", "db"}) {
		t.Errorf("Expected labels [web db], got %v", keys)
	}

	expected := map[string]any{
		"name":    "hkv",
		"port":    int64(5432),
		"ratio":   1.5,
		"enabled": true,
		"nothing": nil,
		"tags":    []any{"a", "b"},
		"meta":    map[string]any{"z": int64(1), "a": "x"},
		"server": map[string]any{
			"web": map[string]any{"host": "a"},
			"db":  map[string]any{"host": "b"},
		},
		"rule": []any{
			map[string]any{"allow": true},
			map[string]any{"allow": false},
		},
	}
	if result := root.ExportMap(); !reflect.DeepEqual(expected, result) {
		t.Errorf("Document mismatch:\nExpected: %#v\nGot: %#v", expected, result)
	}
}

// TestHCLRoundTrip tests that documents survive an encode/decode cycle
func TestHCLRoundTrip(t *testing.T) {
	c := NewHCLCodec()

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
}

// TestHCLEncodeBlocks tests that nested mappings are written as blocks
func TestHCLEncodeBlocks(t *testing.T) {
	root := node.FromValue(map[string]any{"db": map[string]any{"port": 5432}})

	data, err := NewHCLCodec().Encode(root)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if !strings.Contains(string(data), "db {") || !strings.Contains(string(data), "port = 5432") {
		t.Errorf("Expected a db block, got:\n%s", data)
	}
}

// TestHCLEncodeErrors tests keys that cannot be written as hcl
func TestHCLEncodeErrors(t *testing.T) {
	root := node.FromValue(map[string]any{"not valid": 1})
	if _, err := NewHCLCodec().Encode(root); err == nil {
		t.Errorf("Expected an error for an invalid identifier")
	}
}

// TestHCLEncodeValue tests that values which are no mapping become expressions
func TestHCLEncodeValue(t *testing.T) {
	data, err := NewHCLCodec().Encode(node.NewLeaf("x"))
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if string(data) != `"x"` {
		t.Errorf(`Expected "x", got %s`, data)
	}
}

// TestHCLDecodeErrors tests malformed documents and non-literal expressions
func TestHCLDecodeErrors(t *testing.T) {
	for _, input := range []string{
		`a = `,
		`a = var.b`,
		`a = upper("x")`,
		`block {`,
	} {
		root, err := NewHCLCodec().Decode([]byte(input))
		if root != nil {
			t.Errorf("%q: expected no root on error", input)
		}
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) || decodeErr.Code != ErrCodeMalformed {
			t.Errorf("%q: expected a malformed DecodeError, got %v", input, err)
		}
	}
}
