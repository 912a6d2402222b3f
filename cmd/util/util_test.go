package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/repo/flat"
	"github.com/ValentinKolb/hKV/lib/repo/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, int64(5), ParseValue("5"))
	assert.Equal(t, 1.5, ParseValue("1.5"))
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, "hello", ParseValue("hello"))
	assert.Equal(t, "quoted", ParseValue(`"quoted"`))
	assert.Equal(t, []any{int64(1), int64(2)}, ParseValue("[1,2]"))
	assert.Equal(t, map[string]any{"a": "b"}, ParseValue(`{"a":"b"}`))
	assert.Equal(t, "{broken", ParseValue("{broken"))
	assert.Nil(t, ParseValue("null"))
}

func TestLoadDocument(t *testing.T) {
	conf := Config{File: "-", Format: "json", Output: "json", Separator: "."}

	doc, err := LoadDocument(conf, strings.NewReader(`{"a.b":1,"c":{"d":2}}`))
	require.NoError(t, err)
	require.IsType(t, &tree.Repository{}, doc)
	assert.Equal(t, int64(1), doc.Get("a.b"))
	assert.Equal(t, int64(2), doc.Get("c.d"))

	doc, err = LoadDocument(conf, strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, doc.IsEmpty())

	_, err = LoadDocument(conf, strings.NewReader(`{"a":`))
	assert.True(t, codec.IsDecodeError(err))

	conf.Flat = true
	doc, err = LoadDocument(conf, strings.NewReader(`{"a.b":1}`))
	require.NoError(t, err)
	require.IsType(t, &flat.Repository{}, doc)
	assert.Equal(t, []string{"a.b"}, doc.GetKeys())
}

func TestLoadDocumentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a:\n  b: x\n"), 0o600))

	conf := Config{File: path, Format: "yaml", Output: "json", Separator: "."}
	doc, err := LoadDocument(conf, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "x", doc.Get("a.b"))

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, conf, doc))
	assert.Equal(t, "{\"a\":{\"b\":\"x\"}}\n", buf.String())

	conf.File = "-"
	conf.Format = "toml"
	_, err = LoadDocument(conf, strings.NewReader(""))
	require.NoError(t, err)
	_, err = DecodeDocument(conf, []byte("a = 1"))
	assert.Error(t, err)
}

func TestLoadDocumentHCL(t *testing.T) {
	conf := Config{File: "-", Format: "hcl", Output: "yaml", Separator: "."}
	doc, err := LoadDocument(conf, strings.NewReader("db {\n  port = 5432\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(5432), doc.Get("db.port"))

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, conf, doc))
	assert.Equal(t, "db:\n  port: 5432\n", buf.String())
}

func TestWriteValue(t *testing.T) {
	conf := Config{Output: "json"}

	var buf bytes.Buffer
	require.NoError(t, WriteValue(&buf, conf, "plain"))
	require.NoError(t, WriteValue(&buf, conf, int64(3)))
	require.NoError(t, WriteValue(&buf, conf, map[string]any{"a": []any{"x"}}))
	assert.Equal(t, "plain\n3\n{\"a\":[\"x\"]}\n", buf.String())
}
