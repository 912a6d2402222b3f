package patch

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, text string) *node.Node {
	t.Helper()
	n, err := codec.NewJSONCodec().Decode([]byte(text))
	require.NoError(t, err)
	return n
}

func encode(t *testing.T, n *node.Node) string {
	t.Helper()
	b, err := codec.NewJSONCodec().Encode(n)
	require.NoError(t, err)
	return string(b)
}

func TestApply(t *testing.T) {
	root := decode(t, `{"z":1,"db":{"port":5432,"host":"a"},"tags":["x"]}`)

	result, err := Apply(root, []byte(`[
		{"op":"replace","path":"/db/port","value":5433},
		{"op":"add","path":"/tags/-","value":"y"},
		{"op":"add","path":"/b","value":true},
		{"op":"remove","path":"/z"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, `{"db":{"port":5433,"host":"a"},"tags":["x","y"],"b":true}`, encode(t, result))

	// input untouched
	assert.Equal(t, `{"z":1,"db":{"port":5432,"host":"a"},"tags":["x"]}`, encode(t, root))
}

func TestEmptyListsSurvive(t *testing.T) {
	root := decode(t, `{"a":[],"b":1,"c":[]}`)

	result, err := Apply(root, []byte(`[{"op":"replace","path":"/b","value":2},{"op":"add","path":"/c/-","value":"x"}]`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[],"b":2,"c":["x"]}`, encode(t, result))

	result, err = Merge(root, []byte(`{"b":3}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[],"b":3,"c":[]}`, encode(t, result))
}

func TestApplyErrors(t *testing.T) {
	root := decode(t, `{"a":1}`)

	_, err := Apply(root, []byte(`not a patch`))
	var patchErr *Error
	require.True(t, errors.As(err, &patchErr))
	assert.Equal(t, "json-patch", patchErr.Kind)

	_, err = Apply(root, []byte(`[{"op":"remove","path":"/missing"}]`))
	assert.Error(t, err)

	_, err = Apply(root, []byte(`[{"op":"test","path":"/a","value":2}]`))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	root := decode(t, `{"name":"hkv","db":{"host":"a","port":1},"old":true}`)

	result, err := Merge(root, []byte(`{"db":{"port":2,"user":"root"},"old":null,"new":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"hkv","db":{"host":"a","port":2,"user":"root"},"new":[1,2]}`, encode(t, result))
}

func TestMergeInvalid(t *testing.T) {
	_, err := Merge(node.NewBranch(), []byte(`{`))
	assert.Error(t, err)
}

func TestApplyNilRoot(t *testing.T) {
	result, err := Apply(nil, []byte(`[{"op":"add","path":"/a","value":1}]`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, encode(t, result))
}
