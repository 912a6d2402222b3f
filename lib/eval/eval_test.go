package eval

import (
	"errors"
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/repo/flat"
	"github.com/ValentinKolb/hKV/lib/repo/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree() *tree.Repository {
	return tree.New(map[string]any{
		"db.host": "localhost",
		"db.port": 5432,
		"name":    "hkv",
	})
}

func TestEvaluateVariables(t *testing.T) {
	e := New()

	v, err := e.Evaluate(newTree(), `name + "-" + db.host`)
	require.NoError(t, err)
	assert.Equal(t, "hkv-localhost", v)

	v, err = e.Evaluate(newTree(), `undefined == nil`)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestEvaluateFunctions(t *testing.T) {
	e := New()
	r := newTree()

	ok, err := e.EvaluateBool(r, `has("db.host") && !has("db.user")`)
	require.NoError(t, err)
	assert.True(t, ok)

	v, err := e.Evaluate(r, `get("db.user", "root")`)
	require.NoError(t, err)
	assert.Equal(t, "root", v)

	v, err = e.Evaluate(r, `keys("db")`)
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "port"}, v)

	v, err = e.Evaluate(r, `len(keys())`)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestEvaluateFlat(t *testing.T) {
	v, err := New().Evaluate(flat.New(map[string]any{"a.b": 2}), `get("a.b") * 2`)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
}

func TestCustomFunction(t *testing.T) {
	e := New(WithFunction("shout", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New("shout expects one argument")
		}
		return strings.ToUpper(args[0].(string)), nil
	}))

	v, err := e.Evaluate(newTree(), `shout(get("name"))`)
	require.NoError(t, err)
	assert.Equal(t, "HKV", v)
}

func TestProgramCache(t *testing.T) {
	e := New()
	r := newTree()
	for i := 0; i < 3; i++ {
		_, err := e.Evaluate(r, `get("name")`)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, e.Cached())

	e = New(WithoutCache())
	_, err := e.Evaluate(r, `get("name")`)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Cached())
}

func TestErrors(t *testing.T) {
	e := New()
	r := newTree()

	_, err := e.Evaluate(r, "")
	assert.ErrorIs(t, err, ErrEmptyExpression)

	_, err = e.Evaluate(r, `get(`)
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, `get(`, evalErr.Expr)

	_, err = e.EvaluateBool(r, `get("name")`)
	assert.Error(t, err)
}
