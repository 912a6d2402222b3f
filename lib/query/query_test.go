package query

import (
	"sort"
	"testing"

	"github.com/ValentinKolb/hKV/lib/repo"
	"github.com/ValentinKolb/hKV/lib/repo/flat"
	"github.com/ValentinKolb/hKV/lib/repo/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T) *tree.Repository {
	r := tree.New(nil)
	require.NoError(t, r.FromJSON(`{
		"name": "hkv",
		"servers": [{"host": "a", "port": 1}, {"host": "b", "port": 2}],
		"db": {"host": "localhost"}
	}`))
	return r
}

func TestSelect(t *testing.T) {
	r := newTree(t)

	results, err := Select(r, "$.name")
	require.NoError(t, err)
	assert.Equal(t, []any{"hkv"}, results)

	results, err = Select(r, "$.servers[*].host")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, results)

	results, err = Select(r, "$.servers[1].port")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2)}, results)

	results, err = Select(r, "$.missing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSelectRecursiveDescent(t *testing.T) {
	results, err := Select(newTree(t), "$..host")
	require.NoError(t, err)

	hosts := make([]string, 0, len(results))
	for _, r := range results {
		hosts = append(hosts, r.(string))
	}
	sort.Strings(hosts)
	assert.Equal(t, []string{"a", "b", "localhost"}, hosts)
}

func TestSelectFlat(t *testing.T) {
	r := flat.New(map[string]any{"a.b": "literal"})
	results, err := Select(r, "$['a.b']")
	require.NoError(t, err)
	assert.Equal(t, []any{"literal"}, results)
}

func TestSelectValues(t *testing.T) {
	results, err := Select(repo.Values{"k": []any{"x"}}, "$.k[0]")
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, results)
}

func TestCompile(t *testing.T) {
	q, err := Compile("$.db.host")
	require.NoError(t, err)
	assert.Equal(t, "$.db.host", q.String())

	v, ok := q.First(newTree(t))
	assert.True(t, ok)
	assert.Equal(t, "localhost", v)

	_, ok = q.First(tree.New(nil))
	assert.False(t, ok)

	// cached
	_, cached := compiled.Load("$.db.host")
	assert.True(t, cached)

	_, err = Compile("$[")
	assert.Error(t, err)
}
