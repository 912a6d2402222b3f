package stats

import (
	"math"
	"strings"
	"testing"

	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/stretchr/testify/assert"
)

func TestNewSpread(t *testing.T) {
	assert.Equal(t, Spread{}, NewSpread(nil))

	s := NewSpread([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 2.0, s.StdDeviation)
	assert.InDelta(t, 2.0/9.0, s.MinMaxRatio, 1e-9)

	zero := NewSpread([]float64{0, 0})
	assert.Equal(t, 1.0, zero.MinMaxRatio)
}

func TestHistogram(t *testing.T) {
	h := NewHistogram()
	assert.Equal(t, 0, h.Average())
	assert.Equal(t, 0, h.Percentile(50))

	for i := 0; i < 9; i++ {
		h.Add(4) // first bucket
	}
	h.Add(100000) // open bucket

	assert.Equal(t, int64(10), h.Count())
	assert.Equal(t, (9*4+100000)/10, h.Average())
	assert.Equal(t, 4, h.Percentile(50))
	assert.Equal(t, 65536*2, h.Percentile(100))
	assert.Equal(t, 0, h.Percentile(101))

	bounds, counts := h.Buckets()
	assert.Equal(t, len(bounds), len(counts))
	assert.Equal(t, -1, bounds[len(bounds)-1])
	assert.Equal(t, int64(9), counts[0])
	assert.Equal(t, int64(1), counts[len(counts)-1])
}

func TestHistogramMiddleBucket(t *testing.T) {
	h := NewHistogram()
	h.Add(20) // bucket (16, 32]
	assert.Equal(t, 24, h.Percentile(50))
}

func TestDescribe(t *testing.T) {
	root := node.FromValue(map[string]any{
		"name": "hkv",
		"db": map[string]any{
			"port":  5432,
			"hosts": []any{"a", "b"},
			"user":  nil,
		},
		"long": strings.Repeat("x", 300),
	})

	s := Describe(root)
	assert.Equal(t, 2, s.Branches)
	assert.Equal(t, 1, s.Lists)
	assert.Equal(t, 6, s.Leaves)
	assert.Equal(t, 1, s.Nulls)
	assert.Equal(t, 3, s.MaxDepth)
	assert.Equal(t, int64(5), s.Sizes.Count())

	// root: 3 children, db: 3 children, hosts: 2 children
	assert.Equal(t, 2.0, s.FanOut.Min)
	assert.Equal(t, 3.0, s.FanOut.Max)
	assert.InDelta(t, 8.0/3.0, s.FanOut.Mean, 1e-9)
	assert.False(t, math.IsNaN(s.FanOut.StdDeviation))
}

func TestDescribeEmpty(t *testing.T) {
	s := Describe(node.NewBranch())
	assert.Equal(t, 0, s.MaxDepth)
	assert.Equal(t, 0, s.Leaves)
	assert.Equal(t, 0.0, s.FanOut.Max)

	assert.Equal(t, 0, Describe(nil).Branches)
	assert.Equal(t, 0, Describe(node.NewLeaf(1)).Leaves)
}

func TestSummaryValues(t *testing.T) {
	values := Describe(node.FromValue(map[string]any{"a": []any{1, 2}})).Values()

	var keys []string
	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"branches", "lists", "leaves", "nulls", "max_depth", "fan_out", "leaf_sizes"}, keys)

	leaves, _ := values.Get("leaves")
	assert.Equal(t, int64(2), leaves)
	depth, _ := values.Get("max_depth")
	assert.Equal(t, int64(2), depth)
}
