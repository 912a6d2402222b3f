package stats

import (
	"fmt"
	"math"

	"github.com/ValentinKolb/hKV/lib/node"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ----------------------------------------------------------------------------
// Spread
// ----------------------------------------------------------------------------

// Spread describes a series of samples
type Spread struct {
	StdDeviation float64
	Min          float64
	Max          float64
	Mean         float64
	MinMaxRatio  float64
}

// NewSpread computes the spread of values. No values give a zero Spread.
func NewSpread(values []float64) Spread {
	if len(values) == 0 {
		return Spread{}
	}

	lo, hi := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	mean := sum / float64(len(values))

	// population standard deviation
	var squared float64
	for _, v := range values {
		squared += (v - mean) * (v - mean)
	}

	ratio := 1.0
	if hi > 0 {
		ratio = lo / hi
	}

	return Spread{
		StdDeviation: math.Sqrt(squared / float64(len(values))),
		Min:          lo,
		Max:          hi,
		Mean:         mean,
		MinMaxRatio:  ratio,
	}
}

// ----------------------------------------------------------------------------
// Histogram
// ----------------------------------------------------------------------------

// defaultBoundaries are the upper bounds of the leaf size buckets in bytes
var defaultBoundaries = []int{8, 16, 32, 64, 128, 256, 1024, 4096, 16384, 65536}

// Histogram counts samples in exponentially growing buckets. The last bucket
// holds everything above the largest boundary.
type Histogram struct {
	boundaries []int
	buckets    []int64
	count      int64
	sum        int64
}

// NewHistogram creates a histogram with the default leaf size buckets
func NewHistogram() *Histogram {
	return &Histogram{
		boundaries: defaultBoundaries,
		buckets:    make([]int64, len(defaultBoundaries)+1),
	}
}

// Add records a sample
func (h *Histogram) Add(size int) {
	i := len(h.boundaries)
	for j, boundary := range h.boundaries {
		if size <= boundary {
			i = j
			break
		}
	}
	h.buckets[i]++
	h.count++
	h.sum += int64(size)
}

func (h *Histogram) Count() int64 {
	return h.count
}

// Average returns the exact mean of all samples
func (h *Histogram) Average() int {
	if h.count == 0 {
		return 0
	}
	return int(h.sum / h.count)
}

// Percentile estimates the given percentile (0-100) from the buckets
func (h *Histogram) Percentile(percentile int) int {
	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(percentile) / 100.0))
	var cumulative int64
	for i, count := range h.buckets {
		cumulative += count
		if cumulative >= target {
			return h.estimate(i)
		}
	}
	return h.Average()
}

// Buckets returns the upper bound and sample count of each bucket. The last
// bound is -1 for the open bucket.
func (h *Histogram) Buckets() ([]int, []int64) {
	bounds := append(append([]int{}, h.boundaries...), -1)
	counts := append([]int64{}, h.buckets...)
	return bounds, counts
}

// estimate returns the representative size of bucket i
func (h *Histogram) estimate(i int) int {
	switch {
	case i == 0:
		return h.boundaries[0] / 2
	case i < len(h.boundaries):
		return (h.boundaries[i-1] + h.boundaries[i]) / 2
	default:
		return h.boundaries[len(h.boundaries)-1] * 2
	}
}

// ----------------------------------------------------------------------------
// Document summary
// ----------------------------------------------------------------------------

// Summary describes the shape of a document tree
type Summary struct {
	Branches int       // mappings, lists included, the root excluded
	Lists    int       // branches keyed "0".."n-1"
	Leaves   int       // terminal values, null included
	Nulls    int       // null leaves
	MaxDepth int       // levels below the root, 0 for an empty document
	FanOut   Spread    // number of children per branch, the root included
	Sizes    Histogram // textual size of non-null leaves in bytes
}

// Describe walks root and summarizes it
func Describe(root *node.Node) Summary {
	s := Summary{Sizes: *NewHistogram()}
	if root == nil || !root.IsBranch() {
		return s
	}

	var fanOut []float64
	var walk func(n *node.Node, depth int)
	walk = func(n *node.Node, depth int) {
		fanOut = append(fanOut, float64(n.Len()))
		n.Each(func(_ string, child *node.Node) bool {
			s.MaxDepth = max(s.MaxDepth, depth)
			if child.IsBranch() {
				s.Branches++
				if child.IsList() {
					s.Lists++
				}
				walk(child, depth+1)
				return true
			}
			s.Leaves++
			if child.Value() == nil {
				s.Nulls++
			} else {
				s.Sizes.Add(leafSize(child.Value()))
			}
			return true
		})
	}
	walk(root, 1)

	s.FanOut = NewSpread(fanOut)
	return s
}

// Values returns the summary as ordered generic values, ready to be encoded
func (s Summary) Values() *orderedmap.OrderedMap[string, any] {
	fanOut := orderedmap.New[string, any]()
	fanOut.Set("min", s.FanOut.Min)
	fanOut.Set("max", s.FanOut.Max)
	fanOut.Set("mean", s.FanOut.Mean)
	fanOut.Set("std_deviation", s.FanOut.StdDeviation)

	sizes := orderedmap.New[string, any]()
	sizes.Set("count", s.Sizes.Count())
	sizes.Set("average", int64(s.Sizes.Average()))
	sizes.Set("median", int64(s.Sizes.Percentile(50)))
	sizes.Set("p90", int64(s.Sizes.Percentile(90)))

	out := orderedmap.New[string, any]()
	out.Set("branches", int64(s.Branches))
	out.Set("lists", int64(s.Lists))
	out.Set("leaves", int64(s.Leaves))
	out.Set("nulls", int64(s.Nulls))
	out.Set("max_depth", int64(s.MaxDepth))
	out.Set("fan_out", fanOut)
	out.Set("leaf_sizes", sizes)
	return out
}

func leafSize(value any) int {
	if s, ok := value.(string); ok {
		return len(s)
	}
	return len(fmt.Sprint(value))
}
