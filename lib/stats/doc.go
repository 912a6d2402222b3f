// Package stats summarizes the shape of a document tree: how many branches,
// lists and leaves it holds, how deep it nests, how wide its mappings are and
// how large its values are.
//
// Leaf sizes are tracked by a Histogram with exponential buckets, so
// percentiles are estimates while the average is exact.
package stats
