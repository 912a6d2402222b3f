// Package diff compares two documents line by line.
//
// Both trees are flattened into "path = value" lines, one per leaf, and
// diffed with the line mode of sergi/go-diff. Write prints the result with
// "- " and "+ " prefixes, optionally colored with fatih/color.
package diff
