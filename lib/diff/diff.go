package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/hKV/lib/codec"
	"github.com/ValentinKolb/hKV/lib/node"
	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line
type Op int8

const (
	OpEqual  Op = iota // 0: line present on both sides
	OpDelete           // 1: line only present in the first document
	OpInsert           // 2: line only present in the second document
)

func (o Op) prefix() string {
	switch o {
	case OpDelete:
		return "- "
	case OpInsert:
		return "+ "
	default:
		return "  "
	}
}

// Line is a single line of a diff
type Line struct {
	Op   Op
	Text string
}

// Flatten renders a tree as one "path = value" line per leaf in insertion
// order. Values are json encoded, empty branches are written as {} or [].
func Flatten(root *node.Node, separator string) []string {
	var lines []string
	var walk func(n *node.Node, prefix string)
	walk = func(n *node.Node, prefix string) {
		n.Each(func(key string, child *node.Node) bool {
			path := prefix + key
			switch {
			case child.IsLeaf():
				lines = append(lines, path+" = "+scalar(child))
			case child.IsList() && child.Len() == 0:
				lines = append(lines, path+" = []")
			case child.Len() == 0:
				lines = append(lines, path+" = {}")
			default:
				walk(child, path+separator)
			}
			return true
		})
	}
	if root != nil {
		walk(root, "")
	}
	return lines
}

// Documents diffs the flattened forms of two trees
func Documents(from, to *node.Node, separator string) []Line {
	return Lines(Flatten(from, separator), Flatten(to, separator))
}

// Lines computes a line diff of two texts given as lines
func Lines(from, to []string) []Line {
	dmp := diffpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(join(from), join(to))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var lines []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffpatch.DiffDelete:
			op = OpDelete
		case diffpatch.DiffInsert:
			op = OpInsert
		}
		for _, text := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			lines = append(lines, Line{Op: op, Text: text})
		}
	}
	return lines
}

// Changed reports whether lines contain any insertion or deletion
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != OpEqual {
			return true
		}
	}
	return false
}

// Write prints the changed lines prefixed with "- " and "+ ". With context
// set equal lines are printed too. Colored output marks deletions red and
// insertions green.
func Write(w io.Writer, lines []Line, context, colored bool) error {
	deleted := color.New(color.FgRed)
	inserted := color.New(color.FgGreen)
	if colored {
		deleted.EnableColor()
		inserted.EnableColor()
	} else {
		deleted.DisableColor()
		inserted.DisableColor()
	}

	for _, l := range lines {
		text := l.Op.prefix() + l.Text
		var err error
		switch l.Op {
		case OpDelete:
			_, err = deleted.Fprintln(w, text)
		case OpInsert:
			_, err = inserted.Fprintln(w, text)
		default:
			if context {
				_, err = fmt.Fprintln(w, text)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// scalar json encodes a leaf value
func scalar(leaf *node.Node) string {
	b, err := codec.NewJSONCodec().Encode(leaf)
	if err != nil {
		return fmt.Sprint(leaf.Value())
	}
	return string(b)
}
