// Package format provides pretty-printing for Monkey code.
package format

// MaxLineWidth is the line length a one-line function literal must fit in.
const MaxLineWidth = 92

// Indentation is one tab per level, counted as four columns when measuring
// line length.
const (
	IndentString = "\t"
	IndentWidth  = 4
)

// TreeIndentString indents each level of a Tree dump.
const TreeIndentString = "  "
