// Package errors provides structured diagnostics for the Monkey front end.
//
// A MonkeyError carries a catalog code, a rendered message and the source
// position it refers to, so the same value can be printed for a terminal,
// serialized to JSON or YAML, or collected into a report.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/width"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassParse  ErrorClass = "parse"  // Parser/syntax errors
	ClassLex    ErrorClass = "lex"    // Characters the lexer could not classify
	ClassConfig ErrorClass = "config" // Configuration values
)

// MonkeyError represents a diagnostic produced while reading Monkey source.
type MonkeyError struct {
	Class   ErrorClass     `json:"class" yaml:"class"`                     // Error category
	Code    string         `json:"code" yaml:"code"`                       // Error code (e.g., "PARSE-0001")
	Message string         `json:"message" yaml:"message"`                 // Human-readable message
	Hints   []string       `json:"hints,omitempty" yaml:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line" yaml:"line"`                       // 1-based line (0 if unknown)
	Column  int            `json:"column" yaml:"column"`                   // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty" yaml:"file,omitempty"`   // File path (if known)
	Data    map[string]any `json:"data,omitempty" yaml:"data,omitempty"`   // Template variables
}

// Error implements the error interface.
func (e *MonkeyError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *MonkeyError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *MonkeyError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassParse, ClassLex:
		sb.WriteString("Parser error")
	case ClassConfig:
		sb.WriteString("Config error")
	default:
		sb.WriteString("Error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Hint: ")
		} else {
			sb.WriteString("  or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *MonkeyError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *MonkeyError) WithFile(file string) *MonkeyError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *MonkeyError) WithPosition(line, column int) *MonkeyError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsParseError returns true if this error came from lexing or parsing.
func (e *MonkeyError) IsParseError() bool {
	return e.Class == ClassParse || e.Class == ClassLex
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Parse errors (PARSE-0xxx)
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected next token to be {{.Expected}}, got {{.Got}} instead",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "no prefix parse function for {{.Token}} found",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "could not parse {{printf \"%q\" .Literal}} as integer",
		Hints:    []string{"integer literals must fit in a signed 64-bit value"},
	},
	"PARSE-0004": {
		Class:    ClassLex,
		Template: "illegal character '{{.Char}}'",
		Hints: []string{
			"identifiers may only contain the ASCII letters a-z and A-Z",
			"no prefix parse function for ILLEGAL found",
		},
	},

	// Configuration errors (CONFIG-0xxx)
	"CONFIG-0001": {
		Class:    ClassConfig,
		Template: "invalid value {{printf \"%q\" .Value}} for {{.Key}}",
		Hints:    []string{"expected one of: {{.Allowed}}"},
	},
}

// New creates a MonkeyError from a catalog code and template data.
func New(code string, data map[string]any) *MonkeyError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &MonkeyError{
			Class:   ClassParse,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &MonkeyError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a MonkeyError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *MonkeyError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// NewSimple creates an error without using the catalog.
func NewSimple(class ErrorClass, message string) *MonkeyError {
	return &MonkeyError{
		Class:   class,
		Message: message,
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// tabWidth is the tab stop used when lining up the caret.
const tabWidth = 8

// SourceContext returns the given 1-based line of source, trimmed of leading
// whitespace and indented by four spaces, followed by a caret under column.
// Columns count characters; the caret offset counts display cells, so tabs
// advance to the next tab stop and East Asian wide characters take two cells.
// An out of range line yields the empty string.
func SourceContext(source string, line, column int) string {
	lines := strings.Split(source, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}

	sourceLine := strings.TrimRight(lines[line-1], "\r")
	trimmed := strings.TrimLeft(sourceLine, " \t")
	indent := len(sourceLine) - len(trimmed)

	const margin = "    "
	var sb strings.Builder
	sb.WriteString(margin)
	sb.WriteString(trimmed)
	sb.WriteString("\n")

	if column > 0 {
		end := len(sourceLine)
		n := 0
		for i := range sourceLine {
			if n == column-1 {
				end = i
				break
			}
			n++
		}
		prefix := ""
		if end > indent {
			prefix = sourceLine[indent:end]
		}
		// Tab stops are measured on the printed line, margin included.
		sb.WriteString(strings.Repeat(" ", displayWidth(margin+prefix, 0)))
		sb.WriteString("^\n")
	}

	return sb.String()
}

// displayWidth returns the number of terminal cells s occupies when it
// starts at cell offset start.
func displayWidth(s string, start int) int {
	w := start
	for _, r := range s {
		switch {
		case r == '\t':
			w += tabWidth - w%tabWidth
		default:
			switch width.LookupRune(r).Kind() {
			case width.EastAsianWide, width.EastAsianFullwidth:
				w += 2
			default:
				w++
			}
		}
	}
	return w - start
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FindClosestMatch finds the closest match to input among candidates.
// Short inputs allow one edit, medium inputs two, longer inputs three; an
// exact match or anything further away yields the empty string.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}
