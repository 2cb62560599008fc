// Package report renders the diagnostics of a check run as a Markdown
// document, optionally converted to HTML.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
)

// FileResult is the outcome of checking one source file.
type FileResult struct {
	File       string                 `json:"file" yaml:"file"`
	Statements int                    `json:"statements" yaml:"statements"`
	Errors     []*merrors.MonkeyError `json:"errors" yaml:"errors"`
}

// Markdown returns a report with a summary table followed by one section per
// file listing its diagnostics.
func Markdown(results []FileResult) string {
	var sb strings.Builder

	total := 0
	for _, r := range results {
		total += len(r.Errors)
	}

	sb.WriteString("# Monkey check report\n\n")
	sb.WriteString(fmt.Sprintf("Checked %d %s, found %d %s.\n\n",
		len(results), plural(len(results), "file", "files"),
		total, plural(total, "error", "errors")))

	if len(results) == 0 {
		return sb.String()
	}

	sb.WriteString("| File | Statements | Errors |\n")
	sb.WriteString("| --- | ---: | ---: |\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("| %s | %d | %d |\n", escape(r.File), r.Statements, len(r.Errors)))
	}

	for _, r := range results {
		sb.WriteString("\n## ")
		sb.WriteString(escape(r.File))
		sb.WriteString("\n\n")

		if len(r.Errors) == 0 {
			sb.WriteString("No problems found.\n")
			continue
		}

		for _, e := range r.Errors {
			sb.WriteString("- ")
			if e.Line > 0 {
				sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
			}
			if e.Code != "" {
				sb.WriteString("`" + e.Code + "` ")
			}
			sb.WriteString(escape(e.Message))
			sb.WriteString("\n")
			for _, hint := range e.Hints {
				sb.WriteString("  - ")
				sb.WriteString(escape(hint))
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

// HTML renders the Markdown report to an HTML fragment.
func HTML(results []FileResult) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(results)), &buf); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// markdownEscaper backslash-escapes the punctuation that would otherwise be
// read as Markdown or table syntax.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
