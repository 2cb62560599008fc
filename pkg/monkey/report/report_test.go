package report

import (
	"strings"
	"testing"

	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
)

func sampleResults() []FileResult {
	return []FileResult{
		{File: "good.mk", Statements: 3},
		{
			File:       "bad_one.mk",
			Statements: 1,
			Errors: []*merrors.MonkeyError{
				merrors.NewWithPosition("PARSE-0001", 1, 5, map[string]any{"Expected": "IDENT", "Got": "INT"}),
				merrors.NewWithPosition("PARSE-0004", 2, 3, map[string]any{"Char": "<"}),
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResults())

	expected := []string{
		"# Monkey check report\n",
		"Checked 2 files, found 2 errors.",
		"| File | Statements | Errors |",
		"| good.mk | 3 | 0 |",
		`| bad\_one.mk | 1 | 2 |`,
		"## good.mk\n\nNo problems found.",
		"- line 1, column 5: `PARSE-0001` expected next token to be IDENT, got INT instead",
		`- line 2, column 3: ` + "`PARSE-0004`" + ` illegal character '\<'`,
		"  - identifiers may only contain the ASCII letters a-z and A-Z",
	}

	for _, want := range expected {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q\n%s", want, md)
		}
	}
}

func TestMarkdownEmpty(t *testing.T) {
	md := Markdown(nil)

	if !strings.Contains(md, "Checked 0 files, found 0 errors.") {
		t.Errorf("unexpected summary:\n%s", md)
	}
	if strings.Contains(md, "| File |") {
		t.Errorf("empty report should have no table:\n%s", md)
	}
}

func TestMarkdownSingular(t *testing.T) {
	md := Markdown([]FileResult{{
		File:   "x.mk",
		Errors: []*merrors.MonkeyError{merrors.NewSimple(merrors.ClassParse, "oops")},
	}})

	if !strings.Contains(md, "Checked 1 file, found 1 error.") {
		t.Errorf("unexpected summary:\n%s", md)
	}
	if !strings.Contains(md, "- oops\n") {
		t.Errorf("positionless error should be listed bare:\n%s", md)
	}
}

func TestHTML(t *testing.T) {
	html, err := HTML(sampleResults())
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}

	expected := []string{
		"<h1>Monkey check report</h1>",
		"<table>",
		"<th>File</th>",
		"<td>good.mk</td>",
		"<td>bad_one.mk</td>",
		"<code>PARSE-0001</code>",
		"illegal character '&lt;'",
	}

	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("HTML() missing %q\n%s", want, html)
		}
	}
}
