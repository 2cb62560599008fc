package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate runs the test in an empty directory with an empty home so no
// config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func runMonkey(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := run(context.Background(), args, stdout, stderr, func(string) string { return "" })
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunVersion(t *testing.T) {
	isolate(t)

	stdout, _, err := runMonkey(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "monkey version dev") {
		t.Errorf("expected version output, got %q", stdout)
	}

	stdout, _, err = runMonkey(t, "--version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "monkey version dev\n" {
		t.Errorf("unexpected --version output %q", stdout)
	}
}

func TestRunHelp(t *testing.T) {
	isolate(t)

	stdout, _, err := runMonkey(t, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"tokens", "parse", "check", "fmt", "repl", "--config", "--color", "--format"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in help, got %q", want, stdout)
		}
	}
}

func TestTokensText(t *testing.T) {
	isolate(t)

	stdout, _, err := runMonkey(t, "tokens", "-e", "let x = 5;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "{Type: LET, Literal: let, Line: 1, Column: 1}\n" +
		"{Type: IDENT, Literal: x, Line: 1, Column: 5}\n" +
		"{Type: ASSIGN, Literal: =, Line: 1, Column: 7}\n" +
		"{Type: INT, Literal: 5, Line: 1, Column: 9}\n" +
		"{Type: SEMICOLON, Literal: ;, Line: 1, Column: 10}\n"
	if stdout != expected {
		t.Errorf("got:\n%s\nwant:\n%s", stdout, expected)
	}
}

func TestTokensFromFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "a.mk")
	writeSource(t, path, "x\n")

	stdout, _, err := runMonkey(t, "tokens", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "{Type: IDENT, Literal: x, Line: 1, Column: 1}\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestTokensJSON(t *testing.T) {
	isolate(t)

	stdout, _, err := runMonkey(t, "--format", "json", "tokens", "-e", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var tokens []map[string]any
	if err := json.Unmarshal([]byte(stdout), &tokens); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0]["type"] != "IDENT" || tokens[0]["literal"] != "x" {
		t.Errorf("unexpected first token %v", tokens[0])
	}
	if tokens[1]["type"] != "EOF" {
		t.Errorf("expected EOF last, got %v", tokens[1])
	}
}

func TestTokensYAML(t *testing.T) {
	isolate(t)

	stdout, _, err := runMonkey(t, "tokens", "--format", "yaml", "-e", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"- type: IDENT", "  literal: x", "- type: EOF"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestSourceArguments(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nothing", []string{"tokens"}, "provide code with -e"},
		{"both", []string{"parse", "-e", "x", "file.mk"}, "not both"},
		{"missing file", []string{"parse", "missing.mk"}, "reading file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runMonkey(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	isolate(t)

	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"parse", "-e", "-a * b"}, "((-a) * b)\n"},
		{[]string{"parse", "-e", "let x = 1 + 2 * 3"}, "let x = (1 + (2 * 3));\n"},
		{[]string{"parse", "--tree", "-e", "x"}, "Program\n  ExpressionStatement\n    Identifier x\n"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			stdout, _, err := runMonkey(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stdout != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stdout)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	isolate(t)

	stdout, stderr, err := runMonkey(t, "parse", "-e", "let 5;")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	if stdout != "" {
		t.Errorf("expected no program output, got %q", stdout)
	}

	expected := []string{
		"Parser error:\n  in: <eval>\n  at: line 1, column 5\n",
		"expected next token to be IDENT, got INT instead\n",
		"    let 5;\n        ^\n",
	}
	for _, want := range expected {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if strings.Contains(stderr, "\x1b[") {
		t.Errorf("expected no colour when not on a terminal: %q", stderr)
	}
}

func TestParseErrorsColor(t *testing.T) {
	isolate(t)

	_, stderr, err := runMonkey(t, "--color", "always", "parse", "-e", "let 5;")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	if !strings.Contains(stderr, "\x1b[") {
		t.Errorf("expected ANSI colour codes, got %q", stderr)
	}
	if !strings.Contains(stderr, "let 5;") {
		t.Errorf("expected source context, got %q", stderr)
	}
}

func TestParseJSON(t *testing.T) {
	isolate(t)

	stdout, _, err := runMonkey(t, "--format", "json", "parse", "-e", "let 5; x")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}

	var result struct {
		File       string `json:"file"`
		Program    string `json:"program"`
		Statements int    `json:"statements"`
		Errors     []struct {
			Code   string `json:"code"`
			Line   int    `json:"line"`
			Column int    `json:"column"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}

	if result.File != "<eval>" || result.Program != "x" || result.Statements != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != "PARSE-0001" || result.Errors[0].Column != 5 {
		t.Errorf("unexpected errors %+v", result.Errors)
	}
}

func TestParseTrace(t *testing.T) {
	isolate(t)

	stdout, stderr, err := runMonkey(t, "parse", "--trace", "-e", "5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "5\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !strings.HasPrefix(stderr, "BEGIN parseStatement\n") {
		t.Errorf("expected trace on stderr, got %q", stderr)
	}
}

func TestParseTraceBeforeDiagnostics(t *testing.T) {
	isolate(t)

	_, stderr, err := runMonkey(t, "parse", "--trace", "-e", "let 5;")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}

	trace := "BEGIN parseStatement\nEND parseStatement\n"
	if !strings.HasPrefix(stderr, trace) {
		t.Errorf("expected trace first, got %q", stderr)
	}
	if !strings.Contains(stderr[len(trace):], "expected next token to be IDENT") {
		t.Errorf("expected diagnostic after trace, got %q", stderr)
	}
}

func TestParseTraceJSON(t *testing.T) {
	isolate(t)

	stdout, stderr, err := runMonkey(t, "--format", "json", "parse", "--trace", "-e", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stderr != "" {
		t.Errorf("trace leaked to stderr: %q", stderr)
	}

	var result struct {
		Program string   `json:"program"`
		Trace   []string `json:"trace"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid json %q: %v", stdout, err)
	}
	if result.Program != "x" {
		t.Errorf("Program = %q", result.Program)
	}
	if len(result.Trace) == 0 || result.Trace[0] != "BEGIN parseStatement" ||
		result.Trace[len(result.Trace)-1] != "END parseStatement" {
		t.Errorf("unexpected trace %q", result.Trace)
	}
}

func TestCheck(t *testing.T) {
	dir := isolate(t)
	good := filepath.Join(dir, "good.mk")
	bad := filepath.Join(dir, "src", "bad.mk")
	if err := os.Mkdir(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeSource(t, good, "let x = 1;\n")
	writeSource(t, bad, "let x = 1;\nlet = 2;\n")
	writeSource(t, filepath.Join(dir, "notes.txt"), "let = ;")

	t.Run("clean file", func(t *testing.T) {
		stdout, stderr, err := runMonkey(t, "check", good)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "Checked 1 file, found 0 errors.\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
		if stderr != "" {
			t.Errorf("unexpected stderr %q", stderr)
		}
	})

	t.Run("directory", func(t *testing.T) {
		stdout, stderr, err := runMonkey(t, "check", dir)
		if !errors.Is(err, errDiagnostics) {
			t.Fatalf("expected errDiagnostics, got %v", err)
		}
		if stdout != "Checked 2 files, found 1 error.\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
		if !strings.Contains(stderr, "bad.mk") || !strings.Contains(stderr, "at: line 2, column 5") {
			t.Errorf("unexpected stderr %q", stderr)
		}
	})

	t.Run("markdown report", func(t *testing.T) {
		stdout, _, err := runMonkey(t, "check", "--report", "md", good, bad)
		if !errors.Is(err, errDiagnostics) {
			t.Fatalf("expected errDiagnostics, got %v", err)
		}
		if !strings.Contains(stdout, "# Monkey check report") || !strings.Contains(stdout, "`PARSE-0001`") {
			t.Errorf("unexpected report:\n%s", stdout)
		}
	})

	t.Run("html report", func(t *testing.T) {
		stdout, _, err := runMonkey(t, "check", "--report", "html", good)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "<table>") || !strings.Contains(stdout, "No problems found.") {
			t.Errorf("unexpected report:\n%s", stdout)
		}
	})

	t.Run("bad report format", func(t *testing.T) {
		_, _, err := runMonkey(t, "check", "--report", "pdf", good)
		if err == nil || !strings.Contains(err.Error(), "invalid --report") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		stdout, _, err := runMonkey(t, "--format", "yaml", "check", bad)
		if !errors.Is(err, errDiagnostics) {
			t.Fatalf("expected errDiagnostics, got %v", err)
		}
		for _, want := range []string{"statements: 1", "code: PARSE-0001", "line: 2"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output:\n%s", want, stdout)
			}
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runMonkey(t, "check", filepath.Join(dir, "missing.mk"))
		if err == nil || errors.Is(err, errDiagnostics) {
			t.Errorf("expected a read error, got %v", err)
		}
	})
}

func TestFmt(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "a.mk")
	messy := "let   add=fn(a,b){a+b};add(1,(2))"
	tidy := "let add = fn(a, b) { a + b };\nadd(1, 2);\n"

	writeSource(t, path, messy)

	stdout, _, err := runMonkey(t, "fmt", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != tidy {
		t.Errorf("expected %q, got %q", tidy, stdout)
	}

	stdout, _, err = runMonkey(t, "fmt", "-l", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != path+"\n" {
		t.Errorf("expected file to be listed, got %q", stdout)
	}

	if _, _, err := runMonkey(t, "fmt", "-w", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != tidy {
		t.Errorf("file not rewritten, got %q", content)
	}

	stdout, _, err = runMonkey(t, "fmt", "-l", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout != "" {
		t.Errorf("formatted file should not be listed, got %q", stdout)
	}
}

func TestFmtParseError(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.mk")
	writeSource(t, path, "let = 1;")

	_, stderr, err := runMonkey(t, "fmt", "-w", path)
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("expected errDiagnostics, got %v", err)
	}
	if !strings.Contains(stderr, "expected next token to be IDENT") {
		t.Errorf("unexpected stderr %q", stderr)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "let = 1;" {
		t.Errorf("file with errors should be left alone, got %q", content)
	}
}

func TestConfigFile(t *testing.T) {
	dir := isolate(t)
	writeSource(t, filepath.Join(dir, "monkey.yaml"), "output:\n  format: json\n")

	stdout, _, err := runMonkey(t, "tokens", "-e", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout, "[") {
		t.Errorf("expected json from config, got %q", stdout)
	}

	stdout, _, err = runMonkey(t, "--format", "text", "tokens", "-e", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout, "{Type: IDENT") {
		t.Errorf("flag should override config, got %q", stdout)
	}
}

func TestInvalidSettings(t *testing.T) {
	dir := isolate(t)

	_, _, err := runMonkey(t, "--format", "xml", "tokens", "-e", "x")
	if err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Errorf("unexpected error: %v", err)
	}

	_, _, err = runMonkey(t, "--config", filepath.Join(dir, "nope.toml"), "version")
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}
