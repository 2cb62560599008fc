package format

import (
	"testing"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors for input %q: %v", input, p.Errors())
	}
	return program
}

// helper to parse and format code
func parseAndFormat(t *testing.T, input string) string {
	t.Helper()
	return FormatProgram(parseProgram(t, input))
}

func TestFormatStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let x = 5", "let x = 5;\n"},
		{"let   x=5;return x", "let x = 5;\nreturn x;\n"},
		{"foo", "foo;\n"},
		{"true; false", "true;\nfalse;\n"},
		{"-15", "-15;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseAndFormat(t, tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFormatParentheses(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(a + b) * c", "(a + b) * c;\n"},
		{"a + (b * c)", "a + b * c;\n"},
		{"(a + b) + c", "a + b + c;\n"},
		{"a + (b + c)", "a + (b + c);\n"},
		{"a - (b - c)", "a - (b - c);\n"},
		{"-(a + b)", "-(a + b);\n"},
		{"!(-a)", "!-a;\n"},
		{"(-a) * b", "-a * b;\n"},
		{"(5 > 4) == (3 < 4)", "5 > 4 == 3 < 4;\n"},
		{"a == (b == c)", "a == (b == c);\n"},
		{"(add)(1, 2)", "add(1, 2);\n"},
		{"(-f)(x)", "(-f)(x);\n"},
		{"add(a, (b))", "add(a, b);\n"},
		{"((((x))))", "x;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseAndFormat(t, tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFormatBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "inline function",
			input:    "fn(x, y) { x + y; }",
			expected: "fn(x, y) { x + y };\n",
		},
		{
			name:     "empty function",
			input:    "fn() {}",
			expected: "fn() {};\n",
		},
		{
			name:     "multi statement function",
			input:    "let f = fn(x) { let y = x; y }",
			expected: "let f = fn(x) {\n\tlet y = x;\n\ty;\n};\n",
		},
		{
			name:     "if else",
			input:    "if (x) { a } else { b }",
			expected: "if (x) {\n\ta;\n} else {\n\tb;\n};\n",
		},
		{
			name:     "nested blocks",
			input:    "fn(a) { if (a) { return 1; } 2 }",
			expected: "fn(a) {\n\tif (a) {\n\t\treturn 1;\n\t};\n\t2;\n};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseAndFormat(t, tt.input)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"let add = fn(a, b) { return a + b; }; add(1, 2 * 3)",
		"let max = fn(a, b) { if (a > b) { a } else { b } }",
		"!(true == false) != (1 < 2)",
		"-(-a) - -b",
		"fn(x) { x }(5)",
		"a + add(b * c) + d / (e - f)",
		"let x = if (a) { 1 } else { 2 } * 3",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			original := parseProgram(t, input)
			first := FormatProgram(original)

			reparsed := parseProgram(t, first)
			if reparsed.String() != original.String() {
				t.Errorf("formatting changed the tree:\n  before %q\n  after  %q",
					original.String(), reparsed.String())
			}

			second := FormatProgram(reparsed)
			if first != second {
				t.Errorf("formatting is not stable:\nfirst:\n%s\nsecond:\n%s", first, second)
			}
		})
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := FormatProgram(&ast.Program{}); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := FormatProgram(nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := FormatNode(nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestFormatNodeExpression(t *testing.T) {
	program := parseProgram(t, "a * (b + c)")
	stmt := program.Statements[0].(*ast.ExpressionStatement)

	if got := FormatNode(stmt.Expression); got != "a * (b + c)" {
		t.Errorf("FormatNode() = %q", got)
	}
	if got := FormatNode(stmt); got != "a * (b + c);" {
		t.Errorf("FormatNode() = %q", got)
	}
}

func TestTree(t *testing.T) {
	program := parseProgram(t, "let x = -5 + y; add(1, true)")

	expected := `Program
  LetStatement x
    InfixExpression +
      PrefixExpression -
        IntegerLiteral 5
      Identifier y
  ExpressionStatement
    CallExpression 2 args
      Identifier add
      IntegerLiteral 1
      Boolean true
`

	if got := Tree(program); got != expected {
		t.Errorf("Tree() =\n%s\nwant\n%s", got, expected)
	}
}

func TestTreeBlocks(t *testing.T) {
	program := parseProgram(t, "if (a) { fn(x) { x } } else { return b; }")

	expected := `Program
  ExpressionStatement
    IfExpression (else)
      Identifier a
      BlockStatement
        ExpressionStatement
          FunctionLiteral (x)
            BlockStatement
              ExpressionStatement
                Identifier x
      BlockStatement
        ReturnStatement
          Identifier b
`

	if got := Tree(program); got != expected {
		t.Errorf("Tree() =\n%s\nwant\n%s", got, expected)
	}
}
