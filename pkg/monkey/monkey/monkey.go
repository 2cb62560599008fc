// Package monkey provides a public API for embedding the Monkey front end.
//
// It wraps the lexer and parser behind a few calls that take source text
// and return tokens, a syntax tree, or diagnostics:
//
//	program, errs := monkey.Parse("let x = 5;")
//	if len(errs) > 0 {
//		for _, e := range errs {
//			fmt.Println(e.PrettyString())
//		}
//	}
package monkey

import (
	"github.com/sambeau/monkey/pkg/monkey/ast"
	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// Option configures a Parse call.
type Option func(*options)

type options struct {
	filename string
	tracer   Logger
}

// WithFilename sets the file name reported in diagnostics.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// WithLogger traces the parser's progress to logger.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.tracer = logger
	}
}

// Tokenize returns every token in src, ending with the EOF token.
func Tokenize(src string) []lexer.Token {
	return lexer.Tokenize(src)
}

// Parse parses src into a program. The program is always returned; the
// diagnostics, when there are any, say which statements were dropped.
func Parse(src string, opts ...Option) (*ast.Program, []*merrors.MonkeyError) {
	o := options{filename: "<input>"}
	for _, opt := range opts {
		opt(&o)
	}

	p := parser.New(lexer.NewWithFilename(src, o.filename))
	if o.tracer != nil {
		p.SetTracer(o.tracer)
	}

	program := p.ParseProgram()
	return program, p.StructuredErrors()
}

// Check parses src and returns only its diagnostics.
func Check(filename, src string) []*merrors.MonkeyError {
	_, errs := Parse(src, WithFilename(filename))
	return errs
}
