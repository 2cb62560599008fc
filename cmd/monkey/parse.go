package main

import (
	"fmt"

	"github.com/spf13/cobra"

	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/format"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
)

// parseResult is the structured form of a parse run
type parseResult struct {
	File       string                 `json:"file" yaml:"file"`
	Program    string                 `json:"program" yaml:"program"`
	Statements int                    `json:"statements" yaml:"statements"`
	Errors     []*merrors.MonkeyError `json:"errors" yaml:"errors"`
	Trace      []string               `json:"trace,omitempty" yaml:"trace,omitempty"`
}

func newParseCmd(a *app) *cobra.Command {
	var (
		expr  string
		tree  bool
		trace bool
	)

	cmd := &cobra.Command{
		Use:   "parse [-e code | file]",
		Short: "Parse a program and print it back fully parenthesized",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readSource(expr, args)
			if err != nil {
				return err
			}

			opts := []monkey.Option{monkey.WithFilename(name)}
			var traced *monkey.TraceBuffer
			if trace || a.cfg.Parser.Trace {
				traced = &monkey.TraceBuffer{}
				opts = append(opts, monkey.WithLogger(traced))
			}
			program, errs := monkey.Parse(src, opts...)

			if a.cfg.Output.Format != "text" {
				result := parseResult{
					File:       name,
					Program:    program.String(),
					Statements: len(program.Statements),
					Errors:     errs,
				}
				if traced != nil {
					result.Trace = traced.Lines()
				}
				if err := writeStructured(a.stdout, a.cfg.Output.Format, result); err != nil {
					return err
				}
				if len(errs) > 0 {
					return errDiagnostics
				}
				return nil
			}

			if traced != nil {
				if _, err := traced.WriteTo(a.stderr); err != nil {
					return err
				}
			}

			if len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprint(a.stderr, a.errStyles.diagnostic(e, src))
				}
				return errDiagnostics
			}

			if tree {
				fmt.Fprint(a.stdout, format.Tree(program))
				return nil
			}
			if s := program.String(); s != "" {
				fmt.Fprintln(a.stdout, s)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "eval", "e", "", "parse code given on the command line")
	cmd.Flags().BoolVar(&tree, "tree", false, "print the syntax tree instead of the program")
	cmd.Flags().BoolVar(&trace, "trace", false, "trace parser calls to stderr, or into the dump with --format json|yaml")
	return cmd
}
