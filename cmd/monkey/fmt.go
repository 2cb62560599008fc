package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sambeau/monkey/pkg/monkey/format"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
)

func newFmtCmd(a *app) *cobra.Command {
	var (
		write bool
		list  bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [-w] [-l] <file>...",
		Short: "Format Monkey source files",
		Long: `Format Monkey source files.

Without flags the formatted source is printed to stdout. Files that do
not parse are reported and left untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, filename := range args {
				if err := a.formatFile(filename, write, list); err != nil {
					if err != errDiagnostics {
						fmt.Fprintf(a.stderr, "Error formatting %s: %v\n", filename, err)
					}
					failed = true
				}
			}
			if failed {
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")
	return cmd
}

func (a *app) formatFile(filename string, write, list bool) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	source := string(content)

	program, errs := monkey.Parse(source, monkey.WithFilename(filename))
	if len(errs) != 0 {
		for _, e := range errs {
			fmt.Fprint(a.stderr, a.errStyles.diagnostic(e, source))
		}
		return errDiagnostics
	}

	formatted := format.FormatProgram(program)

	// Ensure file ends with newline
	if formatted != "" && !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}

	changed := formatted != source

	if list {
		if changed {
			fmt.Fprintln(a.stdout, filename)
		}
		return nil
	}

	if write {
		if changed {
			if err := os.WriteFile(filename, []byte(formatted), 0644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
		}
		return nil
	}

	fmt.Fprint(a.stdout, formatted)
	return nil
}
