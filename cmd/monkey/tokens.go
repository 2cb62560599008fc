package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
)

func newTokensCmd(a *app) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "tokens [-e code | file]",
		Short: "Print the tokens of a program",
		Long: `Print the tokens of a program, one per line.

With --format json or yaml the full token list is written, including the
final EOF token.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, src, err := readSource(expr, args)
			if err != nil {
				return err
			}

			tokens := monkey.Tokenize(src)
			if a.cfg.Output.Format != "text" {
				return writeStructured(a.stdout, a.cfg.Output.Format, tokens)
			}

			for _, tok := range tokens {
				if tok.Type == lexer.EOF {
					break
				}
				fmt.Fprintln(a.stdout, tok.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&expr, "eval", "e", "", "tokenize code given on the command line")
	return cmd
}
