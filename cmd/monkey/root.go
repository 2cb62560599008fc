package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/monkey/config"
	"github.com/sambeau/monkey/pkg/monkey/repl"
)

// app carries the streams, environment and loaded settings shared by
// every command.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	configPath string
	color      string
	format     string

	cfg       *config.Config
	outStyles *styles
	errStyles *styles
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "monkey",
		Short: "Lexer, parser and tooling for the Monkey language",
		Long: `monkey reads Monkey source and reports what it finds.

Without a subcommand it starts the interactive REPL, which prints the
tokens of each line you type (use :parse to see the parsed program).`,
		Version:           Version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runREPL,
	}
	root.SetVersionTemplate("monkey version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: monkey.yaml or monkey.toml)")
	flags.StringVar(&a.color, "color", "", "colorize output: auto, always or never")
	flags.StringVar(&a.format, "format", "", "output format: text, json or yaml")

	root.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newCheckCmd(a),
		newFmtCmd(a),
		&cobra.Command{
			Use:   "repl",
			Short: "Start the interactive REPL",
			Args:  cobra.NoArgs,
			RunE:  a.runREPL,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(a.stdout, "monkey version %s\n", Version)
				fmt.Fprintf(a.stdout, "  Commit:     %s\n", Commit)
				fmt.Fprintf(a.stdout, "  Go Version: %s\n", runtime.Version())
				fmt.Fprintf(a.stdout, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
			},
		},
	)

	return root
}

// setup loads the configuration, applies flag overrides and validates the
// result.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath, a.getenv)
	if err != nil {
		return err
	}

	if a.color != "" {
		cfg.Output.Color = a.color
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.outStyles = newStyles(cfg.Output.Color, a.stdout, a.getenv)
	a.errStyles = newStyles(cfg.Output.Color, a.stderr, a.getenv)
	return nil
}

func (a *app) runREPL(cmd *cobra.Command, args []string) error {
	repl.Start(a.stdout, repl.Options{
		Version:     Version,
		Prompt:      a.cfg.REPL.Prompt,
		Mode:        a.cfg.REPL.Mode,
		HistoryFile: a.cfg.REPL.History,
		Trace:       a.cfg.Parser.Trace,
	})
	return nil
}

// readSource returns the name and text of the program given either inline
// with -e or as a single file argument.
func readSource(expr string, args []string) (string, string, error) {
	switch {
	case expr != "" && len(args) > 0:
		return "", "", fmt.Errorf("use either -e or a file, not both")
	case expr != "":
		return "<eval>", expr, nil
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading file: %w", err)
		}
		return args[0], string(content), nil
	default:
		return "", "", fmt.Errorf("provide code with -e or a single file")
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
