package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sambeau/monkey/pkg/monkey/monkey"
	"github.com/sambeau/monkey/pkg/monkey/report"
	"github.com/sambeau/monkey/watch"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		watchFlag  bool
		reportFlag string
	)

	cmd := &cobra.Command{
		Use:   "check [--watch] [--report md|html] <file|dir>...",
		Short: "Report syntax errors in Monkey source files",
		Long: `Report syntax errors in Monkey source files.

Directories are searched for files with the configured source extensions.
The command exits with status 1 when any file has errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reportFlag != "" && reportFlag != "md" && reportFlag != "html" {
				return fmt.Errorf("invalid --report %q (must be md or html)", reportFlag)
			}

			files, err := a.expandPaths(args)
			if err != nil {
				return err
			}

			results := make([]report.FileResult, 0, len(files))
			for _, file := range files {
				result, err := checkFile(file)
				if err != nil {
					return err
				}
				results = append(results, result)
			}

			if err := a.writeResults(results, reportFlag); err != nil {
				return err
			}

			if watchFlag {
				return a.watchAndCheck(cmd, args)
			}

			for _, r := range results {
				if len(r.Errors) > 0 {
					return errDiagnostics
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "check again whenever a file changes")
	cmd.Flags().StringVar(&reportFlag, "report", "", "write a report instead of diagnostics: md or html")
	return cmd
}

// checkFile parses one file and collects its diagnostics.
func checkFile(filename string) (report.FileResult, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return report.FileResult{}, fmt.Errorf("reading %s: %w", filename, err)
	}

	program, errs := monkey.Parse(string(content), monkey.WithFilename(filename))
	return report.FileResult{
		File:       filename,
		Statements: len(program.Statements),
		Errors:     errs,
	}, nil
}

// expandPaths replaces each directory in paths with the source files
// beneath it.
func (a *app) expandPaths(paths []string) ([]string, error) {
	var files []string

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != p {
					return filepath.SkipDir
				}
				return nil
			}
			if a.isSource(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}

	return files, nil
}

func (a *app) isSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range a.cfg.Watch.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// writeResults prints the results as a report, a structured document or
// diagnostics followed by a summary line.
func (a *app) writeResults(results []report.FileResult, reportFormat string) error {
	switch reportFormat {
	case "md":
		fmt.Fprint(a.stdout, report.Markdown(results))
		return nil
	case "html":
		html, err := report.HTML(results)
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, html)
		return nil
	}

	if a.cfg.Output.Format != "text" {
		return writeStructured(a.stdout, a.cfg.Output.Format, results)
	}

	total := 0
	for _, r := range results {
		if len(r.Errors) == 0 {
			continue
		}
		source, err := os.ReadFile(r.File)
		if err != nil {
			return fmt.Errorf("reading %s: %w", r.File, err)
		}
		for _, e := range r.Errors {
			fmt.Fprint(a.stderr, a.errStyles.diagnostic(e, string(source)))
			total++
		}
	}

	summary := fmt.Sprintf("Checked %d %s, found %d %s.",
		len(results), plural(len(results), "file", "files"),
		total, plural(total, "error", "errors"))
	fmt.Fprintln(a.stdout, a.outStyles.render(a.outStyles.dim, summary))
	return nil
}

// watchAndCheck re-checks each changed file until the command's context
// is cancelled.
func (a *app) watchAndCheck(cmd *cobra.Command, paths []string) error {
	debounce, err := a.cfg.Watch.DebounceDuration()
	if err != nil {
		return err
	}

	w, err := watch.New(paths, a.cfg.Watch.Extensions, debounce, func(path string) {
		result, err := checkFile(path)
		if err != nil {
			fmt.Fprintf(a.stderr, "[WATCH ERROR] %v\n", err)
			return
		}
		if err := a.writeResults([]report.FileResult{result}, ""); err != nil {
			fmt.Fprintf(a.stderr, "[WATCH ERROR] %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	w.SetOutput(a.stdout, a.stderr)

	return w.Run(cmd.Context())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
