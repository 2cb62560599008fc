package main

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
)

// styles colours diagnostics written to one stream
type styles struct {
	enabled bool
	label   lipgloss.Style
	hint    lipgloss.Style
	caret   lipgloss.Style
	dim     lipgloss.Style
}

// newStyles resolves the color mode (auto, always, never) for w.
// In auto mode colour is used only on a terminal without NO_COLOR set.
func newStyles(mode string, w io.Writer, getenv func(string) string) *styles {
	enabled := false
	switch mode {
	case "always":
		enabled = true
	case "auto":
		enabled = getenv("NO_COLOR") == "" && isTerminal(w)
	}

	r := lipgloss.NewRenderer(w)
	if enabled {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &styles{
		enabled: enabled,
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		hint:    r.NewStyle().Foreground(lipgloss.Color("11")),
		caret:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		dim:     r.NewStyle().Faint(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *styles) render(st lipgloss.Style, text string) string {
	if !s.enabled || text == "" {
		return text
	}
	return st.Render(text)
}

// diagnostic renders err followed by the source line it points at.
func (s *styles) diagnostic(err *merrors.MonkeyError, source string) string {
	var sb strings.Builder

	for i, line := range strings.Split(err.PrettyString(), "\n") {
		switch {
		case i == 0:
			sb.WriteString(s.render(s.label, line))
		case strings.HasPrefix(line, "  Hint: "), strings.HasPrefix(line, "    or: "):
			sb.WriteString(s.render(s.hint, line))
		default:
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}

	if err.Line > 0 {
		context := merrors.SourceContext(source, err.Line, err.Column)
		lines := strings.SplitAfter(context, "\n")
		for _, line := range lines {
			if strings.HasSuffix(line, "^\n") {
				sb.WriteString(s.render(s.caret, strings.TrimSuffix(line, "\n")))
				sb.WriteString("\n")
				continue
			}
			sb.WriteString(line)
		}
	}

	return sb.String()
}
