package monkey

import (
	"fmt"
	"io"
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// Logger receives the parser's trace, one line per BEGIN or END event.
type Logger = parser.Logger

type writerLogger struct {
	w io.Writer
}

func (l writerLogger) LogLine(values ...any) {
	fmt.Fprintln(l.w, values...)
}

// WriterLogger streams trace lines to w as the parser produces them.
func WriterLogger(w io.Writer) Logger {
	return writerLogger{w: w}
}

// TraceBuffer keeps a parse trace in memory so it can be written out once
// parsing is over or embedded in a structured dump.
type TraceBuffer struct {
	lines []string
}

// LogLine records one trace line.
func (b *TraceBuffer) LogLine(values ...any) {
	b.lines = append(b.lines, strings.TrimSuffix(fmt.Sprintln(values...), "\n"))
}

// Lines returns the recorded lines in order.
func (b *TraceBuffer) Lines() []string {
	return b.lines
}

// WriteTo writes each recorded line to w followed by a newline.
func (b *TraceBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range b.lines {
		n, err := io.WriteString(w, line+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
