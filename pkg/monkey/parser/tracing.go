package parser

import "strings"

// Logger receives parse trace output, one call per line.
type Logger interface {
	LogLine(values ...any)
}

const traceIdentPlaceholder string = "\t"

// SetTracer turns on BEGIN/END tracing of the parse functions, written to
// logger one line per event and indented by nesting depth. A nil logger
// turns tracing off.
func (p *Parser) SetTracer(logger Logger) {
	p.tracer = logger
	p.traceLevel = 0
}

func (p *Parser) identLevel() string {
	return strings.Repeat(traceIdentPlaceholder, p.traceLevel-1)
}

func (p *Parser) tracePrint(fs string) {
	p.tracer.LogLine(p.identLevel() + fs)
}

func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.traceLevel++
	p.tracePrint("BEGIN " + msg)
	return msg
}

func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracePrint("END " + msg)
	p.traceLevel--
}
