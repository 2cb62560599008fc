package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	merrors "github.com/sambeau/monkey/pkg/monkey/errors"
	"github.com/sambeau/monkey/pkg/monkey/format"
	"github.com/sambeau/monkey/pkg/monkey/lexer"
	"github.com/sambeau/monkey/pkg/monkey/monkey"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const MONKEY_LOGO = `
█▀▄▀█ █▀█ █▄░█ █▄▀ █▀▀ █▄█
█░▀░█ █▄█ █░▀█ █░█ ██▄ ░█░ `

// Session modes
const (
	ModeTokens = "tokens"
	ModeParse  = "parse"
)

// replCommands are the meta-commands offered for completion and suggestions
var replCommands = []string{":help", ":tokens", ":parse", ":tree", ":trace"}

// Options configures Start
type Options struct {
	Version     string
	Prompt      string
	Mode        string
	HistoryFile string
	Trace       bool
}

// Session holds the state that meta-commands change between inputs.
type Session struct {
	Mode  string
	Tree  bool
	Trace bool
}

// NewSession returns a session in mode, defaulting to tokens mode.
func NewSession(mode string) *Session {
	if mode != ModeParse {
		mode = ModeTokens
	}
	return &Session{Mode: mode}
}

// Start starts the REPL with line editing, history, and tab completion.
// Input always comes from the terminal through liner; only the output
// stream is configurable.
func Start(out io.Writer, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".monkey_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	session := NewSession(opts.Mode)
	session.Trace = opts.Trace

	basePrompt := opts.Prompt
	if basePrompt == "" {
		basePrompt = PROMPT
	}

	fmt.Fprintf(out, "%s", MONKEY_LOGO)
	fmt.Fprintln(out, "v", opts.Version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder

	for {
		currentPrompt := basePrompt
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			session.Command(trimmed, out)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		line.AppendHistory(fullInput)
		session.Eval(fullInput, out)
		inputBuffer.Reset()
	}
}

// Eval lexes or parses one complete input, depending on the session mode,
// and writes the result to out.
func (s *Session) Eval(input string, out io.Writer) {
	if s.Mode == ModeTokens {
		l := lexer.New(input)
		for tok := l.NextToken(); tok.Type != lexer.EOF; tok = l.NextToken() {
			io.WriteString(out, tok.String())
			io.WriteString(out, "\n")
		}
		return
	}

	p := parser.New(lexer.New(input))
	if s.Trace {
		p.SetTracer(monkey.WriterLogger(out))
	}
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) != 0 {
		printStructuredErrors(out, input, errs)
		return
	}

	printProgram(out, program, s.Tree)
}

// Command handles a REPL meta-command that starts with ':'.
func (s *Session) Command(cmd string, out io.Writer) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(out, "  :tokens         Print the tokens of each input")
		fmt.Fprintln(out, "  :parse          Parse each input and print the program")
		fmt.Fprintln(out, "  :tree           Toggle the syntax tree view (parse mode)")
		fmt.Fprintln(out, "  :trace          Toggle parser tracing (parse mode)")
		fmt.Fprintln(out, "  exit, quit      Exit the REPL")
		fmt.Fprintln(out, "")
		fmt.Fprintf(out, "Current mode: %s\n", s.Mode)

	case ":tokens":
		s.Mode = ModeTokens
		fmt.Fprintln(out, "Tokens mode")

	case ":parse":
		s.Mode = ModeParse
		fmt.Fprintln(out, "Parse mode")

	case ":tree":
		s.Tree = !s.Tree
		s.Mode = ModeParse
		fmt.Fprintf(out, "Tree view %s (parse mode)\n", onOff(s.Tree))

	case ":trace":
		s.Trace = !s.Trace
		s.Mode = ModeParse
		fmt.Fprintf(out, "Parser tracing %s (parse mode)\n", onOff(s.Trace))

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
		if match := merrors.FindClosestMatch(cmd, replCommands); match != "" {
			fmt.Fprintf(out, "Did you mean %s?\n", match)
		}
	}
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

func printProgram(out io.Writer, program *ast.Program, tree bool) {
	if tree {
		io.WriteString(out, format.Tree(program))
		return
	}
	if s := program.String(); s != "" {
		io.WriteString(out, s)
		io.WriteString(out, "\n")
	}
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	lastWord := words[len(words)-1]
	prefix := line[:len(line)-len(lastWord)]

	candidates := lexer.Keywords()
	if strings.HasPrefix(trimmed, ":") {
		candidates = replCommands
	}

	var matches []string
	for _, word := range candidates {
		if strings.HasPrefix(word, lastWord) && word != lastWord {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has unclosed braces or parentheses
func needsMoreInput(input string) bool {
	braceCount := 0
	parenCount := 0

	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	return braceCount > 0 || parenCount > 0
}

// printStructuredErrors prints parser errors with the offending source line
func printStructuredErrors(out io.Writer, source string, errs []*merrors.MonkeyError) {
	for _, err := range errs {
		io.WriteString(out, err.PrettyString())
		io.WriteString(out, "\n")
		if err.Line > 0 {
			io.WriteString(out, merrors.SourceContext(source, err.Line, err.Column))
		}
	}
}
