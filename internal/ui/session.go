package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"flow/internal/driver"
)

// Evaluator turns one REPL line into the text printed under it.
type Evaluator func(line string, showTree bool) string

// DriverEvaluator evaluates lines with driver.Eval and renders them with RenderResult.
func DriverEvaluator(opts driver.Options, color bool) Evaluator {
	return func(line string, showTree bool) string {
		res := driver.Eval(line, opts)
		return RenderResult(res, RenderOpts{Color: color, ShowTree: showTree})
	}
}

const helpText = `commands:
  :tree   toggle the tree diagram before each value (also #showTree)
  :clear  clear the screen (also #clear)
  :help   show this help (also #help)
  :quit   leave the REPL (also #exit, exit, Ctrl+D)
`

// ClearScreen is the output of :clear; the terminal UI clears through Bubble Tea instead.
const ClearScreen = "\x1b[H\x1b[2J"

// Session holds REPL state shared by the Bubble Tea model and the plain line loop.
type Session struct {
	eval     Evaluator
	limit    int
	history  []string
	showTree bool
}

// NewSession creates a session keeping at most historyLimit lines (0 keeps none).
func NewSession(eval Evaluator, historyLimit int) *Session {
	return &Session{eval: eval, limit: max(historyLimit, 0)}
}

// Handle executes one line. quit is true when the line asks to leave.
func (s *Session) Handle(line string) (out string, quit bool) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return "", false
	case ":quit", ":q", "#exit", "exit", "quit":
		return "", true
	case ":help", "#help":
		return helpText, false
	case ":clear", "#clear":
		return ClearScreen, false
	case ":tree", "#showTree":
		s.showTree = !s.showTree
		if s.showTree {
			return "tree display on\n", false
		}
		return "tree display off\n", false
	}
	s.remember(line)
	if s.eval == nil {
		return "", false
	}
	return s.eval(line, s.showTree), false
}

func (s *Session) remember(line string) {
	if s.limit == 0 {
		return
	}
	if n := len(s.history); n > 0 && s.history[n-1] == line {
		return
	}
	s.history = append(s.history, line)
	if len(s.history) > s.limit {
		s.history = s.history[len(s.history)-s.limit:]
	}
}

// History returns a copy of the remembered lines, oldest first.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// ShowTree reports whether tree display is on.
func (s *Session) ShowTree() bool { return s.showTree }

// RunLines is the REPL for non-terminal input: it reads lines from in until EOF or :quit.
func RunLines(in io.Reader, out io.Writer, s *Session, prompt string, banner bool) error {
	if banner {
		if _, err := io.WriteString(out, Banner()+"\n"); err != nil {
			return err
		}
	}
	sc := bufio.NewScanner(in)
	for {
		if _, err := io.WriteString(out, prompt); err != nil {
			return err
		}
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return err
			}
			_, err := io.WriteString(out, "\n")
			return err
		}
		text, quit := s.Handle(sc.Text())
		if quit {
			return nil
		}
		if _, err := fmt.Fprint(out, text); err != nil {
			return err
		}
	}
}
