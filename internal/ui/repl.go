package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReplOptions configures the interactive REPL.
type ReplOptions struct {
	Prompt  string
	History int
	Eval    Evaluator
	// NoBanner пропускает приветствие (тесты, --quiet)
	NoBanner bool
}

var promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)

type replModel struct {
	session  *Session
	input    textinput.Model
	prompt   string
	banner   bool
	browse   int // индекс в истории при листании стрелками
	draft    string
	quitting bool
}

// NewReplModel returns the Bubble Tea REPL model. Each submitted line is
// echoed with its output above the prompt through tea.Println.
func NewReplModel(opts ReplOptions) tea.Model {
	prompt := opts.Prompt
	if prompt == "" {
		prompt = ">>> "
	}
	in := textinput.New()
	in.Prompt = promptStyle.Render(strings.TrimRight(prompt, " ")) + " "
	in.Placeholder = "2 + 3 * 4"
	in.Focus()

	return &replModel{
		session: NewSession(opts.Eval, opts.History),
		input:   in,
		prompt:  prompt,
		banner:  !opts.NoBanner,
	}
}

// RunREPL runs the interactive REPL until the user quits.
func RunREPL(opts ReplOptions, progOpts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewReplModel(opts), progOpts...).Run()
	return err
}

func (m *replModel) Init() tea.Cmd {
	if !m.banner {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, tea.Println(strings.TrimRight(Banner(), "\n")))
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
	case tea.KeyEnter:
		return m, m.submit()
	case tea.KeyUp:
		m.browseHistory(-1)
		return m, nil
	case tea.KeyDown:
		m.browseHistory(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) submit() tea.Cmd {
	line := m.input.Value()
	m.input.Reset()
	m.draft = ""

	out, quit := m.session.Handle(line)
	m.browse = len(m.session.history)
	echo := m.prompt + line
	if quit {
		m.quitting = true
		return tea.Sequence(tea.Println(echo), tea.Quit)
	}
	if out == ClearScreen {
		return tea.ClearScreen
	}
	text := strings.TrimRight(out, "\n")
	if text == "" {
		return tea.Println(echo)
	}
	return tea.Println(echo + "\n" + text)
}

// browseHistory moves through the session history; past the newest entry
// the line typed before browsing comes back.
func (m *replModel) browseHistory(delta int) {
	hist := m.session.history
	if len(hist) == 0 {
		return
	}
	if m.browse >= len(hist) && delta < 0 {
		m.draft = m.input.Value()
	}
	m.browse = min(max(m.browse+delta, 0), len(hist))
	if m.browse == len(hist) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(hist[m.browse])
	}
	m.input.CursorEnd()
}

func (m *replModel) View() string {
	if m.quitting {
		return ""
	}
	return m.input.View() + "\n"
}
