package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"flow/internal/driver"
)

// file statuses shown in the batch list
const (
	statusQueued = "queued"
	statusOK     = "ok"
	statusCached = "cached"
	statusDiag   = "diagnostics"
	statusFault  = "fault"
	statusError  = "error"
)

type progressModel struct {
	title   string
	events  <-chan driver.FileEvent
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	total   int
	done    int
	width   int
	closed  bool
}

type fileItem struct {
	path   string
	status string
	detail string
}

type fileEventMsg driver.FileEvent
type batchDoneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders a batch run.
// files pre-populates the list; files not listed are appended as their events arrive.
// The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.FileEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int, len(files)),
		total:   len(files),
		width:   80,
	}
	for _, f := range files {
		m.add(f)
	}
	return m
}

func (m *progressModel) add(path string) int {
	if idx, ok := m.index[path]; ok {
		return idx
	}
	m.items = append(m.items, fileItem{path: path, status: statusQueued})
	m.index[path] = len(m.items) - 1
	return len(m.items) - 1
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileEventMsg:
		cmd := m.apply(driver.FileEvent(msg))
		return m, tea.Batch(cmd, m.listen())
	case batchDoneMsg:
		m.closed = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = max(msg.Width-4, 10)
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return batchDoneMsg{}
		}
		return fileEventMsg(ev)
	}
}

func (m *progressModel) apply(ev driver.FileEvent) tea.Cmd {
	idx := m.add(ev.Path)
	m.items[idx].status, m.items[idx].detail = statusOf(ev.Result)
	m.total = max(m.total, ev.Total, len(m.items))
	m.done = max(m.done, ev.Done)
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// statusOf classifies a finished file; detail is the value or the first problem.
func statusOf(r *driver.Result) (status, detail string) {
	switch {
	case r == nil:
		return statusQueued, ""
	case r.Err != nil:
		return statusError, r.Err.Error()
	case r.Bag != nil && r.Bag.HasErrors():
		items := r.Bag.Items()
		return statusDiag, fmt.Sprintf("%d: %s", len(items), items[0].Text())
	case r.Fault != nil:
		return statusFault, r.Fault.Error()
	case r.Cached:
		return statusCached, fmt.Sprintf("= %d", r.Value)
	case r.Evaluated:
		return statusOK, fmt.Sprintf("= %d", r.Value)
	default:
		return statusOK, ""
	}
}

func (m *progressModel) View() string {
	if len(m.items) == 0 && m.total == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.done, m.total)
	if m.closed {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		line := item.path
		if item.detail != "" {
			line += "  " + item.detail
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", status, truncate(filepath.ToSlash(line), nameWidth)))
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case statusOK, statusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case statusError, statusDiag, statusFault:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
