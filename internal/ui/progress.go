// Package ui renders batch generation progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"nuir/internal/buildpipeline"
)

// stageInfo gives each stage its working label and how far along a file in
// that stage counts.
var stageInfo = map[buildpipeline.Stage]struct {
	label  string
	weight float64
}{
	buildpipeline.StageLoad:     {"loading", 0.1},
	buildpipeline.StageParse:    {"parsing", 0.3},
	buildpipeline.StageGenerate: {"generating", 0.6},
	buildpipeline.StageValidate: {"validating", 0.9},
	buildpipeline.StageRun:      {"running", 0.95},
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

const statusColumn = 12

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	byPath  map[string]int
	phase   string // label of the last pipeline-wide event
	width   int
	done    bool
}

type fileItem struct {
	path     string
	status   string
	stage    buildpipeline.Stage
	finished bool
	failed   bool
	cached   bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model for generating files. The model
// quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file, status: string(buildpipeline.StatusQueued)}
		m.byPath[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	fmt.Fprintf(&b, "  %d/%d\n\n", m.finished(), len(m.items))

	nameWidth := max(m.width-statusColumn-4, 20)
	for _, item := range m.items {
		name := item.path
		if item.cached {
			name += " (cached)"
		}
		status := fmt.Sprintf("%*s", statusColumn, item.status)
		fmt.Fprintf(&b, "  %s %s\n", item.style().Render(status), truncate(name, nameWidth))
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if info, ok := stageInfo[ev.Stage]; ok {
			m.phase = info.label
		}
		return nil
	}
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	item.cached = item.cached || ev.Cached
	// ошибка фиксируется: события поздних стадий её не сбрасывают
	if item.failed && ev.Status != buildpipeline.StatusQueued {
		return m.bar.SetPercent(m.Percent())
	}
	switch ev.Status {
	case buildpipeline.StatusQueued:
		*item = fileItem{path: item.path, status: string(ev.Status), cached: item.cached}
	case buildpipeline.StatusWorking:
		if info, ok := stageInfo[ev.Stage]; ok {
			item.status = info.label
			item.stage = ev.Stage
		}
	case buildpipeline.StatusDone, buildpipeline.StatusError:
		item.status = string(ev.Status)
		item.finished = true
		item.failed = ev.Status == buildpipeline.StatusError
		if ev.Stage != "" {
			item.stage = ev.Stage
		}
	}
	return m.bar.SetPercent(m.Percent())
}

// Percent is the overall completion in [0, 1].
func (m *progressModel) Percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, item := range m.items {
		if item.finished {
			sum++
			continue
		}
		sum += stageInfo[item.stage].weight
	}
	return sum / float64(len(m.items))
}

func (m *progressModel) finished() int {
	n := 0
	for _, item := range m.items {
		if item.finished {
			n++
		}
	}
	return n
}

func (item fileItem) style() lipgloss.Style {
	switch {
	case item.failed:
		return errorStyle
	case item.finished:
		return doneStyle
	case item.stage != "":
		return workingStyle
	}
	return idleStyle
}

// truncate cuts value to width display cells, with "..." when there is room.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(value, width, tail)
}
