package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage is the phase of a multi-file run
type Stage int

const (
	StageDiscover Stage = iota
	StageAnalyze
	StageReport
)

func (s Stage) String() string {
	switch s {
	case StageDiscover:
		return "Discovering Go files"
	case StageAnalyze:
		return "Analyzing"
	case StageReport:
		return "Rendering report"
	default:
		return "Working"
	}
}

// Messages sent to the progress model
type (
	StageMsg     Stage
	FileCountMsg int
	FileStartMsg string
	FileDoneMsg  struct {
		Path   string
		Smells int
	}
	DoneMsg struct{ Err error }
)

// Model is the bubbletea model of the multi-file progress display
type Model struct {
	stage    Stage
	spinner  spinner.Model
	bar      progress.Model
	current  string
	total    int
	done     int
	smells   int
	quitting bool
	err      error

	smellStyle lipgloss.Style
}

// NewModel creates a new progress model
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		stage:      StageDiscover,
		spinner:    s,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		smellStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-24, 10), 60)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageMsg:
		m.stage = Stage(msg)
		m.current = ""

	case FileCountMsg:
		m.total = int(msg)

	case FileStartMsg:
		m.current = string(msg)

	case FileDoneMsg:
		m.done++
		m.smells += msg.Smells
		if m.current == msg.Path {
			m.current = ""
		}

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	if m.stage == StageAnalyze && m.total > 0 {
		sb.WriteString(m.bar.ViewAs(float64(m.done) / float64(m.total)))
		fmt.Fprintf(&sb, " %d/%d", m.done, m.total)
		if m.smells > 0 {
			sb.WriteString(m.smellStyle.Render(fmt.Sprintf("  %d smells", m.smells)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(m.stage.String())
	if m.current != "" {
		sb.WriteString(" ")
		sb.WriteString(m.current)
	}
	sb.WriteString("...")
	return sb.String()
}
