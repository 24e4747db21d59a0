package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Progress drives the progress display of a multi-file run. Its methods
// are safe for concurrent use by analysis workers. A nil *Progress is
// valid and ignores every call.
type Progress struct {
	program *tea.Program
	stopped chan struct{}
	once    sync.Once
}

// StartProgress starts the progress display on the error writer, or
// returns nil when the error writer is not a terminal
func (ui *UI) StartProgress() *Progress {
	if !ui.progress {
		return nil
	}

	p := &Progress{
		program: tea.NewProgram(NewModel(), tea.WithOutput(ui.ErrWriter), tea.WithInput(nil)),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(p.stopped)
		_, _ = p.program.Run()
	}()
	return p
}

func (p *Progress) send(msg tea.Msg) {
	if p != nil {
		p.program.Send(msg)
	}
}

// SetStage switches to stage
func (p *Progress) SetStage(stage Stage) {
	p.send(StageMsg(stage))
}

// SetFileCount sets the number of files the run will analyze
func (p *Progress) SetFileCount(n int) {
	p.send(FileCountMsg(n))
}

// FileStart marks path as being analyzed
func (p *Progress) FileStart(path string) {
	p.send(FileStartMsg(path))
}

// FileDone marks path as analyzed with the given number of smells
func (p *Progress) FileDone(path string, smells int) {
	p.send(FileDoneMsg{Path: path, Smells: smells})
}

// Done stops the display and waits for it to clear. Later calls are
// no-ops.
func (p *Progress) Done(err error) {
	if p == nil {
		return
	}
	p.once.Do(func() {
		p.program.Send(DoneMsg{Err: err})
		<-p.stopped
	})
}

// Spinner shows a message next to a spinner while a short operation runs
type Spinner struct {
	program *tea.Program
	stopped chan struct{}
	once    sync.Once
}

type spinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case DoneMsg:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.message)
}

// StartSpinner shows message on w. Without progress display the message
// is printed once and nil is returned.
func (ui *UI) StartSpinner(w io.Writer, message string) *Spinner {
	if !ui.progress {
		if !ui.IsDocument() {
			fmt.Fprintln(w, message)
		}
		return nil
	}

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	sp := &Spinner{
		program: tea.NewProgram(spinnerModel{spinner: s, message: message}, tea.WithOutput(w), tea.WithInput(nil)),
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(sp.stopped)
		_, _ = sp.program.Run()
	}()
	return sp
}

// Stop clears the spinner
func (sp *Spinner) Stop() {
	if sp == nil {
		return
	}
	sp.once.Do(func() {
		sp.program.Send(DoneMsg{})
		<-sp.stopped
	})
}
