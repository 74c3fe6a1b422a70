package app

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/threadgrab/pkg/app/components"
	"github.com/kerbaras/threadgrab/pkg/services"
)

// progressMsg carries one event from the downloader
type progressMsg services.DownloadProgress

// batchDoneMsg is sent once the progress channel is closed
type batchDoneMsg struct{}

type model struct {
	updates <-chan services.DownloadProgress
	tracker *components.ProgressTracker
	done    bool
}

func newModel(updates <-chan services.DownloadProgress) model {
	return model{
		updates: updates,
		tracker: components.NewProgressTracker(80),
	}
}

func (m model) Init() tea.Cmd {
	return m.listenForProgress
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.tracker.SetWidth(msg.Width)
		return m, nil

	case progressMsg:
		m.tracker.Update(services.DownloadProgress(msg))
		return m, m.listenForProgress

	case batchDoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) View() string {
	return m.tracker.View() + "\n"
}

func (m model) listenForProgress() tea.Msg {
	ev, ok := <-m.updates
	if !ok {
		return batchDoneMsg{}
	}
	return progressMsg(ev)
}

// App renders a live view of a download batch
type App struct {
	program *tea.Program
}

// NewApp creates an App that follows updates until the channel is closed or
// ctx is cancelled. Keyboard input is not read.
func NewApp(ctx context.Context, updates <-chan services.DownloadProgress, out io.Writer) *App {
	p := tea.NewProgram(
		newModel(updates),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	return &App{program: p}
}

// Run blocks until the batch finishes
func (a *App) Run() error {
	_, err := a.program.Run()
	return err
}
