package demo_tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/livingtwin/cascade/pkg/orchestration"
)

// Model is the state of the demo TUI: a thin view shell over the
// controller. All orchestration state lives behind Snapshot; the model
// only holds presentation state.
type Model struct {
	controller *orchestration.Controller
	snap       orchestration.Snapshot

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	progress progress.Model

	width    int
	height   int
	complete bool
	quitting bool
}

// New creates the demo view over a controller that has not begun yet.
func New(controller *orchestration.Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		controller: controller,
		snap:       controller.Snapshot(),
		keys:       NewKeyMap(),
		help:       help.New(),
		spinner:    sp,
		progress:   progress.New(progress.WithDefaultGradient()),
	}
}

// Init starts the demo and subscribes to orchestration events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			// Begin is fatal only for authoring errors, which were
			// validated at load; media failures are absorbed inside
			// the orchestrator.
			if err := m.controller.Begin(); err != nil {
				return tea.Quit()
			}
			return nil
		},
		waitForEvent(m.controller.Events()),
		m.spinner.Tick,
		refreshTick(),
	)
}
