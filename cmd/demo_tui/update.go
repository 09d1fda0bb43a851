package demo_tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/livingtwin/cascade/pkg/audio"
	"github.com/livingtwin/cascade/pkg/orchestration"
)

// Update handles messages. User keys request transitions through the
// controller; invalid transitions are tolerated silently so stray keys
// never disturb the demo.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = contentWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.snap = m.controller.Snapshot()
		if msg.Type == orchestration.EventDemoComplete {
			m.complete = true
		}
		return m, waitForEvent(m.controller.Events())

	case EventsClosedMsg:
		return m, nil

	case RefreshTickMsg:
		m.snap = m.controller.Snapshot()
		return m, refreshTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.controller.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Advance):
		// No-op while playing, by contract; double-clicks are fine.
		_ = m.controller.Advance()

	case key.Matches(msg, m.keys.Replay):
		_ = m.controller.ReplaySegment()

	case key.Matches(msg, m.keys.ToggleMode):
		next := audio.ModeLiveVoice
		if m.snap.Mode == audio.ModeLiveVoice {
			next = audio.ModePreRecorded
		}
		_ = m.controller.SetMode(next)

	case key.Matches(msg, m.keys.Restart):
		m.complete = false
		_ = m.controller.Begin()

	case key.Matches(msg, m.keys.JumpStage):
		stage := int(msg.Runes[0]-'0') - 1
		if m.controller.JumpTo(stage) == nil {
			m.complete = false
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	m.snap = m.controller.Snapshot()
	return m, nil
}
