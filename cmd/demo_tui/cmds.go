package demo_tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/livingtwin/cascade/pkg/orchestration"
)

// Message types
type EventMsg orchestration.Event
type EventsClosedMsg struct{}
type RefreshTickMsg time.Time

// waitForEvent blocks on the controller's event stream and forwards the
// next event into the bubbletea loop.
func waitForEvent(events <-chan orchestration.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return EventsClosedMsg{}
		}
		return EventMsg(ev)
	}
}

// refreshTick re-renders periodically so playback progress moves even
// between events.
func refreshTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return RefreshTickMsg(t)
	})
}
