package audio

import (
	"context"
	"sync"

	"github.com/livingtwin/cascade/pkg/script"
)

// PlaybackRequest records one Play call on the MockPlayer.
type PlaybackRequest struct {
	Segment script.Segment
	Mode    Mode
}

// MockPlayer is a Player for tests. It records every playback request and
// lets the test decide when and how each clip finishes.
type MockPlayer struct {
	mu      sync.Mutex
	plays   []PlaybackRequest
	handles []*Handle

	// AutoComplete finishes every clip immediately with AutoErr.
	AutoComplete bool
	AutoErr      error
}

// Play implements Player. The returned handle stays open until the test
// calls CompleteCurrent, unless AutoComplete is set.
func (m *MockPlayer) Play(_ context.Context, seg script.Segment, mode Mode) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := newHandle(seg.Ref(), nil)
	m.plays = append(m.plays, PlaybackRequest{Segment: seg, Mode: mode})
	m.handles = append(m.handles, h)

	if m.AutoComplete {
		h.finish(m.AutoErr)
	}
	return h
}

// Stop implements Player.
func (m *MockPlayer) Stop(h *Handle) {
	if h != nil {
		h.stop()
	}
}

// CompleteCurrent finishes the most recently started clip, reporting err
// as the playback outcome.
func (m *MockPlayer) CompleteCurrent(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.handles) == 0 {
		return
	}
	m.handles[len(m.handles)-1].finish(err)
}

// Plays returns a copy of all recorded playback requests.
func (m *MockPlayer) Plays() []PlaybackRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PlaybackRequest, len(m.plays))
	copy(out, m.plays)
	return out
}

// PlayCount returns how many clips were started.
func (m *MockPlayer) PlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plays)
}
