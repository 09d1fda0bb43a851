package orchestration

import (
	"github.com/google/uuid"

	"github.com/livingtwin/cascade/pkg/audio"
	"github.com/livingtwin/cascade/pkg/script"
)

// PlaybackStatus is the externally visible orchestration state.
type PlaybackStatus string

const (
	StatusIdle            PlaybackStatus = "idle"
	StatusPlaying         PlaybackStatus = "playing"
	StatusAwaitingAdvance PlaybackStatus = "awaiting_advance"
	StatusCompleted       PlaybackStatus = "completed"
	StatusError           PlaybackStatus = "error"
)

// Snapshot is a read-only view of the session for the surrounding
// presentation layer. All mutation goes through the Controller API.
type Snapshot struct {
	SessionID    string
	DemoName     string
	StageIndex   int
	NumStages    int
	StageTitle   string
	Speaker      script.Speaker
	SegmentIndex int
	NumSegments  int
	SegmentText  string
	Status       PlaybackStatus
	Mode         audio.Mode
	Done         bool
}

// newSessionID returns a short unique id for log correlation.
func newSessionID() string {
	return "ses-" + uuid.New().String()[:8]
}
