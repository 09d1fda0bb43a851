package orchestration

import "github.com/livingtwin/cascade/pkg/script"

// EventType identifies an orchestration event.
type EventType string

const (
	// EventSegmentStarted fires when a segment's playback begins.
	EventSegmentStarted EventType = "segment_started"

	// EventAwaitingAdvance fires when a decision-point segment finished
	// and the demo waits for the user.
	EventAwaitingAdvance EventType = "awaiting_advance"

	// EventSegmentCompleted fires when a segment finished and the
	// sequencer is not auto-advancing.
	EventSegmentCompleted EventType = "segment_completed"

	// EventStageChanged fires when the cascade hands off to the next
	// persona stage.
	EventStageChanged EventType = "stage_changed"

	// EventDemoComplete fires exactly once, when the last stage's script
	// finishes.
	EventDemoComplete EventType = "demo_complete"
)

// Event describes one orchestration state change, consumed by the view
// shells.
type Event struct {
	Type         EventType
	StageIndex   int
	SegmentIndex int
	Speaker      script.Speaker
	Text         string
}
