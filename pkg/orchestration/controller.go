package orchestration

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/livingtwin/cascade/pkg/audio"
	"github.com/livingtwin/cascade/pkg/script"
)

// eventBufferSize bounds the event channel. A demo emits a handful of
// events per segment, so this never fills in practice; if a consumer
// stalls, events are dropped rather than blocking orchestration.
const eventBufferSize = 32

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the logger.
func WithLogger(l Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithTranscript appends one line per spoken segment to w, leaving a
// reviewable record of the demo run.
func WithTranscript(w io.Writer) ControllerOption {
	return func(c *Controller) { c.transcript = w }
}

// WithInitialMode sets the starting playback mode. Defaults to
// pre-recorded.
func WithInitialMode(mode audio.Mode) ControllerOption {
	return func(c *Controller) { c.mode = mode }
}

// WithManualAdvance disables auto-advance: every segment waits for the
// user, not only decision points.
func WithManualAdvance() ControllerOption {
	return func(c *Controller) { c.autoAdvance = false }
}

// Controller moves the session from one persona stage to the next. It is
// the single owner of all mutable orchestration state; view shells observe
// snapshots and events, and request transitions through its API.
type Controller struct {
	demo        *script.Demo
	seq         *Sequencer
	logger      Logger
	transcript  io.Writer
	mode        audio.Mode
	autoAdvance bool

	mu              sync.Mutex
	sessionID       string
	stageIndex      int
	done            bool
	emittedComplete bool
	closed          bool
	events          chan Event
}

// NewController creates a session over the authored demo. The demo is
// validated once here; stages are immutable afterwards.
func NewController(demo *script.Demo, player audio.Player, opts ...ControllerOption) (*Controller, error) {
	if err := demo.Validate(); err != nil {
		return nil, fmt.Errorf("invalid demo: %w", err)
	}

	c := &Controller{
		demo:        demo,
		logger:      nopLogger{},
		mode:        audio.ModePreRecorded,
		autoAdvance: true,
		sessionID:   newSessionID(),
		events:      make(chan Event, eventBufferSize),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.seq = NewSequencer(player,
		WithSequencerLogger(c.logger),
		WithAutoAdvance(c.autoAdvance),
		WithCallbacks(Callbacks{
			OnSegmentStarted:   c.onSegmentStarted,
			OnAwaitingAdvance:  c.onAwaitingAdvance,
			OnSegmentCompleted: c.onSegmentCompleted,
			OnFinished:         c.onStageFinished,
		}))
	c.seq.SetMode(c.mode)

	return c, nil
}

// Begin starts (or restarts) the demo at the first persona stage.
func (c *Controller) Begin() error {
	stage, err := c.demo.StageAt(0)
	if err != nil {
		return fmt.Errorf("begin demo: %w", err)
	}

	c.mu.Lock()
	c.stageIndex = 0
	c.done = false
	c.emittedComplete = false
	c.mu.Unlock()

	c.logger.Info("demo session started",
		"session", c.sessionID,
		"demo", c.demo.Name,
		"stages", c.demo.NumStages(),
		"mode", c.mode)

	return c.startStage(0, stage)
}

// Advance requests the next segment. A no-op once the demo has completed.
func (c *Controller) Advance() error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done {
		return nil
	}
	return c.seq.Advance()
}

// ReplaySegment re-plays the current segment.
func (c *Controller) ReplaySegment() error {
	return c.seq.ReplaySegment()
}

// JumpTo restarts the demo at the given persona stage. The session is left
// unchanged when the index is out of bounds.
func (c *Controller) JumpTo(stageIndex int) error {
	if stageIndex < 0 || stageIndex >= c.demo.NumStages() {
		return fmt.Errorf("jump to stage %d of %d: %w", stageIndex, c.demo.NumStages(), ErrIndexOutOfRange)
	}
	stage, err := c.demo.StageAt(stageIndex)
	if err != nil {
		return fmt.Errorf("jump to stage %d: %w", stageIndex, err)
	}

	c.mu.Lock()
	c.stageIndex = stageIndex
	c.done = false
	c.mu.Unlock()

	c.logger.Info("jumped to stage", "session", c.sessionID, "stage", stageIndex, "speaker", stage.Speaker)
	return c.startStage(stageIndex, stage)
}

// SetMode switches between pre-recorded and live-voice playback, effective
// from the next segment played. Script content and order are untouched.
func (c *Controller) SetMode(mode audio.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("set mode %q: %w", mode, ErrInvalidMode)
	}

	c.mu.Lock()
	c.mode = mode
	c.mu.Unlock()
	c.seq.SetMode(mode)

	c.logger.Info("playback mode changed", "session", c.sessionID, "mode", mode)
	return nil
}

// Events returns the orchestration event stream for the view shells.
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	stageIndex := c.stageIndex
	done := c.done
	mode := c.mode
	c.mu.Unlock()

	snap := Snapshot{
		SessionID:  c.sessionID,
		DemoName:   c.demo.Name,
		StageIndex: stageIndex,
		NumStages:  c.demo.NumStages(),
		Mode:       mode,
		Done:       done,
		Status:     c.seq.Status(),
	}

	stage, err := c.demo.StageAt(stageIndex)
	if err != nil {
		return snap
	}
	snap.StageTitle = stage.Label()
	snap.Speaker = stage.Speaker
	snap.NumSegments = stage.Script.Len()
	snap.SegmentIndex = c.seq.Index()

	if cur, ok := c.seq.Current(); ok {
		snap.SegmentText = cur.Text
		snap.Speaker = cur.Speaker
	} else if n := stage.Script.Len(); n > 0 && snap.SegmentIndex >= n {
		// Stage (or demo) finished: keep the last line on screen.
		last := stage.Script.Segments[n-1]
		snap.SegmentText = last.Text
		snap.Speaker = last.Speaker
	}
	return snap
}

// Close tears the session down: stops playback, cancels timers, and closes
// the event stream. No background work continues afterwards.
func (c *Controller) Close() {
	c.seq.Stop()

	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
	c.mu.Unlock()

	c.logger.Info("demo session closed", "session", c.sessionID)
}

// startStage emits the stage hand-off and starts its script.
func (c *Controller) startStage(index int, stage script.Stage) error {
	c.emit(Event{Type: EventStageChanged, StageIndex: index, Speaker: stage.Speaker})
	if err := c.seq.Start(stage.Script); err != nil {
		return fmt.Errorf("start stage %d (%s): %w", index, stage.Speaker, err)
	}
	return nil
}

// onStageFinished advances the cascade, or completes the demo after the
// last stage. Stages always play in authored order unless JumpTo is used.
func (c *Controller) onStageFinished() {
	c.mu.Lock()
	next := c.stageIndex + 1
	if next >= c.demo.NumStages() {
		c.done = true
		emitComplete := !c.emittedComplete
		c.emittedComplete = true
		c.mu.Unlock()

		c.logger.Info("demo complete", "session", c.sessionID)
		if emitComplete {
			c.emit(Event{Type: EventDemoComplete, StageIndex: c.demo.NumStages() - 1})
		}
		return
	}
	c.stageIndex = next
	c.mu.Unlock()

	stage, err := c.demo.StageAt(next)
	if err != nil {
		// Unreachable: next is bounds-checked above.
		c.logger.Error("stage lookup failed", "stage", next, "error", err)
		return
	}
	c.logger.Info("cascading to next stage", "session", c.sessionID, "stage", next, "speaker", stage.Speaker)
	if err := c.startStage(next, stage); err != nil {
		c.logger.Error("failed to start stage", "stage", next, "error", err)
	}
}

func (c *Controller) onSegmentStarted(index int, seg script.Segment) {
	if c.transcript != nil {
		fmt.Fprintf(c.transcript, "[%s] %s: %s\n", time.Now().Format("15:04:05"), seg.Speaker.Label(), seg.Text)
	}
	c.mu.Lock()
	stageIndex := c.stageIndex
	c.mu.Unlock()
	c.emit(Event{Type: EventSegmentStarted, StageIndex: stageIndex, SegmentIndex: index, Speaker: seg.Speaker, Text: seg.Text})
}

func (c *Controller) onAwaitingAdvance(index int, seg script.Segment) {
	c.mu.Lock()
	stageIndex := c.stageIndex
	c.mu.Unlock()
	c.emit(Event{Type: EventAwaitingAdvance, StageIndex: stageIndex, SegmentIndex: index, Speaker: seg.Speaker, Text: seg.Text})
}

func (c *Controller) onSegmentCompleted(index int, seg script.Segment) {
	c.mu.Lock()
	stageIndex := c.stageIndex
	c.mu.Unlock()
	c.emit(Event{Type: EventSegmentCompleted, StageIndex: stageIndex, SegmentIndex: index, Speaker: seg.Speaker, Text: seg.Text})
}

// emit delivers an event without ever blocking orchestration.
func (c *Controller) emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- ev:
	default:
		c.logger.Debug("event dropped, consumer too slow", "type", ev.Type)
	}
}
