package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/livingtwin/cascade/pkg/audio"
	"github.com/livingtwin/cascade/pkg/script"
)

// seqState is the sequencer's internal state machine position.
type seqState int

const (
	seqIdle seqState = iota
	seqPlaying
	seqAwaitingAdvance
	seqSegmentDone
	seqFinished
)

func (s seqState) String() string {
	return [...]string{"idle", "playing", "awaiting_advance", "segment_done", "finished"}[s]
}

// Callbacks notify the owner of sequencer transitions. All callbacks are
// invoked without internal locks held, so they may call back into the
// sequencer.
type Callbacks struct {
	OnSegmentStarted   func(index int, seg script.Segment)
	OnAwaitingAdvance  func(index int, seg script.Segment)
	OnSegmentCompleted func(index int, seg script.Segment)
	OnFinished         func()
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithSequencerLogger sets the logger.
func WithSequencerLogger(l Logger) SequencerOption {
	return func(s *Sequencer) { s.logger = l }
}

// WithAutoAdvance controls whether segments that do not require explicit
// confirmation advance on their own. Defaults to true.
func WithAutoAdvance(auto bool) SequencerOption {
	return func(s *Sequencer) { s.autoAdvance = auto }
}

// WithCallbacks sets the transition callbacks.
func WithCallbacks(cb Callbacks) SequencerOption {
	return func(s *Sequencer) { s.callbacks = cb }
}

// Sequencer walks one script's segments, pairing each with its audio and
// advancing on adapter completion, watchdog expiry, or user action.
//
// The watchdog and the adapter completion are a mutually cancelling pair:
// every playback start bumps a generation counter, and both triggers carry
// the generation they were armed with. A trigger whose generation is stale
// is ignored, so a segment completes exactly once.
type Sequencer struct {
	player      audio.Player
	logger      Logger
	autoAdvance bool
	callbacks   Callbacks

	mu       sync.Mutex
	script   script.Script
	index    int
	state    seqState
	gen      uint64
	mode     audio.Mode
	handle   *audio.Handle
	watchdog *time.Timer
}

// NewSequencer creates an idle sequencer playing through the given
// adapter.
func NewSequencer(player audio.Player, opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		player:      player,
		logger:      nopLogger{},
		autoAdvance: true,
		mode:        audio.ModePreRecorded,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start resets the sequencer to segment 0 of the given script and begins
// playback. Any in-flight playback is stopped first, so the sequencer
// never has two concurrent clips.
func (s *Sequencer) Start(sc script.Script) error {
	if sc.Len() == 0 {
		return fmt.Errorf("cannot start sequencer with empty script")
	}

	s.mu.Lock()
	s.stopPlaybackLocked()
	s.script = sc
	s.index = 0
	cbs := s.startSegmentLocked()
	s.mu.Unlock()

	runCallbacks(cbs)
	return nil
}

// Advance moves to the next segment. Valid while a segment is awaiting
// the user or completed; a call during playback is tolerated as a no-op
// so double-clicks never derail the demo.
func (s *Sequencer) Advance() error {
	s.mu.Lock()
	switch s.state {
	case seqPlaying:
		s.mu.Unlock()
		return nil
	case seqAwaitingAdvance, seqSegmentDone:
		cbs := s.advanceLocked()
		s.mu.Unlock()
		runCallbacks(cbs)
		return nil
	default:
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("advance while %s: %w", state, ErrInvalidTransition)
	}
}

// ReplaySegment re-plays the current segment without changing the index.
func (s *Sequencer) ReplaySegment() error {
	s.mu.Lock()
	if s.state == seqIdle || s.state == seqFinished {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("replay while %s: %w", state, ErrInvalidTransition)
	}
	s.stopPlaybackLocked()
	cbs := s.startSegmentLocked()
	s.mu.Unlock()

	runCallbacks(cbs)
	return nil
}

// SetMode changes how audio references are resolved, starting from the
// next segment played. An in-flight clip is never re-resolved.
func (s *Sequencer) SetMode(mode audio.Mode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// Stop tears the sequencer down: stops playback, cancels the watchdog and
// returns to Idle. No background work continues afterwards.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	s.stopPlaybackLocked()
	s.state = seqIdle
	s.mu.Unlock()
}

// Status maps the internal state to the externally visible status.
func (s *Sequencer) Status() PlaybackStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case seqPlaying:
		return StatusPlaying
	case seqAwaitingAdvance:
		return StatusAwaitingAdvance
	case seqSegmentDone, seqFinished:
		return StatusCompleted
	default:
		return StatusIdle
	}
}

// Index returns the active segment index. Equals the script length exactly
// when the script has finished.
func (s *Sequencer) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the active segment, or false once the script finished or
// before Start.
func (s *Sequencer) Current() (script.Segment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == seqIdle || s.index >= s.script.Len() {
		return script.Segment{}, false
	}
	return s.script.Segments[s.index], true
}

// Finished reports whether the whole script has played.
func (s *Sequencer) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == seqFinished
}

// startSegmentLocked begins playback of the current segment and arms the
// watchdog. The watchdog acts as a ceiling even when audio is healthy, so
// total demo length stays bounded.
func (s *Sequencer) startSegmentLocked() []func() {
	seg := s.script.Segments[s.index]
	s.gen++
	gen := s.gen
	s.state = seqPlaying

	handle := s.player.Play(context.Background(), seg, s.mode)
	s.handle = handle

	deadline := seg.EstimatedDuration()
	s.watchdog = time.AfterFunc(deadline, func() { s.onWatchdog(gen) })
	go s.watchHandle(gen, handle)

	s.logger.Debug("segment started",
		"segment", seg.ID,
		"speaker", seg.Speaker,
		"mode", s.mode,
		"watchdog_ms", deadline.Milliseconds())

	index := s.index
	if cb := s.callbacks.OnSegmentStarted; cb != nil {
		return []func(){func() { cb(index, seg) }}
	}
	return nil
}

// watchHandle waits for the adapter to report completion or error.
func (s *Sequencer) watchHandle(gen uint64, h *audio.Handle) {
	<-h.Done()
	s.onPlaybackDone(gen, h.Err())
}

// onPlaybackDone handles the adapter's terminal event. Errors are absorbed:
// the narration stays visible and the watchdog advances the demo on the
// estimated schedule.
func (s *Sequencer) onPlaybackDone(gen uint64, err error) {
	s.mu.Lock()
	if gen != s.gen || s.state != seqPlaying {
		s.mu.Unlock()
		return
	}
	if err != nil {
		seg := s.script.Segments[s.index]
		s.logger.Error("playback failed, continuing on estimated schedule",
			"segment", seg.ID, "error", err)
		s.mu.Unlock()
		return
	}
	cbs := s.completeSegmentLocked()
	s.mu.Unlock()

	runCallbacks(cbs)
}

// onWatchdog handles watchdog expiry for the given generation.
func (s *Sequencer) onWatchdog(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != seqPlaying {
		s.mu.Unlock()
		return
	}
	seg := s.script.Segments[s.index]
	s.logger.Debug("watchdog ceiling reached", "segment", seg.ID)
	cbs := s.completeSegmentLocked()
	s.mu.Unlock()

	runCallbacks(cbs)
}

// completeSegmentLocked records one segment completion and decides the next
// transition: wait for the user at decision points, pause when auto-advance
// is off, otherwise move straight on.
func (s *Sequencer) completeSegmentLocked() []func() {
	seg := s.script.Segments[s.index]
	index := s.index
	s.stopPlaybackLocked()

	switch {
	case seg.RequiresAdvance:
		s.state = seqAwaitingAdvance
		if cb := s.callbacks.OnAwaitingAdvance; cb != nil {
			return []func(){func() { cb(index, seg) }}
		}
		return nil
	case !s.autoAdvance:
		s.state = seqSegmentDone
		if cb := s.callbacks.OnSegmentCompleted; cb != nil {
			return []func(){func() { cb(index, seg) }}
		}
		return nil
	default:
		return s.advanceLocked()
	}
}

// advanceLocked moves to the next segment, or finishes the script when the
// index reaches the script length.
func (s *Sequencer) advanceLocked() []func() {
	s.index++
	if s.index >= s.script.Len() {
		s.index = s.script.Len()
		s.state = seqFinished
		s.stopPlaybackLocked()
		s.logger.Info("script finished", "segments", s.script.Len())
		if cb := s.callbacks.OnFinished; cb != nil {
			return []func(){cb}
		}
		return nil
	}
	return s.startSegmentLocked()
}

// stopPlaybackLocked invalidates the watchdog/adapter trigger pair and
// terminates any in-flight clip.
func (s *Sequencer) stopPlaybackLocked() {
	s.gen++
	if s.watchdog != nil {
		s.watchdog.Stop()
		s.watchdog = nil
	}
	if s.handle != nil {
		s.player.Stop(s.handle)
		s.handle = nil
	}
}

func runCallbacks(cbs []func()) {
	for _, cb := range cbs {
		cb()
	}
}
