// Package audio plays one narration clip at a time, resolving each
// segment's audio reference according to the active playback mode.
package audio

import (
	"context"
	"sync"

	"github.com/livingtwin/cascade/pkg/script"
)

// Mode selects how a segment's audio reference is resolved.
type Mode string

const (
	// ModePreRecorded resolves references to pre-baked clips under the
	// voice-asset directory.
	ModePreRecorded Mode = "prerecorded"

	// ModeLiveVoice synthesizes the segment text through the speech
	// service.
	ModeLiveVoice Mode = "livevoice"
)

// Valid reports whether the mode is one of the supported playback modes.
func (m Mode) Valid() bool {
	return m == ModePreRecorded || m == ModeLiveVoice
}

// Player begins and terminates clip playback. Play never fails
// synchronously for media reasons: resolution and playback errors are
// delivered through the returned handle so the caller has a single
// completion path.
type Player interface {
	Play(ctx context.Context, seg script.Segment, mode Mode) *Handle
	Stop(h *Handle)
}

// Handle tracks one in-flight clip. It reaches its terminal state exactly
// once, either by natural completion, an error, or a stop.
type Handle struct {
	ref    string
	cancel context.CancelFunc

	once sync.Once
	done chan struct{}
	err  error
}

func newHandle(ref string, cancel context.CancelFunc) *Handle {
	return &Handle{
		ref:    ref,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Ref returns the audio reference this handle is playing.
func (h *Handle) Ref() string { return h.ref }

// Done is closed when playback finishes, fails, or is stopped.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err returns the playback error, if any. Only meaningful after Done is
// closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// finish moves the handle to its terminal state. Later calls are no-ops.
func (h *Handle) finish(err error) {
	h.once.Do(func() {
		h.err = err
		close(h.done)
	})
}

// stop cancels any in-flight playback. Safe to call on a finished handle.
func (h *Handle) stop() {
	if h.cancel != nil {
		h.cancel()
	}
	h.finish(nil)
}
