package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/livingtwin/cascade/pkg/audio/tts"
	cmdexec "github.com/livingtwin/cascade/pkg/exec"
	"github.com/livingtwin/cascade/pkg/script"
)

// Playback error taxonomy. Both are recoverable: the sequencer falls back
// to the segment's estimated duration and the demo keeps its schedule.
var (
	// ErrResolution is returned when a segment's audio source cannot be
	// resolved (missing asset, failed synthesis).
	ErrResolution = errors.New("audio resolution failed")

	// ErrPlayback is returned when a resolved source fails to play.
	ErrPlayback = errors.New("audio playback failed")
)

// playerCommand describes one known clip-player binary and how to invoke it.
type playerCommand struct {
	name string
	args func(path string) []string
}

// Candidates in preference order. ffplay is the most portable, afplay
// covers macOS without extra installs.
var playerCommands = []playerCommand{
	{name: "ffplay", args: func(p string) []string { return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", p} }},
	{name: "afplay", args: func(p string) []string { return []string{p} }},
	{name: "mpg123", args: func(p string) []string { return []string{"-q", p} }},
}

// ClipPlayer plays pre-recorded clips from the voice-asset directory and
// synthesized clips from the speech service, shelling out to whichever
// clip-player binary is installed.
type ClipPlayer struct {
	executor cmdexec.CommandExecutor
	voiceDir string
	synth    tts.Service
	voices   map[script.Speaker]string

	discover sync.Once
	player   *playerCommand
}

// ClipPlayerOption configures a ClipPlayer.
type ClipPlayerOption func(*ClipPlayer)

// WithExecutor overrides the command executor, for tests.
func WithExecutor(e cmdexec.CommandExecutor) ClipPlayerOption {
	return func(p *ClipPlayer) { p.executor = e }
}

// WithSynthesizer sets the speech service used in live-voice mode.
func WithSynthesizer(s tts.Service) ClipPlayerOption {
	return func(p *ClipPlayer) { p.synth = s }
}

// WithVoices maps speakers to provider voice ids for live-voice mode.
func WithVoices(voices map[script.Speaker]string) ClipPlayerOption {
	return func(p *ClipPlayer) { p.voices = voices }
}

// NewClipPlayer creates a player resolving pre-recorded clips under
// voiceDir.
func NewClipPlayer(voiceDir string, opts ...ClipPlayerOption) *ClipPlayer {
	p := &ClipPlayer{
		executor: &cmdexec.RealCommandExecutor{},
		voiceDir: voiceDir,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play starts playback for the segment and returns immediately. The
// returned handle reports completion or failure.
func (p *ClipPlayer) Play(ctx context.Context, seg script.Segment, mode Mode) *Handle {
	playCtx, cancel := context.WithCancel(ctx)
	h := newHandle(seg.Ref(), cancel)

	go func() {
		path, cleanup, err := p.resolve(playCtx, seg, mode)
		if err != nil {
			h.finish(err)
			return
		}
		if cleanup != nil {
			defer cleanup()
		}
		h.finish(p.playFile(playCtx, path))
	}()

	return h
}

// Stop terminates playback immediately. Idempotent, and a no-op on a
// handle that already finished.
func (p *ClipPlayer) Stop(h *Handle) {
	if h != nil {
		h.stop()
	}
}

// resolve turns a segment into a playable file path. The cleanup func, when
// non-nil, removes synthesized temp files.
func (p *ClipPlayer) resolve(ctx context.Context, seg script.Segment, mode Mode) (string, func(), error) {
	switch mode {
	case ModeLiveVoice:
		return p.synthesize(ctx, seg)
	default:
		path := filepath.Join(p.voiceDir, seg.Ref()+".mp3")
		if _, err := os.Stat(path); err != nil {
			return "", nil, fmt.Errorf("clip %s: %v: %w", seg.Ref(), err, ErrResolution)
		}
		return path, nil, nil
	}
}

// synthesize streams live-voice audio for the segment text into a temp
// file so the clip-player binaries can play it.
func (p *ClipPlayer) synthesize(ctx context.Context, seg script.Segment) (string, func(), error) {
	if p.synth == nil {
		return "", nil, fmt.Errorf("no speech service configured: %w", ErrResolution)
	}

	stream, err := p.synth.Synthesize(ctx, seg.Text, tts.SynthesisConfig{Voice: p.voices[seg.Speaker]})
	if err != nil {
		return "", nil, fmt.Errorf("synthesize %s: %v: %w", seg.Ref(), err, ErrResolution)
	}
	defer stream.Close()

	tmp, err := os.CreateTemp("", "cascade-voice-*.mp3")
	if err != nil {
		return "", nil, fmt.Errorf("synthesize %s: %v: %w", seg.Ref(), err, ErrResolution)
	}
	if _, err := io.Copy(tmp, stream); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("synthesize %s: %v: %w", seg.Ref(), err, ErrResolution)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("synthesize %s: %v: %w", seg.Ref(), err, ErrResolution)
	}

	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}

// playFile blocks until the clip-player binary exits or ctx is cancelled.
func (p *ClipPlayer) playFile(ctx context.Context, path string) error {
	cmd := p.findPlayer()
	if cmd == nil {
		return fmt.Errorf("no clip player binary found (tried ffplay, afplay, mpg123): %w", ErrPlayback)
	}
	if err := p.executor.ExecuteContext(ctx, cmd.name, cmd.args(path)...); err != nil {
		return fmt.Errorf("%s %s: %v: %w", cmd.name, filepath.Base(path), err, ErrPlayback)
	}
	return nil
}

func (p *ClipPlayer) findPlayer() *playerCommand {
	p.discover.Do(func() {
		for i := range playerCommands {
			if _, err := p.executor.LookPath(playerCommands[i].name); err == nil {
				p.player = &playerCommands[i]
				return
			}
		}
	})
	return p.player
}
