package orchestration

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livingtwin/cascade/pkg/audio"
	"github.com/livingtwin/cascade/pkg/script"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// longScript returns segments whose watchdog will not fire during a test.
func longScript(ids ...string) script.Script {
	segs := make([]script.Segment, len(ids))
	for i, id := range ids {
		segs[i] = script.Segment{ID: id, Speaker: script.SpeakerTwin, Text: "line " + id, EstimatedDurationMs: 60_000}
	}
	return script.Script{Segments: segs}
}

func TestSequencerCompletesAfterExactlyAllSegments(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	sc := longScript("twin_001", "twin_002", "twin_003")
	require.NoError(t, seq.Start(sc))

	for i := 0; i < sc.Len(); i++ {
		require.Eventually(t, func() bool { return player.PlayCount() == i+1 }, waitFor, tick,
			"segment %d should start", i)
		assert.Equal(t, i, seq.Index())
		player.CompleteCurrent(nil)
	}

	require.Eventually(t, seq.Finished, waitFor, tick)
	assert.Equal(t, sc.Len(), seq.Index(), "index equals script length exactly once, at completion")
	assert.Equal(t, sc.Len(), player.PlayCount(), "never more playbacks than segments")
}

func TestSequencerAdvanceWhilePlayingIsNoOp(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	require.NoError(t, seq.Start(longScript("twin_001", "twin_002")))
	require.Eventually(t, func() bool { return player.PlayCount() == 1 }, waitFor, tick)

	// Double-click tolerance: ignored, not an error.
	require.NoError(t, seq.Advance())
	require.NoError(t, seq.Advance())

	assert.Equal(t, 0, seq.Index())
	assert.Equal(t, StatusPlaying, seq.Status())
	assert.Equal(t, 1, player.PlayCount())
}

func TestSequencerAdvanceWhileIdleIsInvalid(t *testing.T) {
	seq := NewSequencer(&audio.MockPlayer{})
	assert.ErrorIs(t, seq.Advance(), ErrInvalidTransition)
	assert.ErrorIs(t, seq.ReplaySegment(), ErrInvalidTransition)
}

func TestSequencerDecisionPointWaitsForUser(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	sc := script.Script{Segments: []script.Segment{
		{ID: "twin_001", Text: "Should I coordinate alignment?", EstimatedDurationMs: 60_000, RequiresAdvance: true},
		{ID: "twin_002", Text: "Done.", EstimatedDurationMs: 60_000},
	}}
	require.NoError(t, seq.Start(sc))
	require.Eventually(t, func() bool { return player.PlayCount() == 1 }, waitFor, tick)

	player.CompleteCurrent(nil)
	require.Eventually(t, func() bool { return seq.Status() == StatusAwaitingAdvance }, waitFor, tick)
	assert.Equal(t, 0, seq.Index(), "decision point does not advance on its own")

	require.NoError(t, seq.Advance())
	require.Eventually(t, func() bool { return player.PlayCount() == 2 }, waitFor, tick)
	assert.Equal(t, 1, seq.Index())
}

func TestSequencerReplayKeepsIndex(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	require.NoError(t, seq.Start(longScript("twin_001", "twin_002")))
	require.Eventually(t, func() bool { return player.PlayCount() == 1 }, waitFor, tick)

	require.NoError(t, seq.ReplaySegment())
	require.Eventually(t, func() bool { return player.PlayCount() == 2 }, waitFor, tick)

	assert.Equal(t, 0, seq.Index(), "replay never changes the segment index")
	plays := player.Plays()
	assert.Equal(t, plays[0].Segment.ID, plays[1].Segment.ID)
}

func TestSequencerWatchdogAdvancesWhenAudioNeverCompletes(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	sc := script.Script{Segments: []script.Segment{
		{ID: "twin_001", Text: "a", EstimatedDurationMs: 30},
		{ID: "twin_002", Text: "b", EstimatedDurationMs: 30},
	}}
	require.NoError(t, seq.Start(sc))

	// No completion events at all: the watchdog carries the schedule.
	require.Eventually(t, seq.Finished, waitFor, tick)
	assert.Equal(t, 2, player.PlayCount())
}

func TestSequencerAbsorbsPlaybackErrorAndKeepsSchedule(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	sc := script.Script{Segments: []script.Segment{
		{ID: "ceo_001", Text: "a", EstimatedDurationMs: 300},
		{ID: "ceo_002", Text: "b", EstimatedDurationMs: 60_000},
	}}
	start := time.Now()
	require.NoError(t, seq.Start(sc))
	require.Eventually(t, func() bool { return player.PlayCount() == 1 }, waitFor, tick)

	player.CompleteCurrent(errors.New("asset missing"))

	// The error is absorbed: still on segment 0, still nominally playing.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, seq.Index())
	assert.Equal(t, StatusPlaying, seq.Status())

	// The watchdog advances within the estimated duration.
	require.Eventually(t, func() bool { return seq.Index() == 1 }, waitFor, tick)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSequencerModeChangeAppliesFromNextSegment(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	require.NoError(t, seq.Start(longScript("twin_001", "twin_002")))
	require.Eventually(t, func() bool { return player.PlayCount() == 1 }, waitFor, tick)

	seq.SetMode(audio.ModeLiveVoice)
	player.CompleteCurrent(nil)
	require.Eventually(t, func() bool { return player.PlayCount() == 2 }, waitFor, tick)

	plays := player.Plays()
	assert.Equal(t, audio.ModePreRecorded, plays[0].Mode, "in-flight segment keeps its mode")
	assert.Equal(t, audio.ModeLiveVoice, plays[1].Mode, "mode applies from the next segment")
}

func TestSequencerStartStopsInFlightPlayback(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player)

	require.NoError(t, seq.Start(longScript("twin_001", "twin_002")))
	require.Eventually(t, func() bool { return player.PlayCount() == 1 }, waitFor, tick)

	require.NoError(t, seq.Start(longScript("ceo_001")))
	require.Eventually(t, func() bool { return player.PlayCount() == 2 }, waitFor, tick)

	// Restart went back to index 0 with the new script.
	assert.Equal(t, 0, seq.Index())
	cur, ok := seq.Current()
	require.True(t, ok)
	assert.Equal(t, "ceo_001", cur.ID)
}

func TestSequencerManualModePausesBetweenSegments(t *testing.T) {
	player := &audio.MockPlayer{}
	seq := NewSequencer(player, WithAutoAdvance(false))

	require.NoError(t, seq.Start(longScript("twin_001", "twin_002")))
	require.Eventually(t, func() bool { return player.PlayCount() == 1 }, waitFor, tick)

	player.CompleteCurrent(nil)
	require.Eventually(t, func() bool { return seq.Status() == StatusCompleted }, waitFor, tick)
	assert.Equal(t, 0, seq.Index())

	require.NoError(t, seq.Advance())
	require.Eventually(t, func() bool { return player.PlayCount() == 2 }, waitFor, tick)
}

func TestSequencerStartWithEmptyScriptFails(t *testing.T) {
	seq := NewSequencer(&audio.MockPlayer{})
	assert.Error(t, seq.Start(script.Script{}))
}
