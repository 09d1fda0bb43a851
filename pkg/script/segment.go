package script

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// audioRefPattern matches the voice-asset naming convention, e.g. twin_001.
var audioRefPattern = regexp.MustCompile(`^[a-z][a-z_]*_\d{3}$`)

// Words-per-second rate used to estimate narration length when a segment
// does not author an explicit duration.
const defaultSpeechWPS = 2.5

// Segment is one line of scripted dialogue paired with one audio clip.
type Segment struct {
	ID                  string  `yaml:"id" json:"id"`
	Speaker             Speaker `yaml:"speaker,omitempty" json:"speaker,omitempty"`
	Text                string  `yaml:"text" json:"text"`
	AudioRef            string  `yaml:"audio_ref,omitempty" json:"audio_ref,omitempty"`
	EstimatedDurationMs int     `yaml:"estimated_duration_ms,omitempty" json:"estimated_duration_ms,omitempty"`
	RequiresAdvance     bool    `yaml:"requires_advance,omitempty" json:"requires_advance,omitempty"`
}

// EstimatedDuration returns the authored duration, or a word-count estimate
// when the demo file leaves it out.
func (s Segment) EstimatedDuration() time.Duration {
	if s.EstimatedDurationMs > 0 {
		return time.Duration(s.EstimatedDurationMs) * time.Millisecond
	}
	words := len(strings.Fields(s.Text))
	if words == 0 {
		words = 1
	}
	secs := float64(words) / defaultSpeechWPS
	return time.Duration(secs * float64(time.Second))
}

// Ref returns the logical audio reference for the segment. It defaults to
// the segment id, which already follows the asset naming convention.
func (s Segment) Ref() string {
	if s.AudioRef != "" {
		return s.AudioRef
	}
	return s.ID
}

// Script is the ordered dialogue for one persona stage. Segment order is
// playback order.
type Script struct {
	Segments []Segment `yaml:"segments" json:"segments"`
}

// Len returns the number of segments.
func (s Script) Len() int { return len(s.Segments) }

// Validate checks the script invariants: non-empty, unique ids, known
// audio-ref naming.
func (s Script) Validate() error {
	if len(s.Segments) == 0 {
		return fmt.Errorf("script has no segments")
	}
	seen := make(map[string]bool, len(s.Segments))
	for i, seg := range s.Segments {
		if seg.ID == "" {
			return fmt.Errorf("segment %d: missing id", i)
		}
		if seen[seg.ID] {
			return fmt.Errorf("segment %d: duplicate id %q", i, seg.ID)
		}
		seen[seg.ID] = true
		if seg.Text == "" {
			return fmt.Errorf("segment %q: missing text", seg.ID)
		}
		if !audioRefPattern.MatchString(seg.Ref()) {
			return fmt.Errorf("segment %q: audio ref %q does not match <role>_<seq> convention", seg.ID, seg.Ref())
		}
	}
	return nil
}
