package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestScriptValidate(t *testing.T) {
	tests := []struct {
		name      string
		script    Script
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid script",
			script: Script{Segments: []Segment{
				{ID: "twin_001", Text: "hello"},
				{ID: "twin_002", Text: "world"},
			}},
			wantError: false,
		},
		{
			name:      "empty script",
			script:    Script{},
			wantError: true,
			errorMsg:  "no segments",
		},
		{
			name: "duplicate id",
			script: Script{Segments: []Segment{
				{ID: "twin_001", Text: "hello"},
				{ID: "twin_001", Text: "again"},
			}},
			wantError: true,
			errorMsg:  "duplicate id",
		},
		{
			name: "missing text",
			script: Script{Segments: []Segment{
				{ID: "twin_001"},
			}},
			wantError: true,
			errorMsg:  "missing text",
		},
		{
			name: "bad audio ref convention",
			script: Script{Segments: []Segment{
				{ID: "twin_001", Text: "hello", AudioRef: "clip-1"},
			}},
			wantError: true,
			errorMsg:  "convention",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.script.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error %q does not contain %q", err, tt.errorMsg)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSegmentEstimatedDuration(t *testing.T) {
	authored := Segment{ID: "ceo_001", Text: "hi", EstimatedDurationMs: 4000}
	if got := authored.EstimatedDuration(); got != 4*time.Second {
		t.Errorf("authored duration = %v, want 4s", got)
	}

	// Ten words at 2.5 words/sec is four seconds.
	derived := Segment{ID: "ceo_002", Text: strings.Repeat("word ", 10)}
	if got := derived.EstimatedDuration(); got != 4*time.Second {
		t.Errorf("derived duration = %v, want 4s", got)
	}
}

func TestSegmentRefDefaultsToID(t *testing.T) {
	seg := Segment{ID: "twin_003", Text: "x"}
	if seg.Ref() != "twin_003" {
		t.Errorf("Ref() = %q, want twin_003", seg.Ref())
	}
	seg.AudioRef = "twin_099"
	if seg.Ref() != "twin_099" {
		t.Errorf("Ref() = %q, want twin_099", seg.Ref())
	}
}

func TestDemoStageLookups(t *testing.T) {
	demo := &Demo{
		Name: "test",
		Stages: []Stage{
			{Speaker: SpeakerTwin, Script: Script{Segments: []Segment{{ID: "twin_001", Text: "a"}}}},
			{Speaker: SpeakerCEO, Script: Script{Segments: []Segment{{ID: "ceo_001", Text: "b"}}}},
		},
	}

	if _, err := demo.StageAt(1); err != nil {
		t.Fatalf("StageAt(1): %v", err)
	}
	if _, err := demo.StageAt(2); !errors.Is(err, ErrUnknownPersona) {
		t.Errorf("StageAt(2) = %v, want ErrUnknownPersona", err)
	}
	if _, err := demo.StageFor(SpeakerCEO); err != nil {
		t.Errorf("StageFor(ceo): %v", err)
	}
	if _, err := demo.StageFor(SpeakerVPSales); !errors.Is(err, ErrUnknownPersona) {
		t.Errorf("StageFor(vp_sales) = %v, want ErrUnknownPersona", err)
	}
}

func TestDemoValidateRejectsUnknownSpeaker(t *testing.T) {
	demo := &Demo{
		Name: "test",
		Stages: []Stage{
			{Speaker: "board_chair", Script: Script{Segments: []Segment{{ID: "board_chair_001", Text: "a"}}}},
		},
	}
	err := demo.Validate()
	if err == nil || !strings.Contains(err.Error(), "unknown speaker") {
		t.Errorf("Validate() = %v, want unknown speaker error", err)
	}
}

func TestBuiltinDemo(t *testing.T) {
	demo := BuiltinDemo()

	if demo.NumStages() != 4 {
		t.Fatalf("builtin demo has %d stages, want 4", demo.NumStages())
	}

	order := []Speaker{SpeakerTwin, SpeakerCEO, SpeakerVPSales, SpeakerVPEngineering}
	for i, want := range order {
		if demo.Stages[i].Speaker != want {
			t.Errorf("stage %d speaker = %s, want %s", i, demo.Stages[i].Speaker, want)
		}
	}

	// The Twin's decision point waits for the CEO.
	twin := demo.Stages[0].Script
	last := twin.Segments[twin.Len()-1]
	if !last.RequiresAdvance {
		t.Errorf("final twin segment %s should require explicit advance", last.ID)
	}

	// Segments inherit the stage speaker.
	for _, seg := range twin.Segments {
		if seg.Speaker != SpeakerTwin {
			t.Errorf("segment %s speaker = %s, want twin", seg.ID, seg.Speaker)
		}
	}
}

func TestLoadDemo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.yml")
	content := `name: mini
stages:
  - speaker: twin
    segments:
      - id: twin_001
        text: "hello there"
        estimated_duration_ms: 1500
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	demo, err := LoadDemo(path)
	if err != nil {
		t.Fatalf("LoadDemo: %v", err)
	}
	if demo.Name != "mini" || demo.NumStages() != 1 {
		t.Errorf("unexpected demo: %+v", demo)
	}
	if demo.Stages[0].Script.Segments[0].Speaker != SpeakerTwin {
		t.Errorf("segment did not inherit stage speaker")
	}

	if _, err := LoadDemo(filepath.Join(dir, "missing.yml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
