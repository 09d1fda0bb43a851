package script

import (
	"errors"
	"fmt"
)

// ErrUnknownPersona is returned when a requested persona stage is not part
// of the authored demo.
var ErrUnknownPersona = errors.New("unknown persona")

// Stage binds a speaker role to its script and the view shell shown while
// that persona's script plays. Stages are immutable once loaded.
type Stage struct {
	Speaker   Speaker `yaml:"speaker" json:"speaker"`
	Title     string  `yaml:"title,omitempty" json:"title,omitempty"`
	ViewShell string  `yaml:"view,omitempty" json:"view,omitempty"`

	// Script's segments sit directly under the stage in demo files.
	Script Script `yaml:",inline" json:"script"`
}

// Label returns the display title for the stage, falling back to the
// speaker's role label.
func (st Stage) Label() string {
	if st.Title != "" {
		return st.Title
	}
	return st.Speaker.Label()
}

// Demo is the full authored demo: an ordered list of persona stages. The
// stage order is the cascade order.
type Demo struct {
	Name   string  `yaml:"name" json:"name"`
	Stages []Stage `yaml:"stages" json:"stages"`
}

// NumStages returns the number of persona stages.
func (d *Demo) NumStages() int { return len(d.Stages) }

// StageAt returns the stage at the given position.
func (d *Demo) StageAt(index int) (Stage, error) {
	if index < 0 || index >= len(d.Stages) {
		return Stage{}, fmt.Errorf("stage index %d out of range [0,%d): %w", index, len(d.Stages), ErrUnknownPersona)
	}
	return d.Stages[index], nil
}

// StageFor returns the first stage voiced by the given speaker.
func (d *Demo) StageFor(speaker Speaker) (Stage, error) {
	for _, st := range d.Stages {
		if st.Speaker == speaker {
			return st, nil
		}
	}
	return Stage{}, fmt.Errorf("no stage for speaker %q: %w", speaker, ErrUnknownPersona)
}

// Validate checks the authored demo: at least one stage, known speakers,
// and each stage's script invariants.
func (d *Demo) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("demo has no name")
	}
	if len(d.Stages) == 0 {
		return fmt.Errorf("demo %q has no stages", d.Name)
	}
	for i, st := range d.Stages {
		if !st.Speaker.Valid() {
			return fmt.Errorf("stage %d: unknown speaker %q", i, st.Speaker)
		}
		if err := st.Script.Validate(); err != nil {
			return fmt.Errorf("stage %d (%s): %w", i, st.Speaker, err)
		}
	}
	return nil
}

// normalize fills derived segment fields after loading: each segment
// inherits its stage's speaker unless authored explicitly.
func (d *Demo) normalize() {
	for i := range d.Stages {
		st := &d.Stages[i]
		for j := range st.Script.Segments {
			if st.Script.Segments[j].Speaker == "" {
				st.Script.Segments[j].Speaker = st.Speaker
			}
		}
	}
}
