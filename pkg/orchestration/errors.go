package orchestration

import "errors"

var (
	// ErrIndexOutOfRange is returned by JumpTo for a stage index outside
	// the authored demo. Session state is left unchanged.
	ErrIndexOutOfRange = errors.New("persona stage index out of range")

	// ErrInvalidTransition is returned for sequencing calls that are not
	// valid in the current state, e.g. Advance while Idle. Never fatal
	// to the session.
	ErrInvalidTransition = errors.New("invalid sequencer transition")

	// ErrInvalidMode is returned by SetMode for an unknown playback mode.
	ErrInvalidMode = errors.New("invalid playback mode")
)
