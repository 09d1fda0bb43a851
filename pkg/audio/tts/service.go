// Package tts synthesizes narration audio for live-voice playback.
package tts

import (
	"context"
	"errors"
	"io"
)

// Common synthesis errors.
var (
	// ErrEmptyText is returned when attempting to synthesize empty text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrMissingCredentials is returned when no API key is configured.
	ErrMissingCredentials = errors.New("speech service credentials not configured")

	// ErrSynthesisFailed is returned when the speech service rejects a request.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)

// Service converts narration text to speech audio. Implementations wrap a
// specific speech provider so the playback adapter can stay
// provider-agnostic.
type Service interface {
	// Name returns the provider identifier, for logging.
	Name() string

	// Synthesize converts text to audio and returns a reader for the
	// encoded stream. The caller closes the reader.
	Synthesize(ctx context.Context, text string, cfg SynthesisConfig) (io.ReadCloser, error)
}

// SynthesisConfig configures one synthesis call.
type SynthesisConfig struct {
	// Voice is the provider-specific voice id. Empty selects the
	// provider default.
	Voice string

	// Model is the provider-specific synthesis model.
	Model string
}
