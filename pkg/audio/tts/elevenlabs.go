package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

	// ElevenLabsModelTurbo is the low-latency model used for live demos.
	ElevenLabsModelTurbo = "eleven_turbo_v2_5"

	defaultElevenLabsVoice   = "21m00Tcm4TlvDq8ikWAM" // Rachel
	defaultElevenLabsTimeout = 60 * time.Second

	elevenLabsStability       = 0.5
	elevenLabsSimilarityBoost = 0.75
)

// ElevenLabs implements Service against the ElevenLabs text-to-speech API.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	client  *http.Client
	model   string
}

// ElevenLabsOption configures the client.
type ElevenLabsOption func(*ElevenLabs)

// WithBaseURL sets a custom API base URL, mainly for tests.
func WithBaseURL(url string) ElevenLabsOption {
	return func(s *ElevenLabs) { s.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ElevenLabsOption {
	return func(s *ElevenLabs) { s.client = client }
}

// WithModel overrides the synthesis model.
func WithModel(model string) ElevenLabsOption {
	return func(s *ElevenLabs) { s.model = model }
}

// NewElevenLabs creates an ElevenLabs client.
func NewElevenLabs(apiKey string, opts ...ElevenLabsOption) *ElevenLabs {
	s := &ElevenLabs{
		apiKey:  apiKey,
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: defaultElevenLabsTimeout},
		model:   ElevenLabsModelTurbo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the provider identifier.
func (s *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text          string                   `json:"text"`
	ModelID       string                   `json:"model_id,omitempty"`
	VoiceSettings *elevenLabsVoiceSettings `json:"voice_settings,omitempty"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsErrorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Synthesize requests MP3 audio for the given text.
func (s *ElevenLabs) Synthesize(ctx context.Context, text string, cfg SynthesisConfig) (io.ReadCloser, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	if s.apiKey == "" {
		return nil, ErrMissingCredentials
	}

	voice := cfg.Voice
	if voice == "" {
		voice = defaultElevenLabsVoice
	}
	model := cfg.Model
	if model == "" {
		model = s.model
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: model,
		VoiceSettings: &elevenLabsVoiceSettings{
			Stability:       elevenLabsStability,
			SimilarityBoost: elevenLabsSimilarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal synthesis request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", s.baseURL, voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create synthesis request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var errResp elevenLabsErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Detail.Message != "" {
			return nil, fmt.Errorf("elevenlabs %d (%s): %s: %w", resp.StatusCode, errResp.Detail.Status, errResp.Detail.Message, ErrSynthesisFailed)
		}
		return nil, fmt.Errorf("elevenlabs returned status %d: %w", resp.StatusCode, ErrSynthesisFailed)
	}

	return resp.Body, nil
}
