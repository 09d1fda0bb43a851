package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElevenLabsSynthesize(t *testing.T) {
	var gotPath, gotKey string
	var gotReq elevenLabsRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	svc := NewElevenLabs("key-abc", WithBaseURL(srv.URL))
	stream, err := svc.Synthesize(context.Background(), "the decision cascades", SynthesisConfig{Voice: "voice-42"})
	require.NoError(t, err)
	defer stream.Close()

	audio, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(audio))

	assert.Equal(t, "/text-to-speech/voice-42", gotPath)
	assert.Equal(t, "key-abc", gotKey)
	assert.Equal(t, "the decision cascades", gotReq.Text)
	assert.Equal(t, ElevenLabsModelTurbo, gotReq.ModelID)
}

func TestElevenLabsDefaultVoice(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	svc := NewElevenLabs("key", WithBaseURL(srv.URL))
	stream, err := svc.Synthesize(context.Background(), "hi", SynthesisConfig{})
	require.NoError(t, err)
	stream.Close()

	assert.Equal(t, "/text-to-speech/"+defaultElevenLabsVoice, gotPath)
}

func TestElevenLabsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"detail": map[string]string{"status": "invalid_api_key", "message": "bad key"},
		})
	}))
	defer srv.Close()

	svc := NewElevenLabs("wrong", WithBaseURL(srv.URL))
	_, err := svc.Synthesize(context.Background(), "hi", SynthesisConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSynthesisFailed)
	assert.Contains(t, err.Error(), "invalid_api_key")
	assert.Contains(t, err.Error(), "bad key")
}

func TestElevenLabsOpaqueAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewElevenLabs("key", WithBaseURL(srv.URL))
	_, err := svc.Synthesize(context.Background(), "hi", SynthesisConfig{})
	assert.ErrorIs(t, err, ErrSynthesisFailed)
}

func TestElevenLabsValidation(t *testing.T) {
	svc := NewElevenLabs("key")
	_, err := svc.Synthesize(context.Background(), "", SynthesisConfig{})
	assert.ErrorIs(t, err, ErrEmptyText)

	svc = NewElevenLabs("")
	_, err = svc.Synthesize(context.Background(), "hi", SynthesisConfig{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
