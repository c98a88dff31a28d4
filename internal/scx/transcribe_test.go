package scx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scx-dev/scx-go/internal/provider"
)

func TestTranscribe_Success(t *testing.T) {
	var sentBody string
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		sentBody = string(raw)

		var req map[string]any
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, "transcribe-1", req["model"])
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("fake audio")), req["audio"])
		assert.Equal(t, "audio/wav", req["media_type"])

		w.Header().Set("X-Request-Id", "req-7")
		fmt.Fprint(w, `{"text":"hi","segments":[{"text":"hi","start":0,"end":1.2}],"language":"en","duration":1.2}`)
	})

	before := time.Now()
	out, err := p.Transcribe(context.Background(), provider.TranscriptionRequest{
		Model:      "transcribe-1",
		AudioBytes: []byte("fake audio"),
		MediaType:  "audio/wav",
	})
	require.NoError(t, err)

	assert.Equal(t, "hi", out.Text)
	require.Len(t, out.Segments, 1)
	assert.Equal(t, provider.TranscriptSegment{Text: "hi", StartSecond: 0, EndSecond: 1.2}, out.Segments[0])
	assert.Equal(t, "en", out.Language)
	require.NotNil(t, out.DurationSeconds)
	assert.Equal(t, 1.2, *out.DurationSeconds)

	assert.Equal(t, "transcribe-1", out.Model)
	assert.False(t, out.Timestamp.Before(before))
	assert.Equal(t, "req-7", out.Header.Get("X-Request-Id"))
	// The diagnostic request body is the exact string that went on the wire.
	assert.Equal(t, sentBody, out.RequestBody)
	assert.JSONEq(t, `{"text":"hi","segments":[{"text":"hi","start":0,"end":1.2}],"language":"en","duration":1.2}`, string(out.RawResponse))
}

func TestTranscribe_MissingFieldsDefault(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	out, err := p.Transcribe(context.Background(), provider.TranscriptionRequest{
		Model:      "m",
		AudioBytes: []byte{1, 2, 3},
		MediaType:  "audio/mpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "", out.Text)
	assert.NotNil(t, out.Segments)
	assert.Empty(t, out.Segments)
	assert.Equal(t, "", out.Language)
	assert.Nil(t, out.DurationSeconds)
}

func TestTranscribe_Base64Passthrough(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "cHJlLWVuY29kZWQ=", req["audio"])
		fmt.Fprint(w, `{"text":"ok"}`)
	})

	out, err := p.Transcribe(context.Background(), provider.TranscriptionRequest{
		Model:       "m",
		AudioBase64: "cHJlLWVuY29kZWQ=",
		MediaType:   "audio/mpeg",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
}

func TestTranscribe_OptionsOverrideBaseFields(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "audio/flac", req["media_type"])
		assert.Equal(t, "greeting", req["prompt"])
		assert.Equal(t, float64(0), req["temperature"])
		fmt.Fprint(w, `{"text":"ok"}`)
	})

	_, err := p.Transcribe(context.Background(), provider.TranscriptionRequest{
		Model:      "m",
		AudioBytes: []byte("x"),
		MediaType:  "audio/wav",
		Options: map[string]any{
			"media_type":  "audio/flac",
			"prompt":      "greeting",
			"temperature": 0,
		},
	})
	require.NoError(t, err)
}

func TestTranscribe_HTTPError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "upstream exploded")
	})

	_, err := p.Transcribe(context.Background(), provider.TranscriptionRequest{
		Model:      "m",
		AudioBytes: []byte("x"),
		MediaType:  "audio/wav",
	})
	var pe *provider.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "http_error", pe.Code)
	assert.Equal(t, 500, pe.Status)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestTranscribe_DecodeError(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>")
	})

	_, err := p.Transcribe(context.Background(), provider.TranscriptionRequest{
		Model:      "m",
		AudioBytes: []byte("x"),
		MediaType:  "audio/wav",
	})
	var pe *provider.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "decode_error", pe.Code)
}

func TestTranscribe_ModelRequired(t *testing.T) {
	p, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := p.Transcribe(context.Background(), provider.TranscriptionRequest{
		AudioBytes: []byte("x"),
		MediaType:  "audio/wav",
	})
	var pe *provider.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "invalid_request", pe.Code)
}
