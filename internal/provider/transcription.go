package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type TranscriptionProvider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionResponse, error)
}

type TranscriptionRequest struct {
	Model string

	// AudioBytes is raw audio; it is base64-encoded on the wire. When empty,
	// AudioBase64 is sent as-is instead.
	AudioBytes  []byte
	AudioBase64 string
	MediaType   string

	// Options is merged verbatim into the wire body. Keys that collide with
	// the base fields (model, audio, media_type) win.
	Options map[string]any

	Headers map[string]string
}

type TranscriptSegment struct {
	Text        string
	StartSecond float64
	EndSecond   float64
}

type TranscriptionResponse struct {
	Text string

	Segments        []TranscriptSegment
	Language        string
	DurationSeconds *float64

	Model     string
	Timestamp time.Time

	Header      http.Header
	RawResponse json.RawMessage

	// RequestBody is the exact serialized body that was sent, retained for
	// diagnostics.
	RequestBody string
}
