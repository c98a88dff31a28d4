package scx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/scx-dev/scx-go/internal/provider"
	scxapi "github.com/scx-dev/scx-go/internal/scx"
)

// TranscriptionModel translates transcription requests for one model id.
type TranscriptionModel struct {
	modelID string
	api     *scxapi.Provider
}

func (m *TranscriptionModel) Provider() string { return ProviderName }
func (m *TranscriptionModel) ModelID() string  { return m.modelID }

type TranscribeRequest struct {
	// Audio is raw audio data; it is base64-encoded on the wire. When nil,
	// AudioBase64 is sent as-is instead.
	Audio       []byte
	AudioBase64 string

	// MediaType is the IANA media type of the audio, e.g. "audio/wav".
	MediaType string

	// Options is merged verbatim into the wire body; keys that collide with
	// model, audio, or media_type override them.
	Options map[string]any

	// Headers apply to this call only; empty values are dropped.
	Headers map[string]string
}

type TranscriptSegment struct {
	Text        string
	StartSecond float64
	EndSecond   float64
}

// TranscribeRequestInfo reports the exact body that was sent, for
// diagnostics.
type TranscribeRequestInfo struct {
	Body string
}

// TranscribeResponseInfo carries response diagnostics. Timestamp is captured
// at the moment the result is returned.
type TranscribeResponseInfo struct {
	Timestamp time.Time
	ModelID   string
	Headers   http.Header
	Body      json.RawMessage
}

type TranscribeResponse struct {
	Text string

	Segments []TranscriptSegment

	// Language is the ISO-639-1 code reported by the API, empty when absent.
	Language string

	// DurationSeconds is nil when the API did not report a duration.
	DurationSeconds *float64

	Request  TranscribeRequestInfo
	Response TranscribeResponseInfo
}

func (m *TranscriptionModel) Transcribe(ctx context.Context, req TranscribeRequest) (*TranscribeResponse, error) {
	out, err := m.api.Transcribe(ctx, provider.TranscriptionRequest{
		Model:       m.modelID,
		AudioBytes:  req.Audio,
		AudioBase64: req.AudioBase64,
		MediaType:   req.MediaType,
		Options:     req.Options,
		Headers:     cloneStringMap(req.Headers),
	})
	if err != nil {
		return nil, mapProviderError(err)
	}

	segments := make([]TranscriptSegment, len(out.Segments))
	for i, s := range out.Segments {
		segments[i] = TranscriptSegment{Text: s.Text, StartSecond: s.StartSecond, EndSecond: s.EndSecond}
	}

	return &TranscribeResponse{
		Text:            out.Text,
		Segments:        segments,
		Language:        out.Language,
		DurationSeconds: out.DurationSeconds,
		Request:         TranscribeRequestInfo{Body: out.RequestBody},
		Response: TranscribeResponseInfo{
			Timestamp: out.Timestamp,
			ModelID:   out.Model,
			Headers:   out.Header,
			Body:      out.RawResponse,
		},
	}, nil
}
