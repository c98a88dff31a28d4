package scx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/scx-dev/scx-go/internal/httpx"
	"github.com/scx-dev/scx-go/internal/provider"
)

type transcriptionJSON struct {
	Text     string `json:"text"`
	Segments []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
	Language string   `json:"language"`
	Duration *float64 `json:"duration"`
}

func (p *Provider) Transcribe(ctx context.Context, req provider.TranscriptionRequest) (provider.TranscriptionResponse, error) {
	if req.Model == "" {
		return provider.TranscriptionResponse{}, &provider.Error{Provider: providerName, Code: "invalid_request", Message: "model is required"}
	}

	// The wire format always carries audio as a string: raw bytes are
	// base64-encoded, pre-encoded text passes through unchanged.
	audio := req.AudioBase64
	if len(req.AudioBytes) > 0 {
		audio = base64.StdEncoding.EncodeToString(req.AudioBytes)
	}

	wire := map[string]any{
		"model":      req.Model,
		"audio":      audio,
		"media_type": req.MediaType,
	}
	for k, v := range req.Options {
		wire[k] = v
	}

	// Serialized once; this exact string is both what goes on the wire and
	// what the diagnostic request body reports.
	body, err := json.Marshal(wire)
	if err != nil {
		return provider.TranscriptionResponse{}, &provider.Error{Provider: providerName, Code: "marshal_error", Message: err.Error(), Cause: err}
	}

	u, err := p.endpointURL("/transcriptions")
	if err != nil {
		return provider.TranscriptionResponse{}, &provider.Error{Provider: providerName, Code: "url_error", Message: err.Error(), Cause: err}
	}

	h, err := p.headers(req.Headers)
	if err != nil {
		return provider.TranscriptionResponse{}, err
	}

	resp, err := httpx.Do(ctx, p.cfg.HTTPClient, http.MethodPost, u, body, h)
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return provider.TranscriptionResponse{}, &provider.Error{Provider: providerName, Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<24))
	if err != nil {
		return provider.TranscriptionResponse{}, &provider.Error{Provider: providerName, Code: "read_error", Message: err.Error(), Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return provider.TranscriptionResponse{}, &provider.Error{
			Provider:  providerName,
			Code:      "http_error",
			Status:    resp.StatusCode,
			Message:   strings.TrimSpace(string(rawBody)),
			Retryable: shouldRetryStatus(resp.StatusCode),
		}
	}

	var v transcriptionJSON
	if err := json.Unmarshal(rawBody, &v); err != nil {
		return provider.TranscriptionResponse{}, &provider.Error{Provider: providerName, Code: "decode_error", Message: err.Error(), Cause: err}
	}

	segments := make([]provider.TranscriptSegment, len(v.Segments))
	for i, s := range v.Segments {
		segments[i] = provider.TranscriptSegment{
			Text:        s.Text,
			StartSecond: s.Start,
			EndSecond:   s.End,
		}
	}

	return provider.TranscriptionResponse{
		Text:            v.Text,
		Segments:        segments,
		Language:        v.Language,
		DurationSeconds: v.Duration,
		Model:           req.Model,
		Timestamp:       time.Now(),
		Header:          resp.Header.Clone(),
		RawResponse:     json.RawMessage(rawBody),
		RequestBody:     string(body),
	}, nil
}

var _ provider.TranscriptionProvider = (*Provider)(nil)
