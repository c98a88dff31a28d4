package scx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/scx-dev/scx-go/internal/httpx"
	"github.com/scx-dev/scx-go/internal/provider"
)

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingItem struct {
	Embedding []float64 `json:"embedding"`
}

// embeddingsEnvelope is the wrapped response variant. The API may instead
// reply with a bare array of embedding items; see decodeEmbeddings.
type embeddingsEnvelope struct {
	Data  []embeddingItem `json:"data"`
	Usage *struct {
		TotalTokens  *int `json:"total_tokens"`
		PromptTokens *int `json:"prompt_tokens"`
	} `json:"usage"`
}

func (p *Provider) Embed(ctx context.Context, req provider.EmbeddingRequest) (provider.EmbeddingResponse, error) {
	if req.Model == "" {
		return provider.EmbeddingResponse{}, &provider.Error{Provider: providerName, Code: "invalid_request", Message: "model is required"}
	}

	body, err := json.Marshal(embeddingsRequest{
		Model: req.Model,
		Input: req.Inputs,
	})
	if err != nil {
		return provider.EmbeddingResponse{}, &provider.Error{Provider: providerName, Code: "marshal_error", Message: err.Error(), Cause: err}
	}

	u, err := p.endpointURL("/embeddings")
	if err != nil {
		return provider.EmbeddingResponse{}, &provider.Error{Provider: providerName, Code: "url_error", Message: err.Error(), Cause: err}
	}

	h, err := p.headers(req.Headers)
	if err != nil {
		return provider.EmbeddingResponse{}, err
	}

	resp, err := httpx.Do(ctx, p.cfg.HTTPClient, http.MethodPost, u, body, h)
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return provider.EmbeddingResponse{}, &provider.Error{Provider: providerName, Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return provider.EmbeddingResponse{}, &provider.Error{
			Provider:  providerName,
			Code:      "http_error",
			Status:    resp.StatusCode,
			Message:   strings.TrimSpace(string(b)),
			Retryable: shouldRetryStatus(resp.StatusCode),
		}
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return provider.EmbeddingResponse{}, &provider.Error{Provider: providerName, Code: "read_error", Message: err.Error(), Cause: err}
	}

	vectors, usage, err := decodeEmbeddings(rawBody)
	if err != nil {
		return provider.EmbeddingResponse{}, &provider.Error{Provider: providerName, Code: "decode_error", Message: err.Error(), Cause: err}
	}

	return provider.EmbeddingResponse{
		Embeddings:  vectors,
		Usage:       usage,
		Header:      resp.Header.Clone(),
		RawResponse: rawBody,
	}, nil
}

// decodeEmbeddings handles both response variants: a bare array of
// {embedding} items, or an object with a data array and optional usage.
// The variant is detected by the top-level JSON value; a missing data field
// in the object variant yields an empty result, not an error.
func decodeEmbeddings(raw []byte) ([][]float64, *provider.EmbeddingUsage, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []embeddingItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, nil, err
		}
		return itemVectors(items), nil, nil
	}

	var env embeddingsEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, nil, err
	}

	var usage *provider.EmbeddingUsage
	if env.Usage != nil {
		u := provider.EmbeddingUsage{}
		switch {
		case env.Usage.TotalTokens != nil:
			u.Tokens = *env.Usage.TotalTokens
		case env.Usage.PromptTokens != nil:
			u.Tokens = *env.Usage.PromptTokens
		}
		usage = &u
	}
	return itemVectors(env.Data), usage, nil
}

func itemVectors(items []embeddingItem) [][]float64 {
	vectors := make([][]float64, len(items))
	for i, it := range items {
		vectors[i] = it.Embedding
	}
	return vectors
}

var _ provider.EmbeddingProvider = (*Provider)(nil)
