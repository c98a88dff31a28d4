package scx

import (
	"context"
	"net/http"

	"github.com/scx-dev/scx-go/internal/provider"
	scxapi "github.com/scx-dev/scx-go/internal/scx"
)

// EmbeddingModel translates embedding requests for one model id. Each call is
// independent and stateless, so concurrent calls against the same model are
// safe.
type EmbeddingModel struct {
	modelID string
	api     *scxapi.Provider
}

func (m *EmbeddingModel) Provider() string { return ProviderName }
func (m *EmbeddingModel) ModelID() string  { return m.modelID }

func (m *EmbeddingModel) MaxEmbeddingsPerCall() int   { return MaxEmbeddingsPerCall }
func (m *EmbeddingModel) SupportsParallelCalls() bool { return true }

type EmbedRequest struct {
	Inputs []string

	// Headers apply to this call only and override configured headers.
	// An entry with an empty value is dropped, not sent blank.
	Headers map[string]string
}

type EmbeddingUsage struct {
	Tokens int
}

type EmbedResponse struct {
	// Embeddings correspond positionally to the request inputs.
	Embeddings [][]float64

	// Usage is nil when the API reported none.
	Usage *EmbeddingUsage

	ResponseHeaders http.Header
	RawResponse     []byte
}

func (m *EmbeddingModel) Embed(ctx context.Context, req EmbedRequest) (*EmbedResponse, error) {
	inputs := make([]string, len(req.Inputs))
	copy(inputs, req.Inputs)

	out, err := m.api.Embed(ctx, provider.EmbeddingRequest{
		Model:   m.modelID,
		Inputs:  inputs,
		Headers: cloneStringMap(req.Headers),
	})
	if err != nil {
		return nil, mapProviderError(err)
	}

	var usage *EmbeddingUsage
	if out.Usage != nil {
		usage = &EmbeddingUsage{Tokens: out.Usage.Tokens}
	}
	return &EmbedResponse{
		Embeddings:      out.Embeddings,
		Usage:           usage,
		ResponseHeaders: out.Header,
		RawResponse:     out.RawResponse,
	}, nil
}
