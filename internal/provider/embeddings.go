package provider

import (
	"context"
	"net/http"
)

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error)
}

type EmbeddingRequest struct {
	Model string

	Inputs []string

	// Headers are merged over the configured headers for this call only.
	// An empty value means "unset": the entry is skipped, not sent blank.
	Headers map[string]string
}

type EmbeddingUsage struct {
	Tokens int
}

type EmbeddingResponse struct {
	Embeddings [][]float64

	// Usage is nil when the upstream response carried no usage object.
	Usage *EmbeddingUsage

	Header      http.Header
	RawResponse []byte
}
