// Package scx is a model-provider adapter for the SCX inference API. It
// exposes chat completion, text embedding, and audio transcription behind one
// configured entry point so an orchestration layer can treat the three model
// families as a single remote endpoint. Chat is delegated to an
// OpenAI-compatible client; embeddings and transcription are translated
// locally, one HTTP call per request, with no retries and no shared state
// beyond the immutable configuration.
package scx

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"

	scxapi "github.com/scx-dev/scx-go/internal/scx"
)

const (
	ProviderName = "scx"

	DefaultBaseURL = "https://api.scx.dev/v1"

	// APIKeyEnv is consulted when neither APIKey nor APIKeyFunc is set.
	APIKeyEnv = "SCX_API_KEY"

	// MaxEmbeddingsPerCall is the upstream ceiling on inputs per embedding
	// request. It is advertised, not enforced locally.
	MaxEmbeddingsPerCall = 2048
)

type Config struct {
	// APIKey authenticates every request. Leave empty to use APIKeyFunc or
	// the SCX_API_KEY environment variable.
	APIKey string

	// APIKeyFunc, when set, is invoked freshly on every request so rotated
	// credentials take effect without reconstructing the client.
	APIKeyFunc func() (string, error)

	// BaseURL has any trailing slash stripped. Defaults to DefaultBaseURL.
	BaseURL string

	// Headers are added to every request across all three model families.
	Headers map[string]string

	// HTTPClient overrides the transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client wires the three model families to one shared configuration. It
// performs no network activity itself and is safe for concurrent use.
type Client struct {
	cfg  Config
	api  *scxapi.Provider
	chat *openai.Client
}

func NewClient(cfg Config) *Client {
	c := &Client{cfg: normalizeConfig(cfg)}
	c.api = scxapi.New(scxapi.Config{
		BaseURL:    c.cfg.BaseURL,
		ResolveKey: c.resolveKey,
		Headers:    c.cfg.Headers,
		HTTPClient: c.cfg.HTTPClient,
	})
	c.chat = newChatClient(c)
	return c
}

var defaultClient atomic.Pointer[Client]

func init() {
	defaultClient.Store(NewClient(Config{}))
}

// Configure replaces the package-level default client.
func Configure(cfg Config) {
	defaultClient.Store(NewClient(cfg))
}

func Chat(modelID string) *ChatModel { return defaultClient.Load().Chat(modelID) }

// Model is the top-level convenience accessor, equivalent to Chat.
func Model(modelID string) *ChatModel { return defaultClient.Load().Model(modelID) }

func Embedding(modelID string) *EmbeddingModel { return defaultClient.Load().Embedding(modelID) }

func Transcription(modelID string) *TranscriptionModel {
	return defaultClient.Load().Transcription(modelID)
}

func (c *Client) Chat(modelID string) *ChatModel {
	mustModelID(modelID)
	return &ChatModel{modelID: modelID, client: c.chat}
}

func (c *Client) Model(modelID string) *ChatModel { return c.Chat(modelID) }

func (c *Client) Embedding(modelID string) *EmbeddingModel {
	mustModelID(modelID)
	return &EmbeddingModel{modelID: modelID, api: c.api}
}

func (c *Client) Transcription(modelID string) *TranscriptionModel {
	mustModelID(modelID)
	return &TranscriptionModel{modelID: modelID, api: c.api}
}

func (c *Client) Config() Config { return c.cfg }

// resolveKey runs on every request; the result is never cached.
func (c *Client) resolveKey() (string, error) {
	if c.cfg.APIKeyFunc != nil {
		return c.cfg.APIKeyFunc()
	}
	if c.cfg.APIKey != "" {
		return c.cfg.APIKey, nil
	}
	if v := os.Getenv(APIKeyEnv); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("API key is missing: set Config.APIKey, Config.APIKeyFunc, or %s", APIKeyEnv)
}

func mustModelID(modelID string) {
	if modelID == "" {
		panic("scx: model id is required")
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return cfg
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
