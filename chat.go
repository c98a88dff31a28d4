package scx

import (
	"context"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// newChatClient builds the delegate OpenAI-compatible client for chat
// completion. It shares the base URL and transport with the two translators;
// authentication and extra headers are injected per request by authTransport
// so that all three model families behave as one endpoint and key rotation is
// observed without reconstructing the client.
func newChatClient(c *Client) *openai.Client {
	cfg := openai.DefaultConfig("")
	cfg.BaseURL = c.cfg.BaseURL
	cfg.HTTPClient = &http.Client{
		Transport: &authTransport{
			base:       baseTransport(c.cfg.HTTPClient),
			resolveKey: c.resolveKey,
			headers:    c.cfg.Headers,
		},
		Timeout: c.cfg.HTTPClient.Timeout,
	}
	return openai.NewClientWithConfig(cfg)
}

type authTransport struct {
	base       http.RoundTripper
	resolveKey func() (string, error)
	headers    map[string]string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	key, err := t.resolveKey()
	if err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+key)
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}

func baseTransport(client *http.Client) http.RoundTripper {
	if client != nil && client.Transport != nil {
		return client.Transport
	}
	return http.DefaultTransport
}

// ChatModel delegates chat completion to the OpenAI-compatible client bound
// to this provider's configuration. No translation happens here beyond
// forcing the bound model id; requests and responses are the delegate's own
// types.
type ChatModel struct {
	modelID string
	client  *openai.Client
}

func (m *ChatModel) Provider() string       { return ProviderName }
func (m *ChatModel) ModelID() string        { return m.modelID }
func (m *ChatModel) Client() *openai.Client { return m.client }

func (m *ChatModel) Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	req.Model = m.modelID
	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return resp, mapChatError(err)
	}
	return resp, nil
}

func (m *ChatModel) Stream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error) {
	req.Model = m.modelID
	stream, err := m.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, mapChatError(err)
	}
	return stream, nil
}
