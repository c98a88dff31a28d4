// Package scx implements the wire translators for the SCX inference API.
// Each translator performs exactly one outbound HTTP call per request; all
// failures surface immediately and nothing is retried here.
package scx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/scx-dev/scx-go/internal/provider"
)

const providerName = "scx"

type Config struct {
	BaseURL string

	// ResolveKey is invoked on every request, never cached, so a rotated
	// credential takes effect on the next call.
	ResolveKey func() (string, error)

	Headers    map[string]string
	HTTPClient *http.Client
}

type Provider struct {
	cfg Config
}

func New(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// headers builds the outbound header set: Content-Type first, then the
// configured headers with a freshly resolved bearer token, then per-call
// headers. A per-call entry with an empty value is an unset marker and is
// skipped rather than sent blank.
func (p *Provider) headers(callHeaders map[string]string) (http.Header, error) {
	key, err := p.cfg.ResolveKey()
	if err != nil {
		return nil, &provider.Error{Provider: providerName, Code: "config_error", Message: err.Error(), Cause: err}
	}

	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Authorization", "Bearer "+key)
	for k, v := range p.cfg.Headers {
		h.Set(k, v)
	}
	for k, v := range callHeaders {
		if v == "" {
			continue
		}
		h.Set(k, v)
	}
	return h, nil
}

func (p *Provider) endpointURL(path string) (string, error) {
	base := strings.TrimRight(p.cfg.BaseURL, "/")
	u, err := url.Parse(base + path)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func shouldRetryStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		(status >= 500 && status <= 599)
}

func classifyNetworkErr(err error) (code string, retryable bool) {
	if err == nil {
		return "network_error", false
	}
	if errors.Is(err, context.Canceled) {
		return "canceled", false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout", true
	}
	return "network_error", true
}
