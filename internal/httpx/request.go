package httpx

import (
	"bytes"
	"context"
	"net/http"
)

// Do sends a single HTTP request with a buffered body. Cancellation rides on
// ctx; there are no retries and no timeout beyond what the client or caller
// enforces. Callers must close the returned response body.
func Do(ctx context.Context, client *http.Client, method, url string, body []byte, headers http.Header) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header = headers.Clone()

	return client.Do(req)
}
