package valutatrade

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// contains http utils to deal with remote services

// providerRPS bounds how fast the updater may hit the external rate APIs,
// keeping repeated runs inside their free-tier quotas.
const providerRPS = 5

// throttledTransport applies a shared rate limit to outgoing requests.
type throttledTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient returns the client all providers share: the config's request
// timeout and a provider-friendly request rate.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &throttledTransport{
			base:    http.DefaultTransport,
			limiter: rate.NewLimiter(rate.Limit(providerRPS), providerRPS),
		},
	}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the
// provided data structure. The returned metadata feeds the fetch history.
func jwget(ctx context.Context, client *http.Client, addr string, data interface{}) (FetchMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return FetchMeta{}, err
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return FetchMeta{}, err
	}
	defer resp.Body.Close()

	meta := FetchMeta{
		RequestMS:  time.Since(start).Milliseconds(),
		StatusCode: resp.StatusCode,
		ETag:       resp.Header.Get("ETag"),
	}
	if resp.StatusCode != 200 {
		return meta, fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, resp.Body); err != nil {
		return meta, err
	}
	return meta, json.Unmarshal(buf.Bytes(), data)
}
