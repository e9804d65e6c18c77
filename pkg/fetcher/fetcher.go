package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent identifies the crawler as a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0.4664.45 Safari/537.36"

// ErrFetch wraps every transport-level failure.
var ErrFetch = errors.New("fetch failed")

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Result, error)
}

// Result is a successfully completed GET, whatever its status code.
type Result struct {
	StatusCode int
	Elapsed    time.Duration
	Body       []byte
}

// Options controls HTTP fetching behaviour.
type Options struct {
	UserAgent string
	// Timeout of zero leaves the transport defaults in place.
	Timeout time.Duration
	// InsecureSkipVerify disables certificate and hostname checks so that
	// self-signed and misconfigured sites can still be crawled.
	InsecureSkipVerify bool
}

// DefaultOptions mirrors the crawler defaults: browser user agent, no timeout,
// TLS verification off.
func DefaultOptions() Options {
	return Options{
		UserAgent:          DefaultUserAgent,
		InsecureSkipVerify: true,
	}
}

// HTTPFetcher implements Fetcher via the Go http.Client.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher constructs an HTTP fetcher using the provided options.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: opts.InsecureSkipVerify, //nolint:gosec // opt-in leniency for arbitrary sites
	}

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: opts.UserAgent,
	}
}

// Fetch performs one GET against pageURL. Non-2xx responses are still results;
// only transport failures are returned as errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetch, err)
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Elapsed:    time.Since(start),
		Body:       body,
	}, nil
}

// Client exposes the underlying HTTP client.
func (f *HTTPFetcher) Client() *http.Client {
	return f.client
}
