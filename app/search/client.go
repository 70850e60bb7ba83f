package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Semior001/articleview/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"golang.org/x/exp/slog"
)

// DefaultEndpoint is the article search API endpoint.
const DefaultEndpoint = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

const apiKeyParam = "api-key"

// TransportError is returned when the search API could not be reached or
// responded with a non-2xx status.
type TransportError struct {
	StatusCode int // zero if no response was received
	Err        error
}

// Error implements error.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("search request failed: %v", e.Err)
	}
	return fmt.Sprintf("search request failed with status %d: %v", e.StatusCode, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// ClientOpts defines parameters of the search API client.
type ClientOpts struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client fetches raw search responses.
type Client struct {
	log      *slog.Logger
	rq       *requester.Requester
	endpoint string
	apiKey   string
}

// NewClient makes a new search API client.
func NewClient(lg *slog.Logger, opts ClientOpts) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}

	rq := requester.New(http.Client{Timeout: opts.Timeout},
		middleware.Header("Accept", "application/json"),
		middleware.Header("User-Agent", "articleview"),
		logx.LoggingRoundTripper(lg, logx.RoundTripperOpts{
			Level:             slog.LevelDebug,
			SecretQueryParams: []string{apiKeyParam},
		}),
	)

	return &Client{
		log:      lg,
		rq:       rq,
		endpoint: opts.Endpoint,
		apiKey:   opts.APIKey,
	}
}

// Fetch sends a single search request and returns the response body.
// Any failure is returned as *TransportError.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("parse endpoint: %w", err)}
	}

	q := u.Query()
	q.Set(apiKeyParam, c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := c.rq.Do(req)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("do request: %w", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WarnCtx(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: errors.New("bad status code")}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	return body, nil
}
