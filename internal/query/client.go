// Package query talks to the course administration API.
//
// The Client issues the two remote operations the view needs: fetching one page
// of courses for a filter, and counting the courses matching a filter. Both are
// plain request/response POSTs with JSON bodies. The client keeps no state
// between calls: no retries, no caching.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/coursedesk/internal/course"
	"github.com/rshade/coursedesk/internal/logging"
	"github.com/rshade/coursedesk/pkg/version"
)

// Endpoint paths relative to the API base URL.
const (
	PaginationPath = "course/pagination"
	CountPath      = "course/count"
)

// Operation names used in errors and logs.
const (
	OpPagination = "pagination"
	OpCount      = "count"
)

// DefaultTimeout bounds a single remote call when none is configured.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response body is kept for logging.
const maxErrorBody = 512

// ErrInvalidBaseURL is returned by NewClient for unusable base URLs.
var ErrInvalidBaseURL = errors.New("invalid API base URL")

// Request is the body sent to the pagination endpoint.
type Request struct {
	Where      course.Filter `json:"where"`
	PageNumber int           `json:"pageNumber"`
	PageSize   int           `json:"pageSize"`
}

// Page is one page of results. Data keeps the server's order. Any other
// top-level fields the server sends (pagination metadata) are kept in Extra
// untouched.
type Page struct {
	Data  []course.Item
	Extra map[string]json.RawMessage
}

// UnmarshalJSON splits the "data" array from the remaining metadata fields.
func (p *Page) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("page response is not a JSON object")
	}

	p.Data = []course.Item{}
	if data, ok := raw["data"]; ok {
		// Numbers stay json.Number so large ids survive re-encoding.
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var items []course.Item
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("decoding data: %w", err)
		}
		if items != nil {
			p.Data = items
		}
		delete(raw, "data")
	}
	p.Extra = raw
	return nil
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.example.com/api/".
	BaseURL string

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the transport. Nil means a fresh http.Client.
	HTTPClient *http.Client

	// Logger receives failure and debug logs. Nil disables logging.
	Logger *zerolog.Logger
}

// Client performs the remote course queries.
type Client struct {
	paginationURL string
	countURL      string
	timeout       time.Duration
	http          *http.Client
	logger        zerolog.Logger
}

// NewClient validates opts and builds a Client.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, opts.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrInvalidBaseURL, opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = logging.ComponentLogger(*opts.Logger, "query")
	}

	return &Client{
		paginationURL: base.JoinPath(PaginationPath).String(),
		countURL:      base.JoinPath(CountPath).String(),
		timeout:       timeout,
		http:          httpClient,
		logger:        logger,
	}, nil
}

// FetchPage fetches one page of courses. On failure it logs the error and
// returns a nil page together with a *NetworkError.
func (c *Client) FetchPage(ctx context.Context, req Request) (*Page, error) {
	var page Page
	if err := c.post(ctx, OpPagination, c.paginationURL, req, &page); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Ctx(ctx).
		Int("page_number", req.PageNumber).
		Int("page_size", req.PageSize).
		Int("items", len(page.Data)).
		Msg("fetched course page")
	return &page, nil
}

// Count returns the number of courses matching filter. On failure it logs the
// error and returns 0 together with a *NetworkError.
func (c *Client) Count(ctx context.Context, filter course.Filter) (int, error) {
	var n int64
	if err := c.post(ctx, OpCount, c.countURL, filter, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}

	c.logger.Debug().
		Ctx(ctx).
		Str("filter", filter.String()).
		Int64("count", n).
		Msg("counted courses")
	return int(n), nil
}

// post sends body as JSON to endpoint and decodes a 2xx response into out.
// Every failure is logged here and returned as a *NetworkError.
func (c *Client) post(ctx context.Context, op, endpoint string, body, out any) error {
	err := c.do(ctx, op, endpoint, body, out)
	if err != nil {
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			netErr = &NetworkError{Op: op, URL: endpoint, Err: err}
			err = netErr
		}
		level := zerolog.WarnLevel
		if ctx.Err() != nil {
			// The caller gave up; nobody is waiting for this answer.
			level = zerolog.DebugLevel
		}
		c.logger.WithLevel(level).
			Ctx(ctx).
			Str("operation", op).
			Str("url", endpoint).
			Int("status", netErr.StatusCode).
			Err(netErr.Err).
			Msg("course API request failed")
	}
	return err
}

func (c *Client) do(ctx context.Context, op, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", op, err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-ID", logging.NewID())

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var cause error
		if msg := strings.TrimSpace(string(snippet)); msg != "" {
			cause = errors.New(msg)
		}
		return &NetworkError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: cause}
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return &NetworkError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decoding response: %w", decodeErr),
		}
	}
	return nil
}
