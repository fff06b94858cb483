package omdb

import (
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

	"github.com/s0up4200/moviefinder/metrics"
)

// Operation names, used for logging and metrics labels.
const (
	OperationGet    = "get"
	OperationSearch = "search"
	OperationDetail = "detail"
	OperationPing   = "ping"
)

// pingID is a title every OMDb key can resolve (The Matrix).
const pingID = "tt0133093"

// Client represents an OMDb API client
type Client struct {
	baseURL    *url.URL
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client. The API key is sent with every
// request; an empty key is accepted and left for OMDb to reject.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	o := clientOptions{
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	base, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be an absolute http(s) URL", ErrInvalidConfig, o.baseURL)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:    base,
		apiKey:     apiKey,
		userAgent:  o.userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SearchByTitle searches OMDb for titles matching the given term.
func (c *Client) SearchByTitle(ctx context.Context, title string) (json.RawMessage, error) {
	return c.get(ctx, OperationSearch, url.Values{"s": {title}})
}

// GetByID fetches the full record for an IMDb identifier.
func (c *Client) GetByID(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, OperationDetail, url.Values{"i": {id}})
}

// Get issues one request with the given query parameters plus the API key
// and returns the response body as-is.
func (c *Client) Get(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, OperationGet, params)
}

// Ping verifies the API key by fetching a well-known title. Unlike the
// lookup methods it inspects the payload and fails on an OMDb-level error.
func (c *Client) Ping(ctx context.Context) error {
	body, err := c.get(ctx, OperationPing, url.Values{"i": {pingID}})
	if err != nil {
		return err
	}

	var status struct {
		Response string `json:"Response"`
		Error    string `json:"Error"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return &UpstreamError{
			StatusCode: http.StatusOK,
			Message:    ErrInvalidJSON.Error(),
			Err:        fmt.Errorf("%w: %v", ErrInvalidJSON, err),
		}
	}
	if strings.EqualFold(status.Response, "False") {
		return fmt.Errorf("%w: %s", ErrNotFound, status.Error)
	}

	return nil
}

func (c *Client) get(ctx context.Context, operation string, params url.Values) (body json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(operation, time.Since(start), err)
	}()

	query := make(url.Values, len(params)+1)
	for k, vs := range params {
		query[k] = append([]string(nil), vs...)
	}
	query.Set("apikey", c.apiKey)

	u := *c.baseURL
	u.RawQuery = query.Encode()

	c.logger.Debug().
		Str("operation", operation).
		Str("url", redact(u)).
		Msg("Making OMDb API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &UpstreamError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body: " + transportMessage(err),
			Err:        err,
		}
	}

	c.logger.Debug().
		Str("operation", operation).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("took", time.Since(start)).
		Msg("OMDb API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("request failed with status code %d", resp.StatusCode)
		if detail := errorText(data); detail != "" {
			msg += ": " + detail
		}
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        ErrUpstreamStatus,
		}
	}

	if !json.Valid(data) {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    ErrInvalidJSON.Error(),
			Err:        ErrInvalidJSON,
		}
	}

	return json.RawMessage(data), nil
}

// transportMessage drops the *url.Error wrapper, whose text embeds the
// request URL and therefore the API key.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// errorText pulls OMDb's "Error" field out of a failure body, if present.
func errorText(data []byte) string {
	var payload struct {
		Error string `json:"Error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Error
}

func redact(u url.URL) string {
	q := u.Query()
	if q.Has("apikey") {
		q.Set("apikey", "REDACTED")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
