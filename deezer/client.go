package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "https://api.deezer.com"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "deezer-mcp/1.0"

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 8 << 20
)

// Transport is the one capability resource clients need from the catalog.
type Transport interface {
	// Search runs GET search/<resource> and returns the undecoded page.
	Search(ctx context.Context, resource string, params url.Values) (*Page, error)
	// Fetch runs GET <resource>/<id> and returns the undecoded object.
	Fetch(ctx context.Context, resource string, id int64) (json.RawMessage, error)
}

// Page is a search response before schema validation.
type Page struct {
	Data  []json.RawMessage
	Total int
	Next  string
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	DefaultParams url.Values
	UserAgent     string
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// Client issues requests against the catalog API. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	timeout    time.Duration
	defaults   url.Values
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Transport = (*Client)(nil)

// ParseBaseURL checks that raw is an absolute http(s) URL.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return u, nil
}

// NewClient creates a catalog client. It fails only when the base URL is
// unusable.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := ParseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	defaults := url.Values{}
	for k, v := range opts.DefaultParams {
		defaults[k] = append([]string(nil), v...)
	}

	return &Client{
		baseURL:    base,
		timeout:    opts.Timeout,
		defaults:   defaults,
		userAgent:  opts.UserAgent,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}, nil
}

// BaseURL returns the configured catalog root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Search implements Transport.
func (c *Client) Search(ctx context.Context, resource string, params url.Values) (*Page, error) {
	op := "search/" + resource
	body, err := c.get(ctx, op, op, params)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data  *[]json.RawMessage `json:"data"`
		Total *int               `json:"total"`
		Next  string             `json:"next"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &APIError{Op: op, Kind: ErrDecode, Err: err}
	}
	if envelope.Data == nil {
		return nil, &APIError{Op: op, Kind: ErrDecode, Err: errors.New("response has no data array")}
	}

	page := &Page{
		Data:  *envelope.Data,
		Total: len(*envelope.Data),
		Next:  envelope.Next,
	}
	if envelope.Total != nil {
		page.Total = *envelope.Total
	}
	return page, nil
}

// Fetch implements Transport.
func (c *Client) Fetch(ctx context.Context, resource string, id int64) (json.RawMessage, error) {
	return c.get(ctx, resource, resource+"/"+strconv.FormatInt(id, 10), nil)
}

// errorEnvelope is how the catalog reports failures, often with HTTP 200.
type errorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// get performs exactly one GET and returns the JSON body.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL.JoinPath(path)
	query := url.Values{}
	for k, v := range c.defaults {
		query[k] = v
	}
	for k, v := range params {
		query[k] = v
	}
	u.RawQuery = query.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &APIError{Op: op, Kind: ErrTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Catalog request failed",
			zap.String("op", op),
			zap.String("url", u.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, &APIError{Op: op, Kind: ErrTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &APIError{Op: op, Kind: ErrTransport, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("Catalog request",
		zap.String("op", op),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	var envelope errorEnvelope
	hasEnvelope := json.Unmarshal(body, &envelope) == nil && envelope.Error != nil

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Kind: ErrStatus, StatusCode: resp.StatusCode}
		if hasEnvelope {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return nil, apiErr
	}

	if !json.Valid(body) {
		return nil, &APIError{
			Op:         op,
			Kind:       ErrDecode,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response is not valid JSON (content type %q)", resp.Header.Get("Content-Type")),
		}
	}

	if hasEnvelope {
		return nil, &APIError{
			Op:         op,
			Kind:       ErrUpstream,
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}

	return body, nil
}
