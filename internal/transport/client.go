package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Default client settings.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
	DefaultUserAgent   = "pepaudit/1.0"
	maxRedirects       = 10
)

// Response is a fully read HTTP response.
type Response struct {
	// URL is the final URL after redirects. Relative links in Body resolve against it.
	URL string

	// StatusCode is the HTTP status code.
	StatusCode int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body.
	Body []byte

	// FetchedAt is when the response was received from the network.
	FetchedAt time.Time

	// FromCache reports whether the response was served from the cache.
	FromCache bool
}

// Client fetches URLs over HTTP, consulting the response cache first.
// A Client is safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	cache        *Cache
	userAgent    string
	headers      map[string]string
	maxBodySize  int64
	timeout      time.Duration
	proxyAddress string
	logger       *slog.Logger

	// requests counts requests that reached the network.
	requests atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithCache enables the response cache.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the default body size limit in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithProxy routes requests through the SOCKS5 proxy at addr ("host:port").
func WithProxy(addr string) Option {
	return func(c *Client) {
		c.proxyAddress = addr
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
// Timeout and proxy options are ignored when it is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Client. It fails only when the proxy cannot be configured.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		userAgent:   DefaultUserAgent,
		headers:     make(map[string]string),
		maxBodySize: DefaultMaxBodySize,
		timeout:     DefaultTimeout,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		hc, err := c.newHTTPClient()
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}

	c.logger.Debug("http client ready",
		"user_agent", c.userAgent,
		"timeout", c.timeout,
		"proxy_url", c.proxyAddress,
		"cache", c.cache != nil,
	)
	for k, v := range c.headers {
		c.logger.Debug("extra request header", k, v)
	}

	return c, nil
}

func (c *Client) newHTTPClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	if c.proxyAddress != "" {
		dial, err := socks5DialContext(c.proxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		transport.DialContext = dial
	}

	return &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// Requests returns how many requests reached the network so far.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

type fetchOptions struct {
	useCache    bool
	maxBodySize int64
}

// FetchOption configures a single Fetch call.
type FetchOption func(*fetchOptions)

// WithoutCache makes the request go to the network and leaves the cache untouched.
func WithoutCache() FetchOption {
	return func(o *fetchOptions) {
		o.useCache = false
	}
}

// WithBodyLimit overrides the body size limit for one request.
func WithBodyLimit(size int64) FetchOption {
	return func(o *fetchOptions) {
		o.maxBodySize = size
	}
}

// Fetch performs a GET request for rawURL.
//
// A cached response is returned when available. Otherwise the request goes to
// the network; a non-2xx status, a transport failure or a body larger than
// the limit is returned as a *FetchError. Responses with status 200 are
// written to the cache. Cache failures are logged and never fail the fetch.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts ...FetchOption) (*Response, error) {
	fo := fetchOptions{useCache: true, maxBodySize: c.maxBodySize}
	for _, opt := range opts {
		opt(&fo)
	}

	useCache := c.cache != nil && fo.useCache
	key := CacheKey(http.MethodGet, rawURL)

	if useCache {
		resp, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn("cache read failed", "url", rawURL, "error", err)
		case ok:
			c.logger.Debug("cache hit", "url", rawURL, "cache_key", key)
			return resp, nil
		}
	}

	resp, err := c.get(ctx, rawURL, fo.maxBodySize)
	if err != nil {
		return nil, err
	}

	if useCache && resp.StatusCode == http.StatusOK {
		if err := c.cache.Put(ctx, key, resp); err != nil {
			c.logger.Warn("cache write failed", "url", rawURL, "error", err)
		}
	}

	return resp, nil
}

func (c *Client) get(ctx context.Context, rawURL string, limit int64) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.requests.Add(1)
	c.logger.Debug("fetching", "url", rawURL)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        rawURL,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("%w: %s", ErrUnexpectedStatus, httpResp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, limit+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, StatusCode: httpResp.StatusCode, Err: err}
	}
	if int64(len(body)) > limit {
		return nil, &FetchError{URL: rawURL, StatusCode: httpResp.StatusCode, Err: ErrBodyTooLarge}
	}

	finalURL := rawURL
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		finalURL = httpResp.Request.URL.String()
	}

	return &Response{
		URL:         finalURL,
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}, nil
}
