package fastset

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	apiBaseHost = "https://wallet.fastset.xyz/api/"

	defaultTimeout = 30 * time.Second
)

// Client talks to the FastSet wallet API. It is safe for concurrent use.
type Client struct {
	baseHost   string
	httpclient *http.Client
	logger     Logger
	hooks      []Hook
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the timeout of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpclient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying http.Client, e.g. to route through a proxy.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpclient = httpClient
		}
	}
}

// WithHooks registers request hooks, called in order.
func WithHooks(hooks ...Hook) Option {
	return func(c *Client) {
		c.hooks = append(c.hooks, hooks...)
	}
}

// WithRateLimit caps outgoing requests to rps per second. Zero or negative disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient returns a client for the FastSet testnet wallet API, the only public endpoint.
func NewClient() *Client {
	return newClientInternal(apiBaseHost)
}

func NewClientWithOpts(opts ...Option) *Client {
	return newClientInternal(apiBaseHost, opts...)
}

// NewClientWithBaseURL returns a client for an arbitrary API base, e.g. a local node.
func NewClientWithBaseURL(baseURL string, opts ...Option) *Client {
	return newClientInternal(baseURL, opts...)
}

func newClientInternal(baseHost string, opts ...Option) *Client {
	c := &Client{
		baseHost:   normalizeBase(baseHost),
		httpclient: &http.Client{Timeout: defaultTimeout},
		logger:     nopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base the client sends requests to.
func (client *Client) BaseURL() string {
	return client.baseHost
}

func normalizeBase(base string) string {
	if base == "" {
		return apiBaseHost
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
