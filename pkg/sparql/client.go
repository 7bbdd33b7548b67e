package sparql

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the Wikidata Query Service endpoint.
	DefaultEndpoint = "https://query.wikidata.org/sparql"

	// DefaultTimeout is the default request timeout. The Wikidata Query
	// Service itself aborts queries after 60 seconds.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "giztoy-wikifacts-go/1.0"
)

// Client is a SPARQL endpoint client.
type Client struct {
	config *clientConfig
	http   *httpClient
}

// clientConfig holds the client configuration.
type clientConfig struct {
	endpoint   string
	token      string
	userAgent  string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option is a function that configures the client.
type Option func(*clientConfig)

// WithEndpoint sets the query endpoint URL.
func WithEndpoint(url string) Option {
	return func(c *clientConfig) {
		c.endpoint = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout. It is ignored when a custom HTTP
// client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header. Wikimedia endpoints reject
// generic agents, so set one that identifies your tool.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithBearerToken sets a token sent as "Authorization: Bearer <token>".
// Public endpoints do not need it.
func WithBearerToken(token string) Option {
	return func(c *clientConfig) {
		c.token = token
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// NewClient creates a new SPARQL client.
//
// Example:
//
//	client := sparql.NewClient()
//	client := sparql.NewClient(sparql.WithEndpoint("https://dbpedia.org/sparql"))
func NewClient(opts ...Option) *Client {
	cfg := &clientConfig{
		endpoint:  DefaultEndpoint,
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{
			Timeout: cfg.timeout,
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.config.endpoint
}
