package insightidr

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// WithBaseURL sets the InsightIDR API base URL, e.g. https://us.api.insight.rapid7.com.
// Trailing slashes are removed.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAPIKey sets the platform API key sent in the X-Api-Key header.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *clientConfig) {
		c.apiKey = apiKey
	}
}

// WithHTTPClient sets a custom HTTP client.
// Any Timeout on the provided client applies in addition to WithTimeout.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the wall-clock budget for each API call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for per-request debug logging.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
