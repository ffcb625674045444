package insightidr

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tphakala/go-insightidr/internal/api"
	"github.com/tphakala/go-insightidr/internal/auth"
)

// Default configuration values.
const defaultTimeout = 30 * time.Second

// Client is the InsightIDR API client. It is immutable and safe for concurrent use.
type Client struct {
	// Investigations provides access to investigation operations.
	Investigations InvestigationService
	// Alerts provides access to alert operations.
	Alerts AlertService
	// Assets provides access to asset operations.
	Assets AssetService
	// Users provides access to user account operations.
	Users UserService
	// Threats provides access to threat indicator operations.
	Threats ThreatService
	// LogSearch provides access to LEQL log search.
	LogSearch LogSearchService
	// SavedQueries provides access to saved LEQL queries.
	SavedQueries SavedQueryService

	pipeline *pipeline
}

// NewClient creates a new InsightIDR client with the given options.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		timeout: defaultTimeout,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.baseURL == "" {
		return nil, ErrNoBaseURL
	}

	if cfg.apiKey == "" {
		return nil, ErrNoCredentials
	}

	if cfg.timeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	creds := &auth.Credentials{APIKey: cfg.apiKey}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	transport, err := api.NewTransport(cfg.baseURL, creds, httpClient, cfg.timeout)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		transport: transport,
		logger:    cfg.logger.With().Str("component", "insightidr").Logger(),
	}

	client := &Client{
		pipeline: p,
	}

	// Initialize services
	client.Investigations = &investigationService{p: p}
	client.Alerts = &alertService{p: p}
	client.Assets = &assetService{p: p}
	client.Users = &userService{p: p}
	client.Threats = &threatService{p: p}
	client.LogSearch = &logSearchService{p: p}
	client.SavedQueries = &savedQueryService{p: p}

	return client, nil
}

// BaseURL returns the configured API base URL without trailing slashes.
func (c *Client) BaseURL() string {
	return c.pipeline.transport.BaseURL
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.pipeline.transport.Timeout
}

// Do executes a single request and returns the decoded JSON body.
//
// A 204 response yields an empty JSON object. Non-success statuses and the
// per-call timeout are returned as *Error; any other transport failure is
// returned unclassified.
func (c *Client) Do(ctx context.Context, req *Request) (json.RawMessage, error) {
	return c.pipeline.do(ctx, req)
}
