// Package api provides low-level HTTP transport for InsightIDR API calls.
package api

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tphakala/go-insightidr/internal/auth"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 32 * 1024 * 1024 // 32MB

	tracerName = "github.com/tphakala/go-insightidr"
)

// Transport handles HTTP communication with the InsightIDR API.
// It is immutable after construction and safe for concurrent use.
type Transport struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials *auth.Credentials
	Timeout     time.Duration
}

// NewTransport creates a Transport with the given configuration.
// Trailing slashes are stripped from baseURL.
func NewTransport(baseURL string, creds *auth.Credentials, httpClient *http.Client, timeout time.Duration) (*Transport, error) {
	if !creds.Valid() {
		return nil, fmt.Errorf("credentials must carry an API key")
	}

	normalized := strings.TrimRight(baseURL, "/")
	u, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Transport{
		BaseURL:     normalized,
		HTTPClient:  httpClient,
		Credentials: creds,
		Timeout:     timeout,
	}, nil
}

// Request describes a single API call. It is never reused after dispatch.
type Request struct {
	Method string
	Path   string
	Query  *Query
	Body   any
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
	Headers    http.Header
}

// TimeoutError reports that the per-call timeout elapsed before a response was read.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %dms", e.Timeout.Milliseconds())
}

// Unwrap returns context.DeadlineExceeded.
func (e *TimeoutError) Unwrap() error {
	return context.DeadlineExceeded
}

// Do executes an API request and returns the raw response.
// The timeout covers both the round trip and reading the body; its timer is
// released on every return path.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "insightidr.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		),
	)
	defer span.End()

	resp, err := t.do(ctx, req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
			err = &TimeoutError{Timeout: t.Timeout}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}

func (t *Transport) do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := t.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	httpResp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	// Limit response body size to prevent memory exhaustion
	limitedReader := io.LimitReader(httpResp.Body, defaultMaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if int64(len(body)) > defaultMaxBodySize {
		return nil, fmt.Errorf("response too large: exceeds %d bytes", defaultMaxBodySize)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     statusText(httpResp),
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

// URL returns the absolute URL for req.
func (t *Transport) URL(req *Request) string {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := t.BaseURL + path
	if q := req.Query.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func (t *Transport) buildRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.URL(req), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	t.Credentials.Apply(httpReq)

	return httpReq, nil
}

// statusText strips the numeric code from resp.Status ("404 Not Found" -> "Not Found").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
