package insightidr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tphakala/go-insightidr/internal/api"
)

// Request describes one API call: verb, path, optional query and optional JSON body.
type Request = api.Request

// Query is an ordered set of scalar query parameters. nil values are omitted.
type Query = api.Query

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return api.NewQuery()
}

// emptyObject is returned for 204 No Content responses.
var emptyObject = json.RawMessage(`{}`)

// pipeline executes requests and classifies their failures.
type pipeline struct {
	transport *api.Transport
	logger    zerolog.Logger
}

// do performs exactly one HTTP call for req.
func (p *pipeline) do(ctx context.Context, req *Request) (json.RawMessage, error) {
	start := time.Now()

	resp, err := p.transport.Do(ctx, req)
	if err != nil {
		p.logger.Debug().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Dur("duration", time.Since(start)).
			Msg("request failed")

		var timeoutErr *api.TimeoutError
		if errors.As(err, &timeoutErr) {
			return nil, newTimeoutError(timeoutErr)
		}
		return nil, err
	}

	p.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, classify(resp.StatusCode, resp.Status, resp.Headers, resp.Body)
	}

	if resp.StatusCode == http.StatusNoContent {
		return emptyObject, nil
	}

	var raw json.RawMessage
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, fmt.Errorf("decoding %s %s response: %w", req.Method, req.Path, err)
	}
	return raw, nil
}

// doJSON executes req and decodes the body into T.
func doJSON[T any](ctx context.Context, p *pipeline, req *Request) (*T, error) {
	raw, err := p.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding %s %s response: %w", req.Method, req.Path, err)
	}
	return &result, nil
}
