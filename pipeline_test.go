package insightidr_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-insightidr"
)

func TestClient_Do(t *testing.T) {
	t.Run("builds URL, headers and body", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/idr/v2/things", r.URL.Path)
			assert.Equal(t, "a=x&c=3&d=false", r.URL.RawQuery)
			assert.Equal(t, "test-api-key", r.Header.Get("X-Api-Key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.JSONEq(t, `{"k":"v"}`, string(body))

			_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
		})

		var absent *string
		raw, err := client.Do(context.Background(), &insightidr.Request{
			Method: http.MethodPost,
			Path:   "/idr/v2/things",
			Query:  insightidr.NewQuery().Set("a", "x").Set("b", absent).Set("c", 3).Set("d", false),
			Body:   map[string]string{"k": "v"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":{"id":"1"}}`, string(raw))
	})

	t.Run("base URL with trailing slashes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/idr/v2/alerts", r.URL.Path)
			assert.Equal(t, "/idr/v2/alerts", r.RequestURI)
			_, _ = w.Write([]byte(`{}`))
		}))
		t.Cleanup(server.Close)

		client, err := insightidr.NewClient(
			insightidr.WithBaseURL(server.URL+"///"),
			insightidr.WithAPIKey("k"),
		)
		require.NoError(t, err)

		_, err = client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/idr/v2/alerts"})
		require.NoError(t, err)
	})

	t.Run("204 decodes to empty object", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		raw, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodPatch, Path: "/x"})
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(raw))
	})

	t.Run("invalid JSON on success is not classified", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/x"})
		require.Error(t, err)
		_, classified := insightidr.AsError(err)
		assert.False(t, classified)
	})

	t.Run("auth failures", func(t *testing.T) {
		for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"message":"bad key"}`))
			})

			_, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/x"})
			apiErr, ok := insightidr.AsError(err)
			require.True(t, ok)
			assert.Equal(t, insightidr.KindAuth, apiErr.Kind)
			assert.Equal(t, status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Message, "bad key")
		}
	})

	t.Run("rate limited with retry-after", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/x"})
		apiErr, ok := insightidr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, insightidr.KindRateLimit, apiErr.Kind)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		seconds, ok := apiErr.RetryAfterSeconds()
		assert.True(t, ok)
		assert.Equal(t, 30, seconds)
	})

	t.Run("rate limited with zero retry-after", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/x"})
		apiErr, ok := insightidr.AsError(err)
		require.True(t, ok)
		seconds, ok := apiErr.RetryAfterSeconds()
		assert.True(t, ok)
		assert.Equal(t, 0, seconds)
	})

	t.Run("rate limited without retry-after", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/x"})
		apiErr, ok := insightidr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, insightidr.KindRateLimit, apiErr.Kind)
		_, ok = apiErr.RetryAfterSeconds()
		assert.False(t, ok)
	})

	t.Run("generic failures", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			})

			_, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/x"})
			apiErr, ok := insightidr.AsError(err)
			require.True(t, ok)
			assert.Equal(t, insightidr.KindGeneric, apiErr.Kind)
			assert.Equal(t, status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Error(), http.StatusText(status))
			assert.Contains(t, apiErr.Message, fmt.Sprint(status))
		}
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			server.Close()
		})

		client, err := insightidr.NewClient(
			insightidr.WithBaseURL(server.URL),
			insightidr.WithAPIKey("k"),
			insightidr.WithTimeout(75*time.Millisecond),
		)
		require.NoError(t, err)

		_, err = client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/slow"})
		apiErr, ok := insightidr.AsError(err)
		require.True(t, ok)
		assert.Equal(t, insightidr.KindGeneric, apiErr.Kind)
		assert.Equal(t, 0, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "75ms")
		assert.True(t, insightidr.IsTimeout(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("transport failure propagates unclassified", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		client, err := insightidr.NewClient(insightidr.WithBaseURL(url), insightidr.WithAPIKey("k"))
		require.NoError(t, err)

		_, err = client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/x"})
		require.Error(t, err)
		_, classified := insightidr.AsError(err)
		assert.False(t, classified)
	})

	t.Run("caller cancellation propagates unclassified", func(t *testing.T) {
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Do(ctx, &insightidr.Request{Method: http.MethodGet, Path: "/x"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.False(t, insightidr.IsTimeout(err))
	})

	t.Run("logs each request", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
		client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}, insightidr.WithLogger(logger))

		_, err := client.Do(context.Background(), &insightidr.Request{Method: http.MethodGet, Path: "/logged"})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"path":"/logged"`)
		assert.Contains(t, buf.String(), `"status":200`)
	})
}
