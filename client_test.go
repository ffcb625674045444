package insightidr_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-insightidr"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc, opts ...insightidr.ClientOption) *insightidr.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]insightidr.ClientOption{
		insightidr.WithBaseURL(server.URL),
		insightidr.WithAPIKey("test-api-key"),
	}, opts...)

	client, err := insightidr.NewClient(opts...)
	require.NoError(t, err)

	return client
}

func TestNewClient(t *testing.T) {
	t.Run("success with required options", func(t *testing.T) {
		client, err := insightidr.NewClient(
			insightidr.WithBaseURL("https://us.api.insight.rapid7.com"),
			insightidr.WithAPIKey("api-key"),
		)
		require.NoError(t, err)
		assert.NotNil(t, client.Investigations)
		assert.NotNil(t, client.Alerts)
		assert.NotNil(t, client.Assets)
		assert.NotNil(t, client.Users)
		assert.NotNil(t, client.Threats)
		assert.NotNil(t, client.LogSearch)
		assert.NotNil(t, client.SavedQueries)
		assert.Equal(t, "https://us.api.insight.rapid7.com", client.BaseURL())
		assert.Equal(t, 30*time.Second, client.Timeout())
	})

	t.Run("normalizes trailing slashes", func(t *testing.T) {
		client, err := insightidr.NewClient(
			insightidr.WithBaseURL("https://us.api.example.com///"),
			insightidr.WithAPIKey("api-key"),
		)
		require.NoError(t, err)
		assert.Equal(t, "https://us.api.example.com", client.BaseURL())
	})

	t.Run("error without base URL", func(t *testing.T) {
		_, err := insightidr.NewClient(insightidr.WithAPIKey("api-key"))
		assert.ErrorIs(t, err, insightidr.ErrNoBaseURL)
	})

	t.Run("error without API key", func(t *testing.T) {
		_, err := insightidr.NewClient(insightidr.WithBaseURL("https://us.api.insight.rapid7.com"))
		assert.ErrorIs(t, err, insightidr.ErrNoCredentials)
	})

	t.Run("error with non-positive timeout", func(t *testing.T) {
		_, err := insightidr.NewClient(
			insightidr.WithBaseURL("https://us.api.insight.rapid7.com"),
			insightidr.WithAPIKey("api-key"),
			insightidr.WithTimeout(0),
		)
		assert.ErrorIs(t, err, insightidr.ErrInvalidTimeout)
	})

	t.Run("error with relative base URL", func(t *testing.T) {
		_, err := insightidr.NewClient(
			insightidr.WithBaseURL("not a url"),
			insightidr.WithAPIKey("api-key"),
		)
		require.Error(t, err)
	})

	t.Run("success with all options", func(t *testing.T) {
		client, err := insightidr.NewClient(
			insightidr.WithBaseURL("https://eu.api.insight.rapid7.com"),
			insightidr.WithAPIKey("api-key"),
			insightidr.WithTimeout(5*time.Second),
			insightidr.WithHTTPClient(&http.Client{}),
			insightidr.WithLogger(zerolog.Nop()),
		)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.Timeout())
	})
}
