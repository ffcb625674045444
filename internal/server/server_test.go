package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-insightidr"
	"github.com/tphakala/go-insightidr/internal/server"
	"github.com/tphakala/go-insightidr/internal/tools"
)

func setupServer(t *testing.T, handler http.HandlerFunc) (*server.Server, *server.Metrics) {
	t.Helper()
	if handler == nil {
		handler = http.NotFound
	}
	api := httptest.NewServer(handler)
	t.Cleanup(api.Close)

	client, err := insightidr.NewClient(insightidr.WithBaseURL(api.URL), insightidr.WithAPIKey("k"))
	require.NoError(t, err)

	metrics := server.NewMetrics()
	ts := tools.New(client, tools.WithRecorder(metrics))
	return server.New(ts, "test", zerolog.Nop()), metrics
}

// rpc sends one JSON-RPC message and returns the decoded "result" member.
func rpc(t *testing.T, s *server.Server, id int, method string, params any) map[string]any {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.MCP().HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var out struct {
		Result map[string]any `json:"result"`
		Error  map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Nil(t, out.Error, string(raw))
	return out.Result
}

func initialize(t *testing.T, s *server.Server) map[string]any {
	return rpc(t, s, 1, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"clientInfo":      map[string]any{"name": "test", "version": "1"},
		"capabilities":    map[string]any{},
	})
}

func TestServer_Initialize(t *testing.T) {
	s, _ := setupServer(t, nil)

	res := initialize(t, s)

	info := res["serverInfo"].(map[string]any)
	assert.Equal(t, server.Name, info["name"])
	assert.Equal(t, "test", info["version"])
	caps := res["capabilities"].(map[string]any)
	assert.Contains(t, caps, "tools")
	assert.Contains(t, caps, "resources")
}

func TestServer_ListTools(t *testing.T) {
	s, _ := setupServer(t, nil)
	initialize(t, s)

	res := rpc(t, s, 2, "tools/list", map[string]any{})

	listed := res["tools"].([]any)
	assert.Len(t, listed, 27)
}

func TestServer_CallTool(t *testing.T) {
	s, metrics := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/idr/v2/assets/host-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"id":"host-1","name":"WS-01"}}`)
	})
	initialize(t, s)

	res := rpc(t, s, 3, "tools/call", map[string]any{
		"name":      "get_asset",
		"arguments": map[string]any{"id": "host-1"},
	})

	assert.NotEqual(t, true, res["isError"])
	content := res["content"].([]any)
	require.Len(t, content, 1)
	assert.Contains(t, content[0].(map[string]any)["text"], `"name": "WS-01"`)

	assert.InDelta(t, 1, invocations(t, metrics, "get_asset", tools.OutcomeSuccess), 0)
}

func TestServer_CallToolError(t *testing.T) {
	s, metrics := setupServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	initialize(t, s)

	res := rpc(t, s, 4, "tools/call", map[string]any{
		"name":      "list_risky_users",
		"arguments": map[string]any{},
	})

	assert.Equal(t, true, res["isError"])
	assert.InDelta(t, 1, invocations(t, metrics, "list_risky_users", tools.OutcomeAuth), 0)
}

func TestServer_ReadResource(t *testing.T) {
	s, _ := setupServer(t, nil)
	initialize(t, s)

	listed := rpc(t, s, 5, "resources/list", map[string]any{})
	assert.Len(t, listed["resources"], 2)

	res := rpc(t, s, 6, "resources/read", map[string]any{"uri": tools.ReferenceURI})
	contents := res["contents"].([]any)
	require.Len(t, contents, 1)
	assert.Contains(t, contents[0].(map[string]any)["text"], "LEQL")
}

func TestServer_ServeStdio(t *testing.T) {
	s, _ := setupServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in, inWriter := io.Pipe()
	var out safeBuffer

	done := make(chan error, 1)
	go func() {
		done <- s.ServeStdio(ctx, in, &out)
	}()

	_, err := io.WriteString(inWriter, `{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"id":1`)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	_ = inWriter.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ServeStdio did not return after cancel")
	}
}

func TestServeMetrics(t *testing.T) {
	metrics := server.NewMetrics()
	metrics.ObserveTool("get_alert", tools.OutcomeSuccess, 120*time.Millisecond)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.ServeMetrics(ctx, ln, metrics)
	}()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `insightidr_mcp_tool_invocations_total{outcome="success",tool="get_alert"} 1`)
	assert.Contains(t, string(body), "insightidr_mcp_tool_duration_seconds_bucket")

	health, err := http.Get(base + "/health")
	require.NoError(t, err)
	_ = health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ServeMetrics did not stop")
	}
}

// invocations reads the invocation counter for one tool and outcome.
func invocations(t *testing.T, m *server.Metrics, tool, outcome string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "insightidr_mcp_tool_invocations_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["tool"] == tool && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
