package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/immense/pkg/adapters/memory"
	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rowYAML = `
name: row
entry: row
rules:
  row:
    - shape: cube
      replicate: {count: 3, step: [{x: 1.5}]}
`

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(memory.NewStore(), opts...)
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLoadSpec(t *testing.T) {
	spec, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "immense", spec.Info.Title)
	assert.NotNil(t, spec.Paths.Find("/scenes/{name}/render"))
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(h, "GET", "/info", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "0.1.0", info["api_version"])

	w = do(h, "GET", "/openapi.yaml", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestSceneCRUD(t *testing.T) {
	h := newTestHandler(t)

	// 1. Store
	w := do(h, "PUT", "/scenes/row", "application/yaml", rowYAML)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// 2. List
	w = do(h, "GET", "/scenes", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"scenes":["row"]}`, w.Body.String())

	// 3. Fetch as YAML and JSON
	w = do(h, "GET", "/scenes/row", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "entry: row")

	req := httptest.NewRequest("GET", "/scenes/row", nil)
	req.Header.Set("Accept", "application/json")
	jw := httptest.NewRecorder()
	h.ServeHTTP(jw, req)
	require.Equal(t, http.StatusOK, jw.Code)
	assert.Contains(t, jw.Body.String(), `"entry": "row"`)

	// 4. Delete
	w = do(h, "DELETE", "/scenes/row", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(h, "GET", "/scenes/row", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutScene_Invalid(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "PUT", "/scenes/bad", "application/yaml", "entry: main\nrules:\n  main:\n    - ref: missing\n    - shape: blob\n")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid scene", body.Error)
	assert.Len(t, body.Details, 2)

	w = do(h, "PUT", "/scenes/bad", "application/json", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderScene(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/render?names=true", "application/yaml", rowYAML)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "model/obj", w.Header().Get("Content-Type"))
	assert.Len(t, w.Header().Get("X-Render-Id"), 36)

	out := w.Body.String()
	assert.True(t, strings.HasPrefix(out, "# row generated by immense"))
	assert.Contains(t, out, "o row_2\n")

	doc, err := obj.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, doc.Vertices, 24)
	assert.Len(t, doc.Faces, 18)
}

func TestRenderStoredScene(t *testing.T) {
	h := newTestHandler(t)
	require.Equal(t, http.StatusNoContent, do(h, "PUT", "/scenes/row", "", rowYAML).Code)

	w := do(h, "GET", "/scenes/row/render", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := obj.Decode(w.Body)
	require.NoError(t, err)
	assert.Len(t, doc.Vertices, 24)

	w = do(h, "GET", "/scenes/missing/render", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRender_BadParams(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		target string
	}{
		{"seed", "/render?seed=abc"},
		{"depth", "/render?depth=-2"},
		{"depth too deep", "/render?depth=1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, "POST", tt.target, "", rowYAML)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRender_ReplicateOverLimit(t *testing.T) {
	h := newTestHandler(t)
	doc := strings.Replace(rowYAML, "count: 3", "count: 1125899906842624", 1)

	w := do(h, "POST", "/render", "", doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "replicate.count")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	h := newTestHandler(t, WithMetrics(reg), WithLifecycleHooks(m.Hooks()))
	require.Equal(t, http.StatusOK, do(h, "POST", "/render", "", rowYAML).Code)

	w := do(h, "GET", "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `immense_renders_total{status="ok"} 1`)
	assert.Contains(t, w.Body.String(), "immense_meshes_total 3")
}

func TestMaxBodyBytes(t *testing.T) {
	h := newTestHandler(t, WithMaxBodyBytes(16))
	w := do(h, "POST", "/render", "", rowYAML)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeEvents(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. Subscribe to renders of "row"
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?scene=row", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	require.Contains(t, string(buf[:n]), "event: ping")

	// 2. Render
	renderResp, err := http.Post(srv.URL+"/render", "application/yaml", bytes.NewBufferString(rowYAML))
	require.NoError(t, err)
	renderResp.Body.Close()

	// 3. Read until the end event arrives
	var got strings.Builder
	for !strings.Contains(got.String(), `"type":"render_end"`) {
		n, err := resp.Body.Read(buf)
		require.NoError(t, err)
		got.Write(buf[:n])
	}
	assert.Contains(t, got.String(), `"scene":"row"`)
	assert.Contains(t, got.String(), `"meshes":3`)
}

func TestStreamManager_DropsForSlowClients(t *testing.T) {
	sm := NewStreamManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ch, cancel := sm.Subscribe("")
	for range 20 {
		sm.Broadcast("any", "msg")
	}
	assert.Len(t, ch, 10)
	cancel()
	cancel()
}
