package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/immense"
	"github.com/aretw0/immense/internal/compiler"
	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/obj"
	"github.com/aretw0/immense/pkg/ports"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes bounds uploaded scene documents.
const DefaultMaxBodyBytes = 1 << 20

// Server serves the scene store and renders over HTTP.
type Server struct {
	Store   ports.SceneStore
	Streams *StreamManager

	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	gatherer prometheus.Gatherer
	maxBody  int64
	spec     *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLifecycleHooks adds hooks to every render.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithMetrics exposes g at /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMaxBodyBytes replaces DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBody = n
	}
}

// NewHandler creates the HTTP handler. It fails if the embedded OpenAPI
// description does not load.
func NewHandler(store ports.SceneStore, opts ...Option) (http.Handler, error) {
	s := &Server{Store: store, maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.Streams = NewStreamManager(s.logger)

	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	s.spec = spec

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/events", s.SubscribeEvents)
	r.Post("/render", s.RenderScene)
	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", s.ListScenes)
		r.Get("/{name}", s.GetScene)
		r.Put("/{name}", s.PutScene)
		r.Delete("/{name}", s.DeleteScene)
		r.Get("/{name}/render", s.RenderStoredScene)
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "X-Render-Id")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>immense API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "immense-http",
		"version":     strings.TrimSpace(immense.Version),
		"api_version": apiVersion,
	})
}

// ListScenes handles GET /scenes.
func (s *Server) ListScenes(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"scenes": names})
}

// GetScene handles GET /scenes/{name}. The document is YAML unless the
// client accepts JSON.
func (s *Server) GetScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.Store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format, contentType := scene.FormatYAML, "application/yaml"
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		format, contentType = scene.FormatJSON, "application/json"
	}
	data, err := scene.Marshal(sc, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// PutScene handles PUT /scenes/{name}. Invalid documents are rejected with
// every validation error listed.
func (s *Server) PutScene(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sc, err := s.readScene(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sc.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if sc.Name == "" {
		sc.Name = name
	}
	if err := s.Store.Save(r.Context(), name, sc); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Info("scene stored", "scene", name)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteScene handles DELETE /scenes/{name}.
func (s *Server) DeleteScene(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenderScene handles POST /render with the scene in the body.
func (s *Server) RenderScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.readScene(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, sc)
}

// RenderStoredScene handles GET /scenes/{name}/render.
func (s *Server) RenderStoredScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.Store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, sc)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, sc *scene.Scene) {
	q := r.URL.Query()
	var copts []compiler.Option
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.fail(w, r, badRequest("seed: %v", err))
			return
		}
		copts = append(copts, compiler.WithSeed(seed))
	}
	if v := q.Get("depth"); v != "" {
		depth, err := strconv.Atoi(v)
		if err != nil || depth < 0 || depth > scene.MaxDepth {
			s.fail(w, r, badRequest("depth must be an integer between 0 and %d", scene.MaxDepth))
			return
		}
		copts = append(copts, compiler.WithDepth(depth))
	}

	root, err := compiler.Compile(sc, copts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	eopts := []obj.Option{obj.WithComment(fmt.Sprintf("%s generated by immense %s", displayName(sc), strings.TrimSpace(immense.Version)))}
	if names, _ := strconv.ParseBool(q.Get("names")); names {
		prefix := displayName(sc)
		eopts = append(eopts, obj.WithObjectNames(func(i int) string {
			return fmt.Sprintf("%s_%d", prefix, i)
		}))
	}

	id := uuid.NewString()
	gen := immense.New(
		immense.WithLogger(s.logger),
		immense.WithLifecycleHooks(s.hooks),
		immense.WithLifecycleHooks(s.Streams.Hooks(sc.Name)),
		immense.WithEncoderOptions(eopts...),
	)

	w.Header().Set("Content-Type", "model/obj")
	w.Header().Set("X-Render-Id", id)
	stats, err := gen.Render(immense.ContextWithRenderID(r.Context(), id), root, w)
	if err != nil {
		// Headers are gone; the client sees a truncated body.
		s.logger.Error("render failed", "render_id", id, "scene", sc.Name, "meshes", stats.Meshes, "error", err)
	}
}

// SubscribeEvents handles GET /events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sceneName := r.URL.Query().Get("scene")
	ch, cancel := s.Streams.Subscribe(sceneName)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func (s *Server) readScene(r *http.Request) (*scene.Scene, error) {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, s.maxBody))
	if err != nil {
		return nil, badRequest("read body: %v", err)
	}
	format := scene.FormatYAML
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "application/json" {
		format = scene.FormatJSON
	}
	return scene.Parse(data, format)
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSceneNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidScene), errors.As(err, &reqErr):
		status = http.StatusBadRequest
	}

	body := errorBody{Error: err.Error()}
	if details := scene.ValidationErrors(err); len(details) > 0 {
		body.Error = "invalid scene"
		for _, d := range details {
			body.Details = append(body.Details, d.Error())
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func displayName(sc *scene.Scene) string {
	if sc.Name == "" {
		return "scene"
	}
	return sc.Name
}
