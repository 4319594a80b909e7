package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/immense"
	"github.com/aretw0/immense/internal/compiler"
	"github.com/aretw0/immense/pkg/domain"
	"github.com/aretw0/immense/pkg/ports"
	"github.com/aretw0/immense/pkg/rule"
	"github.com/aretw0/immense/pkg/scene"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultMaxOutput caps the OBJ text returned by render_scene.
const DefaultMaxOutput = 4 << 20

// ScenesURI is the resource listing stored scenes.
const ScenesURI = "immense://scenes"

var errOutputTooLarge = errors.New("output too large")

// RenderArgs are the arguments of render_scene.
type RenderArgs struct {
	Scene string `json:"scene,omitempty"`
	Name  string `json:"name,omitempty"`
	Seed  *int64 `json:"seed,omitempty"`
	Depth *int   `json:"depth,omitempty"`
}

// RenderResult is the structured result of render_scene.
type RenderResult struct {
	RenderID string `json:"render_id" jsonschema_description:"Unique ID of this render"`
	Meshes   int    `json:"meshes" jsonschema_description:"Number of meshes written"`
	Vertices int    `json:"vertices" jsonschema_description:"Number of vertices written"`
	Faces    int    `json:"faces" jsonschema_description:"Number of faces written"`
	OBJ      string `json:"obj" jsonschema_description:"Wavefront OBJ text"`
}

// ValidateResult is the structured result of validate_scene.
type ValidateResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
	Meshes int      `json:"meshes,omitempty" jsonschema_description:"Meshes the scene evaluates to"`
}

// Server exposes scene rendering and the scene store as an MCP server.
type Server struct {
	store     ports.SceneStore
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	maxOutput int
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
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

// WithMaxOutput replaces DefaultMaxOutput.
func WithMaxOutput(n int) Option {
	return func(s *Server) {
		s.maxOutput = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.SceneStore, opts ...Option) *Server {
	s := &Server{
		store:     store,
		maxOutput: DefaultMaxOutput,
		mcpServer: server.NewMCPServer("immense-mcp", strings.TrimSpace(immense.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: render_scene
	renderTool := mcp.NewTool("render_scene",
		mcp.WithDescription("Render a scene to Wavefront OBJ. Pass either a YAML scene document or the name of a stored scene."),
		mcp.WithString("scene", mcp.Description("Scene document as YAML")),
		mcp.WithString("name", mcp.Description("Name of a stored scene")),
		mcp.WithNumber("seed", mcp.Description("Overrides the scene seed")),
		mcp.WithNumber("depth", mcp.Description("Overrides the recursion budget")),
		mcp.WithOutputSchema[RenderResult](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))

	// TOOL: validate_scene
	validateTool := mcp.NewTool("validate_scene",
		mcp.WithDescription("Check a YAML scene document and report every problem."),
		mcp.WithString("scene", mcp.Required(), mcp.Description("Scene document as YAML")),
		mcp.WithOutputSchema[ValidateResult](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_scenes
	s.mcpServer.AddTool(mcp.NewTool("list_scenes",
		mcp.WithDescription("List the names of stored scenes."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.store.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_scene
	s.mcpServer.AddTool(mcp.NewTool("get_scene",
		mcp.WithDescription("Fetch a stored scene as YAML."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Scene name")),
	), s.handleGetScene)

	// TOOL: save_scene
	s.mcpServer.AddTool(mcp.NewTool("save_scene",
		mcp.WithDescription("Validate a YAML scene document and store it under a name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Scene name")),
		mcp.WithString("scene", mcp.Required(), mcp.Description("Scene document as YAML")),
	), s.handleSaveScene)
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args RenderArgs) (RenderResult, error) {
	var (
		sc  *scene.Scene
		err error
	)
	switch {
	case args.Scene != "":
		sc, err = scene.Parse([]byte(args.Scene), scene.FormatYAML)
	case args.Name != "":
		sc, err = s.store.Load(ctx, args.Name)
	default:
		err = errors.New("either scene or name is required")
	}
	if err != nil {
		return RenderResult{}, err
	}

	var copts []compiler.Option
	if args.Seed != nil {
		copts = append(copts, compiler.WithSeed(*args.Seed))
	}
	if args.Depth != nil {
		copts = append(copts, compiler.WithDepth(*args.Depth))
	}
	root, err := compiler.Compile(sc, copts...)
	if err != nil {
		return RenderResult{}, err
	}

	var result RenderResult
	gen := immense.New(
		immense.WithLogger(s.logger),
		immense.WithLifecycleHooks(s.hooks),
		immense.WithLifecycleHooks(domain.LifecycleHooks{
			OnRenderStart: func(_ context.Context, e *domain.RenderEvent) { result.RenderID = e.RenderID },
		}),
	)
	out := &cappedBuffer{limit: s.maxOutput}
	stats, err := gen.Render(ctx, root, out)
	if errors.Is(err, errOutputTooLarge) {
		return RenderResult{}, fmt.Errorf("OBJ output exceeds %d bytes after %d meshes; lower depth or replication", s.maxOutput, stats.Meshes)
	}
	if err != nil {
		return RenderResult{}, fmt.Errorf("render failed: %w", err)
	}

	result.Meshes = stats.Meshes
	result.Vertices = stats.Vertices
	result.Faces = stats.Faces
	result.OBJ = out.String()
	return result, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResult, error) {
	doc, _ := args["scene"].(string)
	sc, err := scene.Parse([]byte(doc), scene.FormatYAML)
	if err != nil {
		return ValidateResult{Errors: []string{err.Error()}}, nil
	}
	if err := sc.Validate(); err != nil {
		res := ValidateResult{}
		for _, e := range scene.ValidationErrors(err) {
			res.Errors = append(res.Errors, e.Error())
		}
		return res, nil
	}

	// Mesh count is for the scene seed; a zero seed picks choices at random.
	root, err := compiler.Compile(sc)
	if err != nil {
		return ValidateResult{Errors: []string{err.Error()}}, nil
	}
	return ValidateResult{Valid: true, Meshes: rule.Count(root)}, nil
}

func (s *Server) handleGetScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sc, err := s.store.Load(ctx, name)
	if errors.Is(err, domain.ErrSceneNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("scene %q not found", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	data, err := scene.Marshal(sc, scene.FormatYAML)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleSaveScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := request.RequireString("scene")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sc, err := scene.Parse([]byte(doc), scene.FormatYAML)
	if err == nil {
		err = sc.Validate()
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sc.Name == "" {
		sc.Name = name
	}
	if err := s.store.Save(ctx, name, sc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("save failed: %v", err)), nil
	}
	s.logger.Info("scene stored", "scene", name)
	return mcp.NewToolResultText(fmt.Sprintf("stored %q", name)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: immense://scenes
	s.mcpServer.AddResource(mcp.NewResource(ScenesURI, "Stored Scenes",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return s.readScenes(ctx)
	})
}

func (s *Server) readScenes(ctx context.Context) ([]mcp.ResourceContents, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	jsonBytes, _ := json.Marshal(names)
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ScenesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

// cappedBuffer fails writes past limit bytes.
type cappedBuffer struct {
	bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if b.Len()+len(p) > b.limit {
		return 0, errOutputTooLarge
	}
	return b.Buffer.Write(p)
}
