package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/immense"
	"github.com/aretw0/immense/internal/config"
	"github.com/aretw0/immense/internal/telemetry"
	httpAdapter "github.com/aretw0/immense/pkg/adapters/http"
	"github.com/aretw0/immense/pkg/adapters/mcp"
	"github.com/aretw0/immense/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the HTTP adapter on cfg.Addr with the configured store,
// Prometheus metrics and tracing, until ctx is done.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// 1. Tracing
	shutdownTracing, err := telemetry.Setup(ctx, "immense", cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", "err", err)
		}
	}()

	// 2. Store
	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return err
	}

	handler, err := httpAdapter.NewHandler(store,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithLifecycleHooks(metrics.Hooks().Merge(observability.LogHooks(logger))),
		httpAdapter.WithMetrics(reg),
	)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting immense server", "addr", srv.Addr, "store", cfg.Store, "version", strings.TrimSpace(immense.Version))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Start shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	}
}

// ServeMCP runs the MCP adapter over transport ("stdio" or "sse").
func ServeMCP(ctx context.Context, cfg config.Config, transport string, logger *slog.Logger) error {
	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(store,
		mcp.WithLogger(logger),
		mcp.WithLifecycleHooks(observability.LogHooks(logger)),
	)

	switch transport {
	case "stdio":
		logger.Info("Starting immense MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		err := srv.ServeSSE(ctx, cfg.Addr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
	}
}
