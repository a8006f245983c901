package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/stepwise/pkg/adapters/http"
	"github.com/aretw0/stepwise/pkg/adapters/mcp"
	"github.com/aretw0/stepwise/pkg/driver"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/aretw0/stepwise/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler wires the session manager, metrics and progress routes
// into the HTTP API. The returned manager must be closed by the caller.
func NewHTTPHandler(app *App, reg *prometheus.Registry) (http.Handler, *session.Manager) {
	metrics := observability.NewMetrics(reg)
	hooks := metrics.Hooks().Merge(observability.LogHooks(app.Logger))

	sessions := session.NewManager(app.Catalog.Registry(),
		session.WithDriverOptions(app.DriverOptions(driver.WithLifecycleHooks(hooks))...),
		session.WithLimit(app.Config.Server.MaxSessions),
		session.WithLogger(app.Logger),
	)

	srv := httpAdapter.NewServer(app.Catalog, sessions,
		httpAdapter.WithTracker(app.Tracker),
		httpAdapter.WithGatherer(reg),
		httpAdapter.WithLogger(app.Logger),
	)
	return httpAdapter.NewHandler(srv), sessions
}

// RunServe serves the HTTP API until ctx is cancelled.
func RunServe(ctx context.Context, app *App, port int) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	handler, sessions := NewHTTPHandler(app, reg)
	defer sessions.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting stepwise server", "address", srv.Addr, "store", app.Config.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.Logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		app.Logger.Info("Server stopped gracefully")
		return nil
	}
}

// RunMCP serves the MCP tools over the chosen transport.
func RunMCP(ctx context.Context, app *App, transport string, port int) error {
	srv := mcp.NewServer(app.Catalog, mcp.WithLogger(app.Logger))

	switch transport {
	case TransportStdio, "":
		app.Logger.Info("Starting stepwise MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		app.Logger.Info("Starting stepwise MCP server (SSE)", "port", port)
		err := srv.ServeSSE(ctx, port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		app.Logger.Info("MCP server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
}
