package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/teemow/calendar-mcp/internal/calendar"
	"github.com/teemow/calendar-mcp/internal/config"
	"github.com/teemow/calendar-mcp/internal/datetime"
	"github.com/teemow/calendar-mcp/internal/google"
	"github.com/teemow/calendar-mcp/internal/instrumentation"
	"github.com/teemow/calendar-mcp/internal/logging"
	"github.com/teemow/calendar-mcp/internal/server"
	"github.com/teemow/calendar-mcp/internal/tasks"
	"github.com/teemow/calendar-mcp/internal/tools/calendar_tools"
	"github.com/teemow/calendar-mcp/internal/tools/google_tools"
	"github.com/teemow/calendar-mcp/internal/tools/tasks_tools"
)

const (
	mcpEndpointPath = "/mcp"

	metricsStartupTimeout = 5 * time.Second
	httpShutdownTimeout   = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server that provides Google Calendar
and Google Tasks tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport at /mcp, with /healthz,
    /readyz and /healthz/detailed probes

Required environment (or .env) variables:
  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN

Flags override the matching environment variables (MCP_TRANSPORT,
MCP_HTTP_ADDR, METRICS_ENABLED, METRICS_ADDR, DEBUG, DEFAULT_TIMEZONE).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().String("transport", config.TransportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().String("http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().Bool("metrics-enabled", true, "Serve Prometheus metrics (streamable-http transport only)")
	cmd.Flags().String("metrics-addr", ":9090", "Metrics server address")
	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().String("default-timezone", "", "IANA time zone for events that name none (default: "+datetime.FallbackTimeZone+")")

	return cmd
}

func runServe(cfg *config.Config) error {
	logger := logging.New(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.DefaultTimeZone != "" {
		if _, err := datetime.LoadZone(cfg.DefaultTimeZone); err != nil {
			return fmt.Errorf("invalid %s: %w", config.EnvDefaultTimeZone, err)
		}
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(flushCtx); err != nil {
			slog.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var recorder google.RefreshRecorder
	if metrics := provider.Metrics(); metrics != nil {
		recorder = metrics
	}

	serverContext, err := newServerContext(shutdownCtx, cfg, recorder)
	if err != nil {
		return err
	}
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			slog.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := newMCPServer()
	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	switch cfg.Transport {
	case config.TransportStdio:
		slog.Debug("starting MCP server", logging.Transport(cfg.Transport))
		return runStdioServer(mcpSrv)
	case config.TransportStreamableHTTP:
		if cfg.MetricsEnabled && provider.Enabled() {
			metricsServer, err := startMetricsServer(cfg.MetricsAddr, provider)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := metricsServer.Shutdown(ctx); err != nil {
					slog.Warn("error during metrics server shutdown", logging.Err(err))
				}
			}()
		}
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, cfg.HTTPAddr)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

// newServerContext builds the authenticated Calendar and Tasks clients. Both
// share one HTTP client, and so one refresh-token source.
func newServerContext(ctx context.Context, cfg *config.Config, recorder google.RefreshRecorder) (*server.ServerContext, error) {
	ts := google.NewTokenSource(ctx, cfg.OAuthConfig(), cfg.RefreshToken, recorder)
	httpClient := google.NewHTTPClient(ctx, ts)

	calendarClient, err := calendar.NewClient(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	tasksClient, err := tasks.NewClient(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	serverContext, err := server.NewServerContext(ctx, calendarClient, tasksClient, calendar.NewPayloadBuilder(cfg.DefaultTimeZone))
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return serverContext, nil
}

func newMCPServer() *mcpserver.MCPServer {
	return mcpserver.NewMCPServer("calendar-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)
}

// registerAllTools registers every MCP tool group
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	registrations := []struct {
		name     string
		register func(*mcpserver.MCPServer, *server.ServerContext) error
	}{
		{name: "Calendar", register: calendar_tools.RegisterCalendarTools},
		{name: "Tasks", register: tasks_tools.RegisterTasksTools},
		{name: "Google", register: google_tools.RegisterGoogleTools},
	}

	for _, reg := range registrations {
		if err := reg.register(mcpSrv, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// startMetricsServer starts the Prometheus endpoint and waits until it is
// listening, so a bad address fails serve instead of being logged later.
func startMetricsServer(addr string, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(metricsStartupTimeout):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

// newHTTPHandler mounts the MCP endpoint next to the health probes.
func newHTTPHandler(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, health *server.HealthChecker) http.Handler {
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(mcpEndpointPath),
	)

	mux := http.NewServeMux()
	mux.Handle(mcpEndpointPath, server.InstrumentHandler(streamable, sc.Metrics()))
	health.RegisterHealthEndpoints(mux)
	return mux
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	health := server.NewHealthChecker(sc, version)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newHTTPHandler(mcpSrv, sc, health),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		slog.Info("starting MCP server",
			logging.Transport(config.TransportStreamableHTTP),
			slog.String("addr", addr),
			slog.String("endpoint", mcpEndpointPath))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		health.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		return nil
	}
}
