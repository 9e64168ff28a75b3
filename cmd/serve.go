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

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/amphora/patentsafe-mcp/internal/instrumentation"
	"github.com/amphora/patentsafe-mcp/internal/logging"
	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
	"github.com/amphora/patentsafe-mcp/internal/resources"
	"github.com/amphora/patentsafe-mcp/internal/search"
	"github.com/amphora/patentsafe-mcp/internal/server"
	"github.com/amphora/patentsafe-mcp/internal/tools/document_tools"
	"github.com/amphora/patentsafe-mcp/internal/tools/search_tools"
)

// ServeConfig holds the resolved configuration for the serve command.
type ServeConfig struct {
	// BaseURL is the PatentSafe deployment root, e.g. https://ps.example.com
	BaseURL string

	// AuthToken is the personal bearer token used on every backend call
	AuthToken string

	// ToolPrefix, when non-empty, is prepended to every tool name
	ToolPrefix string

	// PageSize bounds every search result page
	PageSize int

	// Transport is "stdio" or "streamable-http"
	Transport string

	// HTTPAddr is the listen address for the streamable-http transport
	HTTPAddr string

	// Debug enables debug-level logging
	Debug bool

	// Metrics server configuration
	MetricsEnabled bool
	MetricsAddr    string
}

func newServeCmd() *cobra.Command {
	var cfg ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing PatentSafe document
tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Connection:
  The PatentSafe base URL and personal authentication token are required:
    --base-url https://ps.example.com OR PATENTSAFE_URL env var
    --auth-token <token>              OR PATENTSAFE_TOKEN env var
  At startup the server performs a one-time handshake against the backend;
  an invalid token or base URL is fatal.

On stdio the protocol owns stdout, so all logging goes to stderr and the
metrics server is disabled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.BaseURL == "" {
				cfg.BaseURL = os.Getenv("PATENTSAFE_URL")
			}
			if cfg.AuthToken == "" {
				cfg.AuthToken = os.Getenv("PATENTSAFE_TOKEN")
			}
			if cfg.BaseURL == "" {
				return fmt.Errorf("PatentSafe base URL is required: set --base-url or PATENTSAFE_URL")
			}
			if cfg.AuthToken == "" {
				return fmt.Errorf("PatentSafe auth token is required: set --auth-token or PATENTSAFE_TOKEN")
			}
			if addr := os.Getenv("METRICS_ADDR"); addr != "" && cfg.MetricsAddr == server.DefaultMetricsAddr {
				cfg.MetricsAddr = addr
			}

			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", "", "PatentSafe base URL, e.g. https://ps.example.com. Can also use PATENTSAFE_URL env var.")
	cmd.Flags().StringVar(&cfg.AuthToken, "auth-token", "", "Personal authentication token. Can also use PATENTSAFE_TOKEN env var.")
	cmd.Flags().StringVar(&cfg.ToolPrefix, "tool-prefix", "", "Prefix for tool names, to run several PatentSafe servers side by side")
	cmd.Flags().IntVar(&cfg.PageSize, "page-size", search.DefaultPageSize, "Number of documents per search result page")
	cmd.Flags().StringVar(&cfg.Transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&cfg.MetricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (non-stdio transports only)")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cfg ServeConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// All logging goes to stderr; on stdio transport stdout carries the protocol
	logger := logging.Setup(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Create the backend client and perform the one-time handshake. This is
	// the only operation allowed to terminate the process; every later
	// failure is returned to the calling agent instead.
	client, err := patentsafe.NewClient(shutdownCtx, patentsafe.Config{
		BaseURL:   cfg.BaseURL,
		AuthToken: cfg.AuthToken,
	})
	if err != nil {
		return err
	}

	info, err := connectHandshake(shutdownCtx, client)
	if err != nil {
		return err
	}

	logger.Info("connected to PatentSafe",
		slog.String("base_url", cfg.BaseURL),
		slog.String("server_version", info.ServerVersion),
		slog.String("user_id", info.UserID),
		slog.Int("metadata_fields", len(info.MetadataFields)),
	)

	// Create server context shared by all tool handlers
	serverContext := server.NewServerContext(shutdownCtx, client, info, cfg.PageSize)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig))
	}

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if cfg.Transport != "stdio" && cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			HealthChecker:           server.NewHealthChecker(serverContext),
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		// Wait for metrics server to be ready or fail
		select {
		case <-metricsReady:
			logger.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("patentsafe-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext, cfg.ToolPrefix); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch cfg.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, cfg.HTTPAddr, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", cfg.Transport)
	}
}

// connectHandshake performs the startup handshake and maps its failure modes
// to fatal messages: only here does a classified backend error end the process.
func connectHandshake(ctx context.Context, client *patentsafe.Client) (*patentsafe.ServerInfo, error) {
	info, err := client.Connect(ctx)
	if err != nil {
		switch {
		case errors.Is(err, patentsafe.ErrUnauthorized):
			return nil, fmt.Errorf("authentication failed - invalid token")
		case errors.Is(err, patentsafe.ErrNotFound):
			return nil, fmt.Errorf("invalid PatentSafe URL")
		default:
			return nil, fmt.Errorf("failed to initialize PatentSafe connection: %w", err)
		}
	}
	return info, nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, prefix string) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Document",
			register: func() error {
				return document_tools.RegisterDocumentTools(mcpSrv, sc, prefix)
			},
		},
		{
			name: "Search",
			register: func() error {
				return search_tools.RegisterSearchTools(mcpSrv, sc, prefix)
			},
		},
		{
			name: "Resources",
			register: func() error {
				return resources.RegisterServerResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
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

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, addr string, logger *slog.Logger) error {
	httpServer := mcpserver.NewStreamableHTTPServer(mcpSrv)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	logger.Info("MCP server listening", slog.String("addr", addr), slog.String("transport", "streamable-http"))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}
