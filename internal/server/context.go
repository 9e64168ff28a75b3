package server

import (
	"context"
	"sync"

	"github.com/amphora/patentsafe-mcp/internal/instrumentation"
	"github.com/amphora/patentsafe-mcp/internal/patentsafe"
	"github.com/amphora/patentsafe-mcp/internal/search"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx     context.Context
	cancel  context.CancelFunc
	client  *patentsafe.Client
	info    *patentsafe.ServerInfo
	gateway *search.Gateway

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context around an authenticated
// PatentSafe client. The ServerInfo comes from the handshake performed at
// startup; pageSize bounds every search result page.
func NewServerContext(ctx context.Context, client *patentsafe.Client, info *patentsafe.ServerInfo, pageSize int) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		client:  client,
		info:    info,
		gateway: search.NewGateway(client, pageSize),
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Client returns the PatentSafe API client
func (sc *ServerContext) Client() *patentsafe.Client {
	return sc.client
}

// ServerInfo returns the handshake result for the authenticated user
func (sc *ServerContext) ServerInfo() *patentsafe.ServerInfo {
	return sc.info
}

// Gateway returns the paginating search gateway
func (sc *ServerContext) Gateway() *search.Gateway {
	return sc.gateway
}

// SetMetrics sets the metrics recorder for tool instrumentation
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil if instrumentation is not configured
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for tool invocations
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// AuditLogger returns the audit logger, or nil if audit logging is not configured
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
