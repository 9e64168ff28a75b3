package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/amphora/patentsafe-mcp/internal/server"
)

// RegisterServerResources registers read-only resources describing the
// connected PatentSafe deployment.
func RegisterServerResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc.ServerInfo() == nil {
		return fmt.Errorf("server info is required to register server resources")
	}

	infoResource := mcp.NewResource(
		"patentsafe://server-info",
		"PatentSafe Server Information",
		mcp.WithResourceDescription("Connection details from the startup handshake: server version, authenticated user, context header, and the metadata field vocabulary"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(infoResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleServerInfo(request, sc)
	})

	return nil
}

// handleServerInfo serves the frozen handshake result. The ServerInfo never
// changes after startup, so this read involves no backend call.
func handleServerInfo(request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	info := sc.ServerInfo()

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode server info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
