// ABOUTME: MCP server setup for the liftlog store.
// ABOUTME: Wraps MCP server with a storage.Store connection.
package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/storage"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	store     *storage.Store
	now       func() time.Time
}

// NewServer creates a new MCP server with the given store.
func NewServer(store *storage.Store, version string) (*Server, error) {
	if store == nil {
		return nil, errors.New("store required")
	}
	if version == "" {
		version = "dev"
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "liftlog",
			Version: version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
		now:       time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
