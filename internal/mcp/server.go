package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/shopassist/internal/catalog"
	"github.com/ziadkadry99/shopassist/internal/orders"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the store's catalog, order
// tracking and support drafting to AI agents.
type Server struct {
	catalog catalog.Reader
	orders  orders.Lookup
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(products catalog.Reader, lookup orders.Lookup) *Server {
	s := &Server{
		catalog: products,
		orders:  lookup,
	}

	s.mcp = server.NewMCPServer(
		"shopassist",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(findProductsTool, s.handleFindProducts)
	s.mcp.AddTool(getProductTool, s.handleGetProduct)
	s.mcp.AddTool(trackOrderTool, s.handleTrackOrder)
	s.mcp.AddTool(draftSupportEmailTool, s.handleDraftSupportEmail)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
