// Package mcp exposes a manual's source pages to AI agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/mdmanual/internal/enhance"
	"github.com/ziadkadry99/mdmanual/internal/markdown"
	"github.com/ziadkadry99/mdmanual/internal/walker"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes manual pages as tools.
type Server struct {
	sources walker.Config
	conv    *markdown.Converter
	toc     enhance.Options
	mcp     *server.MCPServer
}

// NewServer creates an MCP server over the sources described by cfg.
// Sources are re-read on every call so edits are visible immediately.
func NewServer(cfg walker.Config, conv *markdown.Converter, toc enhance.Options) *Server {
	s := &Server{
		sources: cfg,
		conv:    conv,
		toc:     toc,
	}

	s.mcp = server.NewMCPServer(
		"mdmanual",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listPagesTool, s.handleListPages)
	s.mcp.AddTool(getPageTool, s.handleGetPage)
	s.mcp.AddTool(getTOCTool, s.handleGetTOC)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
