// Package mcpserver exposes the binding generator as an MCP tool: a
// thin server.MCPServer wrapper plus a logging middleware wrapping
// bindgen.Run.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/tsbindgen/tsbindgen/pkg/mcplog"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for tsbindgen, exposing the
// generate_bindings and detect_features tools over stdio.
type Server struct {
	mcpServer *server.MCPServer
	logger    *mcplog.Logger // may be nil if audit logging is disabled
	slogger   *slog.Logger
}

// NewServer creates a new MCP server. Pass nil for logger to disable
// JSONL audit logging of tool calls.
func NewServer(logger *mcplog.Logger, slogger *slog.Logger) *Server {
	if slogger == nil {
		slogger = slog.Default()
	}
	s := &Server{logger: logger, slogger: slogger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if logger != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("tsbindgen", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: generateBindingsTool(), Handler: s.handleGenerateBindings},
		server.ServerTool{Tool: detectFeaturesTool(), Handler: s.handleDetectFeatures},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Close shuts down the audit logger if one is active. Should be
// deferred after NewServer.
func (s *Server) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}
