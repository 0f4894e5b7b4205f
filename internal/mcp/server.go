package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/apibridge/apibridge/internal/common"
	"github.com/apibridge/apibridge/internal/dispatch"
)

// NewServer builds the MCP server for a compiled catalog: every catalog
// tool plus the built-in get_version tool.
func NewServer(name, version string, d *dispatch.Dispatcher, logger *common.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	count := RegisterTools(s, d, logger)
	s.AddTool(VersionTool(), VersionToolHandler())

	logger.Info().Int("tools", count).Msg("MCP server initialized")
	return s
}
