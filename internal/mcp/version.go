package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/apibridge/apibridge/internal/common"
)

// VersionTool returns the mcp.Tool definition for the get_version tool.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get apibridge server version and status. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports the bridge's own build information.
func VersionToolHandler() server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := json.Marshal(map[string]string{
			"version": common.Version,
			"build":   common.Build,
			"commit":  common.GitCommit,
		})
		if err != nil {
			return errorResult("failed to encode version info"), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(out))}}, nil
	}
}
