// Package mcp exposes the compiled tool catalog over the Model Context
// Protocol: tools/list serves the catalog, tools/call routes through the
// dispatcher.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/apibridge/apibridge/internal/common"
	"github.com/apibridge/apibridge/internal/dispatch"
	"github.com/apibridge/apibridge/internal/openapi"
)

// BuildTool converts a ToolDefinition into an mcp.Tool with the appropriate
// input schema. Path, query, and body positions all surface as flat tool
// arguments; the dispatcher partitions them back at call time.
func BuildTool(def openapi.ToolDefinition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}

	for _, p := range def.Parameters {
		if p.In == "path" || p.In == "query" {
			opts = append(opts, paramOption(p.Name, p.Schema.Type(), p.Description, p.Required))
		}
	}
	if def.RequestBody != nil {
		for _, prop := range def.RequestBody.Properties {
			opts = append(opts, paramOption(prop.Name, prop.Type, prop.Description, prop.Required))
		}
	}

	return mcp.NewTool(def.Name, opts...)
}

// paramOption maps a parameter type to the appropriate mcp-go tool option.
func paramOption(name, typ, description string, required bool) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if description != "" {
		opts = append(opts, mcp.Description(description))
	}
	if required {
		opts = append(opts, mcp.Required())
	}

	switch typ {
	case "integer", "number":
		return mcp.WithNumber(name, opts...)
	case "boolean":
		return mcp.WithBoolean(name, opts...)
	case "array":
		opts = append([]mcp.PropertyOption{mcp.WithStringItems()}, opts...)
		return mcp.WithArray(name, opts...)
	default:
		// string, object, or unknown — all passed as string
		return mcp.WithString(name, opts...)
	}
}

// RegisterTools registers every catalog tool on the MCP server, routed
// through the dispatcher. Returns the number of tools registered.
func RegisterTools(s *server.MCPServer, d *dispatch.Dispatcher, logger *common.Logger) int {
	catalog := d.List()
	for _, def := range catalog {
		s.AddTool(BuildTool(def), ToolHandler(d, def.Name, logger))
	}
	return len(catalog)
}
