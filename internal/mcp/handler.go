package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/apibridge/apibridge/internal/common"
	"github.com/apibridge/apibridge/internal/dispatch"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// ToolHandler routes one MCP tool call through the dispatcher. The
// dispatcher recovers every failure into an envelope, so the handler never
// returns a protocol-level error for a failed backend call.
func ToolHandler(d *dispatch.Dispatcher, name string, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		correlationID := uuid.New().String()
		log := logger.WithCorrelationId(correlationID)

		args := r.GetArguments()
		log.Info().Str("tool", name).Int("args", len(args)).Msg("tool call start")

		start := time.Now()
		value := d.Invoke(ctx, name, args)
		elapsed := time.Since(start)

		out, err := json.Marshal(value)
		if err != nil {
			log.Error().Str("tool", name).Str("error", err.Error()).Msg("failed to encode result")
			return errorResult("failed to encode invocation result"), nil
		}

		if result, ok := value.(dispatch.Result); ok && !result.Success {
			log.Warn().Str("tool", name).Dur("elapsed", elapsed).Str("error", result.Error).Msg("tool call failed")
			return errorResult(string(out)), nil
		}

		log.Info().Str("tool", name).Dur("elapsed", elapsed).Msg("tool call complete")
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(out))}}, nil
	}
}
