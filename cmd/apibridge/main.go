// apibridge exposes a remote HTTP API as MCP tools. It loads the API's
// description document (from a file, a direct URL, or a docs page),
// compiles the operations into a tool catalog, and serves the catalog
// over stdio or streamable HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/apibridge/apibridge/internal/common"
	"github.com/apibridge/apibridge/internal/config"
	"github.com/apibridge/apibridge/internal/dispatch"
	"github.com/apibridge/apibridge/internal/mcp"
	"github.com/apibridge/apibridge/internal/openapi"
)

var (
	configFile  = flag.String("config", "", "Configuration file path (TOML)")
	stdio       = flag.Bool("stdio", false, "Serve over stdio instead of HTTP")
	serverPort  = flag.Int("port", 0, "HTTP port (overrides config)")
	source      = flag.String("source", "", "API document location: file path, document URL, or docs-page URL (overrides config)")
	baseURL     = flag.String("base-url", "", "Base URL for dispatched calls (overrides config)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		common.LoadVersionFromFile()
		fmt.Printf("apibridge version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.ApplyFlagOverrides(cfg, *serverPort, *source, *baseURL)

	if cfg.Source.Location == "" {
		fmt.Fprintln(os.Stderr, "no API document configured: set source.location or pass -source")
		os.Exit(1)
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Str("version", common.GetVersion()).
		Str("source", cfg.Source.Location).
		Msg("apibridge starting")

	timeout := time.Duration(cfg.Source.TimeoutSeconds) * time.Second
	cacheTTL := time.Duration(cfg.Source.CacheTTLSeconds) * time.Second

	loader := openapi.NewLoader(timeout, cacheTTL, logger)
	doc, err := loader.Load(context.Background(), cfg.Source.Location)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to load API document")
		os.Exit(1)
	}

	tools, err := openapi.Compile(doc, compileOptions(cfg))
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to compile tool catalog")
		os.Exit(1)
	}
	if len(tools) == 0 {
		logger.Error().Msg("compiled catalog is empty: check tools.include/exclude configuration")
		os.Exit(1)
	}

	logger.Info().
		Str("title", doc.Info.Title).
		Int("tools", len(tools)).
		Msg("tool catalog compiled")
	// One-time catalog briefing, grouped by tag. Stdout stays reserved for
	// the stdio transport.
	fmt.Fprintln(os.Stderr, "Available tools:")
	fmt.Fprintln(os.Stderr, openapi.Summarize(tools))

	target := resolveTargetURL(cfg, doc)
	if target == "" {
		logger.Error().Msg("cannot determine target base URL: set source.base_url or pass -base-url")
		os.Exit(1)
	}

	d := dispatch.New(tools, target, timeout, cfg.Headers, logger)
	mcpServer := mcp.NewServer(cfg.Server.Name, common.GetVersion(), d, logger)

	if *stdio {
		if err := server.ServeStdio(mcpServer); err != nil {
			fmt.Fprintf(os.Stderr, "stdio server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStateLess(true),
	)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	logger.Info().Str("address", addr).Msg("MCP streamable HTTP starting")

	if err := httpServer.Start(addr); err != nil {
		fmt.Fprintf(os.Stderr, "http server error: %v\n", err)
		os.Exit(1)
	}
}

func compileOptions(cfg *config.Config) openapi.CompileOptions {
	return openapi.CompileOptions{
		IncludeAll:      cfg.Tools.IncludeAll,
		Include:         cfg.Tools.Include,
		Exclude:         cfg.Tools.Exclude,
		SnakeCaseNames:  cfg.Tools.SnakeCaseNames,
		SimplifiedNames: cfg.Tools.SimplifiedNames,
		Prefix:          cfg.Tools.Prefix,
		StrictRefs:      cfg.Tools.StrictRefs,
	}
}

// resolveTargetURL picks the base URL for dispatched calls: the explicit
// config value, then the document's servers entry, then the origin of the
// source URL itself.
func resolveTargetURL(cfg *config.Config, doc *openapi.Document) string {
	if cfg.Source.BaseURL != "" {
		return cfg.Source.BaseURL
	}

	base := doc.BaseURL()
	if base != "" && strings.HasPrefix(base, "http") {
		return base
	}

	if u, err := url.Parse(cfg.Source.Location); err == nil && u.Scheme != "" && u.Host != "" {
		origin := u.Scheme + "://" + u.Host
		// A relative servers entry ("/v1") hangs off the source origin.
		if base != "" {
			return origin + base
		}
		return origin
	}

	return ""
}
