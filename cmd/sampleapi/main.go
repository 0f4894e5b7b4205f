// sampleapi runs the demo procurement backend: a JSON API with seeded
// data, its own OpenAPI document at /openapi.json, and a Swagger UI page
// at /docs. Point an apibridge instance at it to exercise the full
// discovery, compile, and dispatch path.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apibridge/apibridge/internal/common"
	"github.com/apibridge/apibridge/internal/config"
	"github.com/apibridge/apibridge/internal/sample"
	"github.com/apibridge/apibridge/internal/server"
)

var (
	configFile  = flag.String("config", "", "Configuration file path (TOML)")
	serverPort  = flag.Int("port", 0, "HTTP port (overrides config)")
	useBadger   = flag.Bool("badger", false, "Persist data in BadgerDB instead of memory")
	showVersion = flag.Bool("version", false, "Print version information")
)

func main() {
	flag.Parse()

	if *showVersion {
		common.LoadVersionFromFile()
		fmt.Printf("sampleapi version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	port := cfg.Server.Port
	if *serverPort != 0 {
		port = *serverPort
	}

	common.LoadVersionFromFile()
	logger := common.NewLoggerFromConfig(cfg.Logging)

	var repo sample.Repository
	if *useBadger {
		repo, err = sample.NewBadgerRepository(cfg.Storage.Badger.Path, sample.DefaultFixtures(), logger)
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("failed to open badger repository")
			os.Exit(1)
		}
		logger.Info().Str("path", cfg.Storage.Badger.Path).Msg("using badger storage")
	} else {
		repo = sample.NewMemoryRepository(sample.DefaultFixtures())
		logger.Info().Msg("using in-memory storage")
	}
	defer repo.Close()

	api := sample.NewAPI(repo, logger)
	srv := server.New(cfg.Server.Host, port, api.Routes(), logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("server error")
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("shutdown failed")
		os.Exit(1)
	}
}
