package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/resume-classifier/internal/adapters/mcp"
	"github.com/kirillkom/resume-classifier/internal/bootstrap"
	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/observability/logging"
)

func main() {
	dotEnvErr := config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLoggerTo(os.Stderr, "resume-mcp", cfg.LogLevel)
	slog.SetDefault(logger)
	if dotEnvErr != nil {
		logger.Warn("dotenv_load_failed", "error", dotEnvErr)
	}

	app, err := bootstrap.New(context.Background(), cfg, nil, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	s := server.NewMCPServer("resume-classifier", "1.0.0")
	mcpadapter.NewTools(app.Classifier, cfg.MaxUploadBytes).Register(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
