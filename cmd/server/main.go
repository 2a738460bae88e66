package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sqluploader/internal/config"
	"github.com/JonMunkholm/sqluploader/internal/core"
	"github.com/JonMunkholm/sqluploader/internal/logging"
	"github.com/JonMunkholm/sqluploader/internal/tabular"
	"github.com/JonMunkholm/sqluploader/internal/web"
)

func main() {
	// Load .env file if it exists; real environment variables win.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("configuration loaded", "config", cfg.String())
	if cfg.Session.Secret == "" {
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	processor := core.NewBatchProcessor(
		core.NewLoader(core.Connect, logger),
		tabular.Reader{},
		core.BatchOptions{
			TempDir:           cfg.Upload.TempDir,
			AllowedExtensions: cfg.Upload.AllowedExtensions,
			Logger:            logger,
		},
	)

	server := web.NewServer(web.Options{
		Config:    cfg,
		Processor: processor,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Server.Addr()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
