// Package main runs the chess archive HTTP server and its db maintenance commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chessarchive/cmd/chess-server/cli"
	"chessarchive/internal/config"
	"chessarchive/internal/logging"
	"chessarchive/internal/service"
	"chessarchive/internal/storage"
	"chessarchive/internal/transport/http"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chess-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", os.Getenv("CHESS_CONFIG"), "Path to YAML config file")
		apiHost    = flag.String("api-host", "", "API server host")
		apiPort    = flag.Int("api-port", 0, "API server port")
		dev        = flag.Bool("dev", false, "Development mode (relaxed rate limits, access log)")
		backend    = flag.String("storage", "", "Storage backend: none|file|sqlite|postgres|redis")
		dsn        = flag.String("dsn", "", "SQLite path or Postgres URL")
		dir        = flag.String("dir", "", "Archive directory for the file backend")
		redisURL   = flag.String("redis-url", "", "Redis URL for the redis backend")
		pidPath    = flag.String("pid", "", "Optional path to write PID file")
		pidLock    = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// explicit flags win over file and env
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-host":
			cfg.Server.Host = *apiHost
		case "api-port":
			cfg.Server.Port = *apiPort
		case "dev":
			cfg.Server.Dev = *dev
		case "storage":
			cfg.Storage.Backend = *backend
		case "dsn":
			cfg.Storage.DSN = *dsn
		case "dir":
			cfg.Storage.Dir = *dir
		case "redis-url":
			cfg.Storage.RedisURL = *redisURL
		case "pid":
			cfg.Server.PIDFile = *pidPath
		case "pid-lock":
			cfg.Server.PIDLock = *pidLock
		}
	})

	if cfg.Server.PIDLock && cfg.Server.PIDFile == "" {
		return fmt.Errorf("-pid-lock requires -pid to be set")
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	if cfg.Server.PIDFile != "" {
		cleanup, err := managePIDFile(cfg.Server.PIDFile, cfg.Server.PIDLock)
		if err != nil {
			return fmt.Errorf("failed to manage PID file: %w", err)
		}
		defer cleanup()
		logger.Info("PID file created", zap.String("path", cfg.Server.PIDFile), zap.Bool("lock", cfg.Server.PIDLock))
	}

	store, err := storage.Open(storage.Options{
		Backend:  cfg.Storage.Backend,
		Dir:      cfg.Storage.Dir,
		DSN:      cfg.Storage.DSN,
		RedisURL: cfg.Storage.RedisURL,
		TTL:      cfg.Storage.TTL,
		DevMode:  cfg.Server.Dev,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if store == nil {
		logger.Info("persistent storage disabled")
	} else {
		logger.Info("storage ready", zap.String("backend", cfg.Storage.Backend))
	}

	svc := service.New(store, logger)
	app := http.NewFiberApp(svc, logger, http.Options{DevMode: cfg.Server.Dev, AccessLog: cfg.Server.Dev})

	apiAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("API server listening",
			zap.String("addr", "http://"+apiAddr),
			zap.String("games", fmt.Sprintf("http://%s/api/v1/games", apiAddr)),
			zap.String("health", fmt.Sprintf("http://%s/health", apiAddr)),
			zap.Bool("dev", cfg.Server.Dev))
		if err := app.Listen(apiAddr); err != nil {
			logger.Error("API server listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}
	if err := svc.Close(); err != nil {
		logger.Warn("storage close error", zap.Error(err))
	}

	logger.Info("server exited")
	return nil
}
