package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chessarchive/internal/cli"
	"chessarchive/internal/config"
	"chessarchive/internal/logging"
	"chessarchive/internal/service"
	"chessarchive/internal/storage"
	clitransport "chessarchive/internal/transport/cli"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("CHESS_CONFIG"), "Path to YAML config file")
	dir := flag.String("dir", "", "Archive directory (file backend)")
	autosave := flag.Int("autosave", -1, "Save every n moves (0 disables)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	if *dir != "" {
		cfg.Storage.Backend = storage.BackendFile
		cfg.Storage.Dir = *dir
	}
	if *autosave >= 0 {
		cfg.CLI.AutosaveEvery = *autosave
	}
	// keep the terminal for the board
	if cfg.Log.Level == "info" {
		cfg.Log.Level = "warn"
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := storage.Open(storage.Options{
		Backend:  cfg.Storage.Backend,
		Dir:      cfg.Storage.Dir,
		DSN:      cfg.Storage.DSN,
		RedisURL: cfg.Storage.RedisURL,
		TTL:      cfg.Storage.TTL,
	})
	if err != nil {
		logger.Error("storage unavailable, saving disabled", zap.Error(err))
		store = nil
	}

	svc := service.New(store, logger)
	defer svc.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.CLI.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	view := cli.New(rl, rl.Stdout())
	theme := cli.ColorTheme(cfg.CLI.Theme)
	if theme == "" {
		theme = cli.DefaultTheme(int(os.Stdout.Fd()))
	}
	_ = view.SetTheme(theme)

	handler := clitransport.New(svc, view, cfg.CLI.AutosaveEvery)

	view.ShowWelcome()
	handler.Run()
}
