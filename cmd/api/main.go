package main

import (
	"log/slog"
	"os"

	"playlist-bot/api"
	"playlist-bot/config"
	"playlist-bot/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfgPath := "./config.yaml"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open history database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	router := api.NewRouter(store)
	slog.Info("history query service starting", "addr", cfg.APIAddr, "db_path", cfg.DBPath)
	if err := router.Run(cfg.APIAddr); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
