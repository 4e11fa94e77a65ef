package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"playlist-bot/config"
	"playlist-bot/pipeline"
	"playlist-bot/publisher"
	"playlist-bot/scheduler"
	"playlist-bot/scraper"
	"playlist-bot/state"
	"playlist-bot/storage"
)

func main() {
	// Structured JSON logging to stdout
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfgPath := "./config.yaml"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("config loaded", "playlist_url", cfg.PlaylistURL,
		"poll_interval", cfg.PollInterval().String(), "art_size", cfg.AlbumArtSize)

	// Set log level
	switch cfg.LogLevel {
	case "debug":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	case "warn":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))
	case "error":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "db_path", cfg.DBPath)

	stateStore := state.NewStore(cfg.StatePath)
	fetcher := scraper.NewFetcher(cfg.PlaylistURL, cfg.FetchTimeout())
	mastodonPublisher := publisher.New(cfg.MastodonServer, cfg.MastodonAccessToken, cfg.FetchTimeout())

	runner := pipeline.NewRunner(
		fetcher,
		stateStore,
		&historyAdapter{store: store},
		mastodonPublisher,
		pipeline.Config{
			AlbumArtSize: cfg.AlbumArtSize,
			AlwaysTag:    cfg.AlwaysTag,
		},
	)

	sched := scheduler.New()
	cycle := func() {
		// Outcomes and failures are logged inside the cycle; the cadence
		// itself is the retry mechanism.
		_, _ = runner.RunCycle(context.Background())
	}

	if err := sched.Schedule(cfg.PollInterval(), cycle); err != nil {
		slog.Error("failed to schedule polling", "error", err)
		os.Exit(1)
	}
	sched.Start()
	slog.Info("polling started", "interval", cfg.PollInterval().String())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig.String())

	sched.Stop()
	slog.Info("shutdown complete")
}

// historyAdapter bridges storage.Store to pipeline.History.
type historyAdapter struct {
	store *storage.Store
}

func (a *historyAdapter) Append(r pipeline.HistoryRecord) error {
	return a.store.Append(&storage.Record{
		RecordedAt: r.RecordedAt,
		SpinID:     r.SpinID,
		DJ:         r.DJ,
		Song:       r.Song,
		Artist:     r.Artist,
		Album:      r.Album,
		AlbumArt:   r.AlbumArt,
	})
}
