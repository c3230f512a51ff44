package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"plate2share/internal/bot"
	"plate2share/internal/config"
	"plate2share/internal/scheduler"
	"plate2share/internal/screen"
	"plate2share/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	seeded, err := screen.Seed(ctx, store)
	if err != nil {
		log.Error("seed sample data", "error", err)
		os.Exit(1)
	}
	if seeded > 0 {
		log.Info("seeded sample data", "records", seeded)
	}

	b, err := bot.New(cfg.TelegramBotToken, store, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	rules, err := cfg.OfferRules()
	if err != nil {
		log.Error("parse partner rules", "error", err)
		os.Exit(1)
	}

	sched := scheduler.New(store, cfg.PartnerFeeds, b, log)
	sched.SetTickInterval(cfg.SyncInterval)
	sched.SetRules(rules)

	log.Info("starting dashboard", "locale", cfg.Locale, "partner_feeds", len(cfg.PartnerFeeds))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return b.Run(ctx)
	})
	if err := g.Wait(); err != nil {
		log.Error("dashboard stopped", "error", err)
		os.Exit(1)
	}

	log.Info("dashboard stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
