package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/config"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/database"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/library"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/logger"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/models"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/notify"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/refresh"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/repository"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/server"
	"github.com/MagmaBlock/LavaAnimeLibServerV2/internal/updater/bangumi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info("Starting anime library server")

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	notifier, err := notify.NewNotifier(cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	defer notifier.Close()
	if notifier != nil {
		log.Info("Event notifications enabled")
	}

	animes := repository.NewAnimeRepository(db)
	links := repository.NewSiteLinkRepository(db)
	files := repository.NewLibFileRepository(db)

	reconciler := library.NewReconciler(animes, links, files, notifier, log)

	registry := refresh.NewRegistry()
	bangumiClient := bangumi.NewClient(cfg.BangumiAPIURL, log)
	registry.Register(models.SiteTypeBangumi, bangumi.NewUpdater(bangumiClient, animes, links, notifier, log))

	scanner := refresh.NewScanner(animes, registry, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := refresh.NewPoller(scanner, cfg.RefreshInterval, cfg.StaleAfter, log)
	poller.Start(ctx)

	srv := server.NewServer(cfg.HTTPPort, cfg.StaleAfter, reconciler, scanner, log)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- srv.Run()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}

	log.Info("Anime library server stopped")
	return nil
}
