package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mk1shan/portfolio/app/api"
	"github.com/mk1shan/portfolio/app/cfg"
	"github.com/mk1shan/portfolio/app/database"
	"github.com/mk1shan/portfolio/app/feed"
	"github.com/mk1shan/portfolio/app/profile"
	"github.com/mk1shan/portfolio/app/tasks"
)

func main() {
	config, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if config == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(config); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(config *cfg.Cfg) error {
	slog.Info("Starting portfolio server", "version", config.Version, "feed_source", config.FeedSource)

	db, err := database.NewConnection(config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Info("Database ready", "path", config.DBPath, "schema_version", version, "dirty", dirty)

	fetchRepo := database.NewFetchLogRepository(db)

	profiles := profile.NewStore(config.ProfileFile)
	if err := profiles.Run(); err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	httpClient := &http.Client{Timeout: config.FetchTimeout + 5*time.Second}
	clientOpts := feed.ClientOptions{
		HTTPClient:  httpClient,
		UserAgent:   config.UserAgent,
		Label:       config.FeedLabel,
		Timeout:     config.FetchTimeout,
		MinInterval: config.FetchMinInterval,
	}

	var source feed.Source
	switch config.FeedSource {
	case "direct":
		source = feed.NewDirectClient(config.FeedURL, clientOpts)
	default:
		source = feed.NewRss2JSONClient(config.FeedServiceURL, config.FeedURL, clientOpts)
	}

	var backfiller *feed.Backfiller
	if config.ExtractContent {
		backfiller = feed.NewBackfiller(feed.NewContentExtractor(), clientOpts)
		slog.Info("Preview backfill enabled")
	}

	scheduler := tasks.NewScheduler(fetchRepo, tasks.SchedulerOptions{
		Workers:   config.WorkerCount,
		Interval:  config.SchedulerInterval,
		Retention: config.FetchLogRetention,
	})
	scheduler.Start()
	defer scheduler.Stop()

	dispatcher := tasks.NewFetchDispatcher(scheduler, tasks.FetchFeedTaskOptions{
		Source:     source,
		Backfiller: backfiller,
		Recorder:   fetchRepo,
		Label:      config.FeedLabel,
		MaxRetries: config.FetchRetries,
	})

	registry := feed.NewRegistry(config.MaxViews, config.ViewTTL)
	defer registry.Close()

	handler := api.NewHandler(profiles, registry, dispatcher, fetchRepo, api.HandlerOptions{
		FeedHomeURL: config.FeedHomeURL,
		FeedLabel:   config.FeedLabel,
		RenderWait:  config.RenderWait,
		APIWait:     apiWait(config),
	})
	server := api.NewServer(handler, config.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: apiWait(config) + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", config.Port, "base_url", config.BaseUrl)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				if err := profiles.Run(); err != nil {
					slog.Error("Failed to reload profile, keeping previous", "error", err)
				} else {
					slog.Info("Profile reloaded")
				}
				continue
			}
			slog.Info("Received signal, shutting down", "signal", sig.String())
		case err := <-serverErrChan:
			return err
		}
		break
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Deferred: open views are torn down, then the scheduler and database stop.
	return nil
}

// apiWait covers every attempt of one fetch plus the retry backoff.
func apiWait(config *cfg.Cfg) time.Duration {
	wait := time.Duration(config.FetchRetries+1)*config.FetchTimeout + 5*time.Second
	for n := 1; n <= config.FetchRetries; n++ {
		wait += min(time.Second<<uint(min(n-1, 5)), 30*time.Second)
	}
	return wait
}
