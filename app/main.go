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

	"github.com/quickdigest/quickdigest/app/api"
	"github.com/quickdigest/quickdigest/app/cfg"
	"github.com/quickdigest/quickdigest/app/database"
	"github.com/quickdigest/quickdigest/app/digest"
	"github.com/quickdigest/quickdigest/app/feed"
	"github.com/quickdigest/quickdigest/app/speech"
	"github.com/quickdigest/quickdigest/app/summarizer"
	"github.com/quickdigest/quickdigest/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting QuickDigest server", "version", appCfg.Version)

	if err := run(appCfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("QuickDigest server shutdown complete")
}

func run(appCfg *cfg.Cfg) error {
	ctx := context.Background()

	store, err := database.OpenStore(ctx, database.StoreOptions{
		Backend:    appCfg.CacheBackend,
		JSONPath:   appCfg.CacheFile,
		SQLitePath: appCfg.SQLitePath,
		RedisAddr:  appCfg.RedisAddr,
		RedisKey:   appCfg.RedisKey,
	})
	if err != nil {
		return fmt.Errorf("failed to open article cache: %w", err)
	}
	defer store.Close()
	slog.Info("Article cache ready", "backend", appCfg.CacheBackend)

	categories, err := feed.LoadCategories(appCfg.CategoriesFile)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	slog.Info("Categories loaded", "count", len(categories.Names()))

	httpClient := &http.Client{Timeout: appCfg.FetchTimeout + 5*time.Second}
	fetcher := feed.NewFetcher(httpClient, appCfg.UserAgent, appCfg.FetchTimeout)

	aggregator := feed.NewAggregator(
		store,
		feed.NewReader(fetcher, feed.NewParser()),
		feed.NewExtractorChain(feed.NewReadabilityExtractor(fetcher), feed.NewParagraphExtractor(fetcher)),
		categories,
		feed.AggregatorOptions{FeedLimit: appCfg.FeedLimit, Workers: appCfg.ExtractWorkers},
	)

	engine, closeEngine, err := newEngine(ctx, appCfg)
	if err != nil {
		return err
	}
	defer closeEngine()

	renderer := speech.NewGoogleRenderer(httpClient, appCfg.TTSEndpoint, appCfg.AudioDir, appCfg.UserAgent, appCfg.FetchTimeout)

	digests := digest.NewService(aggregator, summarizer.New(engine), renderer, digest.Options{
		SummaryWorkers: appCfg.SummaryWorkers,
		BaseURL:        appCfg.BaseUrl,
	})

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "warm_interval", appCfg.WarmInterval)
	scheduler := tasks.NewScheduler(aggregator, aggregator.Categories().Names(), tasks.SchedulerOptions{
		WorkerCount: appCfg.WorkerCount,
		Interval:    appCfg.WarmInterval,
		MaxArticles: warmArticles(),
	})
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(digests, aggregator.Categories(), store, scheduler, api.HandlerOptions{
		AudioDir:     renderer.AudioDir(),
		CacheBackend: appCfg.CacheBackend,
		Version:      appCfg.Version,
	})
	server := api.NewServer(handler, api.ServerOptions{
		APIAccessKey:   appCfg.APIAccessKey,
		AllowedOrigins: appCfg.AllowedOrigins,
	})

	// Digests with audio can take minutes; no write timeout.
	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	return serveErr
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func newEngine(ctx context.Context, appCfg *cfg.Cfg) (summarizer.Engine, func(), error) {
	if appCfg.GeminiAPIKey == "" {
		slog.Info("Summarization engine selected", "engine", "extractive")
		return summarizer.NewExtractiveEngine(), func() {}, nil
	}

	engine, err := summarizer.NewGeminiEngine(ctx, appCfg.GeminiAPIKey, appCfg.GeminiModel)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Summarization engine selected", "engine", "gemini", "model", appCfg.GeminiModel)
	return engine, func() { engine.Close() }, nil
}

// warmArticles is the candidate count of the largest budget, so warmed slices
// serve every digest size.
func warmArticles() int {
	budgets := summarizer.Budgets()
	policy, _ := summarizer.PolicyFor(budgets[len(budgets)-1])
	return policy.Articles * 2
}
