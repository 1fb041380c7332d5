package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"market-movers/internal/constituents"
	"market-movers/internal/email"
	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/marketdata"
	"market-movers/internal/news"
	"market-movers/internal/news/newsobs"
	"market-movers/internal/pipeline"
	"market-movers/internal/pipeline/pipelineobs"
	"market-movers/internal/runlog"
	"market-movers/internal/sentiment"
	"market-movers/internal/storage"
	"market-movers/internal/store"
	"market-movers/internal/trace"
)

// initializeSystem initializes env, logger, and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldRunLogs compresses old run log files if retention is configured
func compressOldRunLogs(ctx context.Context) {
	if v := os.Getenv("REPORTER_LOG_RETENTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logger.Warn(ctx, "Invalid REPORTER_LOG_RETENTION_DAYS; skipping log compression", "value", v)
			return
		}
		if err := runlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old run logs", "error", err)
		}
	}
}

// initializeMarketData returns the Finnhub client, or nil when no API key
// is configured (storage-only mode).
func initializeMarketData(ctx context.Context, cfg *store.Config) *marketdata.Client {
	apiKey := os.Getenv("FINNHUB_API_KEY")
	if apiKey == "" {
		logger.Warn(ctx, "FINNHUB_API_KEY not set - running from stored data only")
		return nil
	}
	return marketdata.NewClient(apiKey,
		marketdata.WithRateLimit(cfg.Finnhub.RateLimitPerSecond),
		marketdata.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Finnhub.TimeoutSeconds) * time.Second,
		}),
	)
}

// initializeConstituentStore wires the storage-backed constituent view
func initializeConstituentStore(db *storage.DB, client *marketdata.Client, cfg *store.Config) interfaces.ConstituentStore {
	return constituents.NewStore(
		storage.NewConstituentStorage(db),
		storage.NewPriceStorage(db),
		client,
		constituents.IndexInfo{
			Symbol:          cfg.Index.Symbol,
			Name:            cfg.Index.Name,
			ProxySymbol:     cfg.Index.ProxySymbol,
			ProxyMultiplier: cfg.Index.ProxyMultiplier,
		},
	)
}

// initializeEnricher wires news sources and the sentiment classifier
// with observability
func initializeEnricher(ctx context.Context, cfg *store.Config, client *marketdata.Client) (interfaces.Enricher, error) {
	classifier, err := sentiment.NewClassifier(cfg)
	if err != nil {
		return nil, err
	}

	var provider interfaces.NewsProvider
	if client != nil {
		provider = news.NewFinnhubProvider(client)
	}

	var fallback interfaces.NewsProvider
	if cfg.News.ScraperFallback {
		fallback = news.NewScraper(time.Duration(cfg.News.ScraperTimeoutSeconds) * time.Second)
	}

	if provider == nil {
		if fallback == nil {
			logger.Warn(ctx, "No news source configured - movers will carry no headlines")
			provider = noNews{}
		} else {
			provider = fallback
			fallback = nil
		}
	}

	enricher := news.NewEnricher(provider, fallback, classifier, news.EnricherConfig{
		Lookback:     time.Duration(cfg.News.LookbackHours) * time.Hour,
		MaxArticles:  cfg.News.MaxArticles,
		TopHeadlines: cfg.News.TopHeadlines,
		Concurrency:  cfg.News.Concurrency,
		FetchBody:    cfg.News.FetchArticleBody,
		BodyTimeout:  time.Duration(cfg.News.ScraperTimeoutSeconds) * time.Second,
	})

	// Wrap with observability middleware
	return newsobs.Wrap(enricher), nil
}

// initializeOrchestrator builds the pipeline with observability
func initializeOrchestrator(cfg *store.Config, cons interfaces.ConstituentStore, enricher interfaces.Enricher, reports interfaces.ReportStore) (interfaces.Orchestrator, error) {
	orch, err := pipeline.NewOrchestrator(cfg, cons, enricher, reports)
	if err != nil {
		return nil, err
	}

	// Wrap with observability middleware
	return pipelineobs.Wrap(orch), nil
}

// initializeDelivery returns the report delivery channel
func initializeDelivery(cfg *store.Config) interfaces.Delivery {
	return email.NewSendGridDelivery(cfg)
}

// noNews is the provider used when neither Finnhub nor the scraper is
// configured. Every lookup returns an empty result.
type noNews struct{}

func (noNews) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]interfaces.Article, error) {
	return nil, nil
}
