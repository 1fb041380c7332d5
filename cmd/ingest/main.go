// Command ingest seeds the constituent snapshot and pulls the day's
// closing quotes and index summary into local storage. Run it after the
// close, before the reporter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"market-movers/internal/constituents"
	"market-movers/internal/logger"
	"market-movers/internal/marketdata"
	"market-movers/internal/storage"
	"market-movers/internal/store"
	"market-movers/internal/trace"
	"market-movers/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dateFlag := flag.String("date", "", "trading date YYYY-MM-DD (default: today)")
	reseed := flag.Bool("reseed", false, "replace the constituent snapshot from the embedded seed")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()
	defer func() { _ = logger.Shutdown(context.Background()) }()

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	apiKey := os.Getenv("FINNHUB_API_KEY")
	if apiKey == "" {
		log.Fatal("FINNHUB_API_KEY is required for ingestion")
	}

	date := time.Now()
	if *dateFlag != "" {
		date, err = time.Parse(types.DateLayout, *dateFlag)
		must(err)
	}

	db, err := storage.Open(cfg.Storage.Dir)
	must(err)
	defer db.Close()

	client := marketdata.NewClient(apiKey,
		marketdata.WithRateLimit(cfg.Finnhub.RateLimitPerSecond),
		marketdata.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Finnhub.TimeoutSeconds) * time.Second,
		}),
	)

	consStorage := storage.NewConstituentStorage(db)
	priceStorage := storage.NewPriceStorage(db)
	ingestor := marketdata.NewIngestor(client, consStorage, priceStorage)

	seed, err := constituents.Seed()
	must(err)

	if open, err := ingestor.MarketOpen(ctx); err == nil && open {
		logger.Warn(ctx, "Market is still open - quotes will not be final closes")
	}

	var count int
	if *reseed {
		count, err = ingestor.SeedConstituents(ctx, seed)
	} else {
		count, err = ingestor.EnsureConstituents(ctx, seed)
	}
	must(err)
	logger.Info(ctx, "Constituent snapshot ready", "active", count)

	stored, err := ingestor.IngestDaily(ctx, date)
	if err != nil {
		logger.ErrorWithErr(ctx, "Daily ingestion failed", err, "date", types.DateKey(date))
		os.Exit(1)
	}
	logger.Info(ctx, "Prices ingested", "date", types.DateKey(date), "symbols", stored)

	// Fetching through the store persists the proxy-derived summary.
	consStore := constituents.NewStore(consStorage, priceStorage, client, constituents.IndexInfo{
		Symbol:          cfg.Index.Symbol,
		Name:            cfg.Index.Name,
		ProxySymbol:     cfg.Index.ProxySymbol,
		ProxyMultiplier: cfg.Index.ProxyMultiplier,
	})
	sum, err := consStore.IndexSummary(ctx, date)
	if err != nil {
		logger.ErrorWithErr(ctx, "Index summary fetch failed", err, "date", types.DateKey(date))
		os.Exit(1)
	}
	logger.Info(ctx, "Index summary stored",
		"date", sum.Date,
		"close", sum.Close,
		"change", sum.Change,
	)
}
