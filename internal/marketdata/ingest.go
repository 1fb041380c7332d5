package marketdata

import (
	"context"
	"fmt"
	"time"

	"market-movers/internal/logger"
	"market-movers/internal/storage"
	"market-movers/internal/types"
)

// Ingestor pulls membership snapshots and daily quotes into local storage.
// It is the ingestion collaborator: the pipeline itself only reads.
type Ingestor struct {
	client *Client
	cons   *storage.ConstituentStorage
	prices *storage.PriceStorage
}

func NewIngestor(client *Client, cons *storage.ConstituentStorage, prices *storage.PriceStorage) *Ingestor {
	return &Ingestor{client: client, cons: cons, prices: prices}
}

// EnsureConstituents seeds a membership snapshot from entries when none
// exists. Returns the active constituent count.
func (ing *Ingestor) EnsureConstituents(ctx context.Context, entries []types.Constituent) (int, error) {
	count, err := ing.cons.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return count, nil
	}
	logger.Info(ctx, "No active constituents found, seeding snapshot")
	return ing.SeedConstituents(ctx, entries)
}

// SeedConstituents replaces the membership snapshot. Symbols absent from
// the new snapshot become inactive.
func (ing *Ingestor) SeedConstituents(ctx context.Context, entries []types.Constituent) (int, error) {
	if err := ing.cons.DeactivateAll(ctx); err != nil {
		return 0, err
	}
	today := types.DateKey(time.Now().UTC())
	for _, c := range entries {
		c.Active = true
		if c.AddedDate == "" {
			c.AddedDate = today
		}
		if c.CompanyName == "" && ing.client != nil {
			if prof, err := ing.client.CompanyProfile(ctx, c.Symbol); err == nil && prof.Name != "" {
				c.CompanyName = prof.Name
			}
		}
		if err := ing.cons.Upsert(ctx, c); err != nil {
			return 0, err
		}
	}
	logger.Info(ctx, "Seeded constituent snapshot", "count", len(entries))
	return len(entries), nil
}

// IngestDaily fetches quotes for every active constituent and records the
// day's prices. Individual symbol failures are logged and skipped; the
// ingestion mark is only written when at least one record landed.
func (ing *Ingestor) IngestDaily(ctx context.Context, date time.Time) (int, error) {
	active, err := ing.cons.Active(ctx)
	if err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, fmt.Errorf("cannot ingest %s: %w", types.DateKey(date), types.ErrDataUnavailable)
	}

	key := types.DateKey(date)
	stored := 0
	for _, c := range active {
		quote, err := ing.client.Quote(ctx, c.Symbol)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to fetch quote", err, "symbol", c.Symbol)
			continue
		}
		p := types.DailyPrice{
			Symbol:        c.Symbol,
			Date:          key,
			Close:         quote.Current,
			PrevClose:     quote.PrevClose,
			Change:        quote.Change,
			PercentChange: quote.PercentChange,
			High:          quote.High,
			Low:           quote.Low,
			Open:          quote.Open,
		}
		if err := ing.prices.Insert(ctx, p); err != nil {
			return stored, err
		}
		stored++
	}

	if stored == 0 {
		return 0, fmt.Errorf("no quotes stored for %s: %w", key, types.ErrDataUnavailable)
	}

	if err := ing.prices.MarkComplete(ctx, key, stored); err != nil {
		return stored, err
	}
	logger.Info(ctx, "Daily ingestion completed", "date", key, "symbols", stored, "skipped", len(active)-stored)
	return stored, nil
}

// MarketOpen reports whether the US exchange is currently open.
func (ing *Ingestor) MarketOpen(ctx context.Context) (bool, error) {
	st, err := ing.client.MarketStatus(ctx, "US")
	if err != nil {
		return false, err
	}
	return st.IsOpen, nil
}
