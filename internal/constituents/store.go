// Package constituents exposes the read-only view of index membership,
// daily prices, and the index summary that the pipeline consumes.
package constituents

import (
	"context"
	"fmt"
	"math"
	"time"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/marketdata"
	"market-movers/internal/storage"
	"market-movers/internal/types"
)

// Store reads membership and prices from local storage. The index summary
// falls back to the market summary collaborator (a quote on the index
// proxy ETF) when nothing is stored for the date.
type Store struct {
	constituents *storage.ConstituentStorage
	prices       *storage.PriceStorage
	client       *marketdata.Client // nil disables the summary fallback

	index IndexInfo
}

// IndexInfo identifies the tracked index and its ETF proxy.
type IndexInfo struct {
	Symbol          string
	Name            string
	ProxySymbol     string
	ProxyMultiplier float64
}

var _ interfaces.ConstituentStore = (*Store)(nil)

// NewStore creates a constituent store. client may be nil, in which case
// IndexSummary only serves stored summaries.
func NewStore(cs *storage.ConstituentStorage, ps *storage.PriceStorage, client *marketdata.Client, index IndexInfo) *Store {
	return &Store{
		constituents: cs,
		prices:       ps,
		client:       client,
		index:        index,
	}
}

func (s *Store) ActiveConstituents(ctx context.Context, date time.Time) ([]types.Constituent, error) {
	active, err := s.constituents.Active(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("no membership snapshot for %s: %w", types.DateKey(date), types.ErrDataUnavailable)
	}
	return active, nil
}

func (s *Store) Prices(ctx context.Context, date time.Time) (map[string]types.DailyPrice, error) {
	key := types.DateKey(date)
	done, err := s.prices.Ingested(ctx, key)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("ingestion not completed for %s: %w", key, types.ErrDataUnavailable)
	}
	return s.prices.ForDate(ctx, key)
}

func (s *Store) IndexSummary(ctx context.Context, date time.Time) (types.IndexSummary, error) {
	key := types.DateKey(date)
	stored, err := s.prices.IndexSummaryFor(ctx, key)
	if err != nil {
		return types.IndexSummary{}, err
	}
	if stored != nil {
		sum := *stored
		if sum.Symbol == "" {
			sum.Symbol = s.index.Symbol
			sum.Name = s.index.Name
		}
		return sum, nil
	}

	if s.client == nil {
		return types.IndexSummary{}, fmt.Errorf("no index summary for %s: %w", key, types.ErrDataUnavailable)
	}

	logger.Info(ctx, "No stored index summary, fetching proxy quote",
		"date", key, "proxy", s.index.ProxySymbol)

	quote, err := s.client.Quote(ctx, s.index.ProxySymbol)
	if err != nil {
		return types.IndexSummary{}, fmt.Errorf("index summary fetch for %s: %w", key, err)
	}

	mult := s.index.ProxyMultiplier
	sum := types.IndexSummary{
		Date:          key,
		Symbol:        s.index.Symbol,
		Name:          s.index.Name,
		Close:         round2(quote.Current * mult),
		Change:        round2(quote.Change * mult),
		PercentChange: quote.PercentChange,
		High:          round2(quote.High * mult),
		Low:           round2(quote.Low * mult),
		Open:          round2(quote.Open * mult),
		PrevClose:     round2(quote.PrevClose * mult),
	}
	if err := s.prices.SaveIndexSummary(ctx, sum); err != nil {
		return types.IndexSummary{}, err
	}
	return sum, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
