package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"market-movers/internal/types"
)

// IngestionMark records that price ingestion completed for a date. Its
// presence is what lets readers distinguish "not yet ingested" from an
// empty result.
type IngestionMark struct {
	Date        string    `badgerhold:"key"`
	CompletedAt time.Time
	Symbols     int
}

// PriceStorage persists immutable per-(symbol, date) close records.
type PriceStorage struct {
	db *DB
}

func NewPriceStorage(db *DB) *PriceStorage {
	return &PriceStorage{db: db}
}

func priceKey(symbol, date string) string { return date + "/" + symbol }

// Insert writes a price record once. An existing record for the same
// (symbol, date) is left untouched: corrections are out of scope.
func (s *PriceStorage) Insert(ctx context.Context, p types.DailyPrice) error {
	if p.Symbol == "" || p.Date == "" {
		return fmt.Errorf("price record needs symbol and date")
	}
	p.IngestedAt = time.Now().UTC()
	err := s.db.Store().Insert(priceKey(p.Symbol, p.Date), &p)
	if err == badgerhold.ErrKeyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save price %s/%s: %w", p.Date, p.Symbol, err)
	}
	return nil
}

// MarkComplete records that ingestion finished for the date.
func (s *PriceStorage) MarkComplete(ctx context.Context, date string, symbols int) error {
	mark := IngestionMark{Date: date, CompletedAt: time.Now().UTC(), Symbols: symbols}
	if err := s.db.Store().Upsert(date, &mark); err != nil {
		return fmt.Errorf("failed to mark ingestion complete for %s: %w", date, err)
	}
	return nil
}

// Ingested reports whether ingestion completed for the date.
func (s *PriceStorage) Ingested(ctx context.Context, date string) (bool, error) {
	var mark IngestionMark
	err := s.db.Store().Get(date, &mark)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read ingestion mark for %s: %w", date, err)
	}
	return true, nil
}

// ForDate returns the day's price records keyed by symbol.
func (s *PriceStorage) ForDate(ctx context.Context, date string) (map[string]types.DailyPrice, error) {
	var rows []types.DailyPrice
	if err := s.db.Store().Find(&rows, badgerhold.Where("Date").Eq(date).Index("Date")); err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", date, err)
	}
	out := make(map[string]types.DailyPrice, len(rows))
	for _, r := range rows {
		out[r.Symbol] = r
	}
	return out, nil
}

// SaveIndexSummary stores the index-level close for a date. At most one
// summary per date; repeat writes replace it with identical data.
func (s *PriceStorage) SaveIndexSummary(ctx context.Context, sum types.IndexSummary) error {
	if sum.Date == "" {
		return fmt.Errorf("index summary needs a date")
	}
	if err := s.db.Store().Upsert(sum.Date, &sum); err != nil {
		return fmt.Errorf("failed to save index summary for %s: %w", sum.Date, err)
	}
	return nil
}

// IndexSummaryFor returns the stored summary, or (nil, nil) when absent.
func (s *PriceStorage) IndexSummaryFor(ctx context.Context, date string) (*types.IndexSummary, error) {
	var sum types.IndexSummary
	err := s.db.Store().Get(date, &sum)
	if err == badgerhold.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index summary for %s: %w", date, err)
	}
	return &sum, nil
}
