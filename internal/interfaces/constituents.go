package interfaces

import (
	"context"
	"time"

	"market-movers/internal/types"
)

// ConstituentStore is the read-only view of index membership and daily
// prices the pipeline consumes. Ingestion is an external collaborator.
type ConstituentStore interface {
	// ActiveConstituents returns members active as of date. Returns a
	// DataUnavailable error when no membership snapshot exists for or
	// before the date.
	ActiveConstituents(ctx context.Context, date time.Time) ([]types.Constituent, error)

	// Prices returns the day's close records keyed by symbol. Returns a
	// DataUnavailable error when ingestion for the date has not completed.
	Prices(ctx context.Context, date time.Time) (map[string]types.DailyPrice, error)

	// IndexSummary returns the index-level close for the date, fetching
	// from the market summary collaborator when none is stored.
	IndexSummary(ctx context.Context, date time.Time) (types.IndexSummary, error)
}
