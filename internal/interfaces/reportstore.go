package interfaces

import (
	"context"

	"market-movers/internal/types"
)

// ReportStore persists one report per trading date. The date key enforces
// the one-report-per-date invariant.
type ReportStore interface {
	// Get returns the report for a date key, or (nil, nil) when none exists.
	Get(ctx context.Context, date string) (*types.Report, error)

	// Put writes a report. Writing a non-forced report over an existing
	// terminal one is an error.
	Put(ctx context.Context, report *types.Report, force bool) error

	// Latest returns the most recent terminal report, or (nil, nil).
	Latest(ctx context.Context) (*types.Report, error)
}
