package interfaces

import (
	"context"
	"time"

	"market-movers/internal/types"
)

// RunOptions tunes a single pipeline invocation.
type RunOptions struct {
	// Force regenerates the date even when a terminal report exists.
	Force bool
	// Subset, when > 0, caps the number of constituents considered.
	// Used for manual test runs; failure semantics are unchanged.
	Subset int
	// Trigger labels the invocation in the run log ("cron", "manual").
	Trigger string
}

// Orchestrator runs the daily pipeline once per invocation.
type Orchestrator interface {
	Run(ctx context.Context, date time.Time, opts RunOptions) (*types.Report, error)
}
