package interfaces

import (
	"context"

	"market-movers/internal/types"
)

// Delivery hands a finalized report (status complete or partial) to
// subscribers. Rendering to the delivery format lives in the adapter,
// not the core.
type Delivery interface {
	SendReport(ctx context.Context, report *types.Report) error
	SendFailureNotice(ctx context.Context, date string, detail string) error
}
