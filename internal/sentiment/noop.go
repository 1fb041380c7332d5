package sentiment

import (
	"context"

	"market-movers/internal/logger"
	"market-movers/internal/types"
)

// NoopClassifier is the fallback when no model provider is configured.
// Everything classifies neutral with zero confidence, so no headline ever
// aligns and reports go out without news context rather than failing.
type NoopClassifier struct{}

func NewNoopClassifier() *NoopClassifier {
	return &NoopClassifier{}
}

func (c *NoopClassifier) Classify(ctx context.Context, text string) (types.Sentiment, float64, error) {
	logger.Debug(ctx, "Noop classifier called - always returns neutral")
	return types.SentimentNeutral, 0.0, nil
}
