package interfaces

import (
	"context"
	"time"

	"market-movers/internal/types"
)

// Article is a candidate news item before sentiment classification.
type Article struct {
	Source      string
	Headline    string
	Summary     string
	URL         string
	PublishedAt time.Time
}

// NewsProvider returns candidate articles mentioning a symbol within a
// time window.
type NewsProvider interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]Article, error)
}

// SentimentClassifier maps article text to a sentiment label with a
// confidence score in [0,1]. Implementations must be pure with respect to
// the enricher: swapping models must not change selection logic.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (types.Sentiment, float64, error)
}

// Enricher attaches direction-aligned headlines to movers.
type Enricher interface {
	Enrich(ctx context.Context, mover types.MoverEntry) types.EnrichmentResult
	EnrichAll(ctx context.Context, movers []types.MoverEntry) []types.EnrichmentResult
}
