package news

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/types"
)

// EnricherConfig tunes headline selection. All values are explicit so a
// run is reproducible from its config.
type EnricherConfig struct {
	Lookback     time.Duration // window before the trading day's close
	MaxArticles  int           // candidate cap before classification
	TopHeadlines int           // k headlines kept per mover
	Concurrency  int           // parallel movers enriched at once
	FetchBody    bool          // fetch article text when the summary is empty
	BodyTimeout  time.Duration
}

// DefaultEnricherConfig returns default configuration.
func DefaultEnricherConfig() EnricherConfig {
	return EnricherConfig{
		Lookback:     24 * time.Hour,
		MaxArticles:  20,
		TopHeadlines: 3,
		Concurrency:  4,
	}
}

// Enricher attaches direction-aligned, sentiment-scored headlines to
// movers. It holds no mutable state; per-mover calls are independent.
type Enricher struct {
	provider   interfaces.NewsProvider
	fallback   interfaces.NewsProvider // optional, tried when provider fails
	classifier interfaces.SentimentClassifier
	cfg        EnricherConfig
}

var _ interfaces.Enricher = (*Enricher)(nil)

// NewEnricher creates an enricher. fallback may be nil.
func NewEnricher(provider, fallback interfaces.NewsProvider, classifier interfaces.SentimentClassifier, cfg EnricherConfig) *Enricher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Enricher{provider: provider, fallback: fallback, classifier: classifier, cfg: cfg}
}

// Enrich finds up to k headlines whose sentiment agrees with the mover's
// direction. Degradation is reported in the outcome, never as an error:
// the mover appears in the report either way.
func (e *Enricher) Enrich(ctx context.Context, mover types.MoverEntry) types.EnrichmentResult {
	res := types.EnrichmentResult{Symbol: mover.Symbol}

	day, err := time.Parse(types.DateLayout, mover.Date)
	if err != nil {
		res.Outcome = types.EnrichmentUnavailable
		res.Detail = "bad mover date: " + mover.Date
		return res
	}
	// Window ends at the trading day's end and reaches back the lookback.
	to := day.Add(24*time.Hour - time.Second)
	from := to.Add(-e.cfg.Lookback)

	articles, err := e.provider.CompanyNews(ctx, mover.Symbol, from, to)
	if err != nil && e.fallback != nil {
		logger.Warn(ctx, "Primary news source failed, trying fallback", "symbol", mover.Symbol, "error", err)
		articles, err = e.fallback.CompanyNews(ctx, mover.Symbol, from, to)
	}
	if err != nil {
		// Source outage: a transient-infra condition the orchestrator
		// reflects as a partial report.
		res.Outcome = types.EnrichmentUnavailable
		res.Detail = err.Error()
		return res
	}

	if len(articles) > e.cfg.MaxArticles {
		articles = articles[:e.cfg.MaxArticles]
	}

	res.Analyzed = len(articles)

	if len(articles) == 0 {
		res.Outcome = types.EnrichmentNoMatch
		res.Detail = "no articles in window"
		return res
	}

	var classified []types.NewsItem
	failures := 0
	for _, a := range articles {
		text := a.Headline
		if a.Summary != "" {
			text = a.Headline + ". " + a.Summary
		} else if e.cfg.FetchBody && a.URL != "" {
			if body, berr := ArticleText(ctx, a.URL, e.cfg.BodyTimeout); berr == nil && body != "" {
				text = a.Headline + ". " + body
			}
		}
		label, score, cerr := e.classifier.Classify(ctx, text)
		if cerr != nil {
			// A single malformed item never fails the mover.
			logger.Debug(ctx, "Classification failed for article", "symbol", mover.Symbol, "headline", a.Headline, "error", cerr)
			failures++
			continue
		}
		classified = append(classified, types.NewsItem{
			SourceID:    a.Source,
			Headline:    a.Headline,
			Summary:     a.Summary,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Sentiment:   label,
			Score:       score,
		})
	}

	if len(classified) == 0 && failures > 0 {
		// Every candidate failed classification: the capability is down,
		// not the content missing.
		res.Outcome = types.EnrichmentUnavailable
		res.Detail = "sentiment classification unavailable"
		return res
	}

	aligned := make([]types.NewsItem, 0, len(classified))
	for _, item := range classified {
		if item.Sentiment.Aligned(mover.Direction) {
			aligned = append(aligned, item)
		}
	}

	// Confidence first, then recency; URL as the final tie-break keeps
	// the order stable across runs.
	sort.Slice(aligned, func(i, j int) bool {
		if aligned[i].Score != aligned[j].Score {
			return aligned[i].Score > aligned[j].Score
		}
		if !aligned[i].PublishedAt.Equal(aligned[j].PublishedAt) {
			return aligned[i].PublishedAt.After(aligned[j].PublishedAt)
		}
		return aligned[i].URL < aligned[j].URL
	})

	if len(aligned) > e.cfg.TopHeadlines {
		aligned = aligned[:e.cfg.TopHeadlines]
	}

	if len(aligned) == 0 {
		res.Outcome = types.EnrichmentNoMatch
		res.Detail = "no sentiment-aligned articles"
		return res
	}

	res.Items = aligned
	res.Outcome = types.EnrichmentOK
	return res
}

// EnrichAll enriches movers concurrently and returns results in input
// order, so output is deterministic regardless of completion order.
func (e *Enricher) EnrichAll(ctx context.Context, movers []types.MoverEntry) []types.EnrichmentResult {
	results := make([]types.EnrichmentResult, len(movers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, mover := range movers {
		g.Go(func() error {
			results[i] = e.Enrich(gctx, mover)
			return nil
		})
	}
	// Workers never return errors; degradation lives in each result.
	_ = g.Wait()

	return results
}
