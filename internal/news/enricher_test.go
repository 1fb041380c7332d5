package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"market-movers/internal/interfaces"
	"market-movers/internal/types"
)

type fakeProvider struct {
	articles []interfaces.Article
	err      error
	calls    int
}

func (p *fakeProvider) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]interfaces.Article, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.articles, nil
}

// fakeClassifier labels by keyword: "up" positive, "down" negative,
// otherwise neutral. Confidence comes from the map, defaulting to 0.5.
type fakeClassifier struct {
	confidence map[string]float64
	err        error
}

func (c *fakeClassifier) Classify(ctx context.Context, text string) (types.Sentiment, float64, error) {
	if c.err != nil {
		return "", 0, c.err
	}
	conf := 0.5
	for key, v := range c.confidence {
		if strings.Contains(text, key) {
			conf = v
		}
	}
	switch {
	case strings.Contains(text, "up"):
		return types.SentimentPositive, conf, nil
	case strings.Contains(text, "down"):
		return types.SentimentNegative, conf, nil
	}
	return types.SentimentNeutral, conf, nil
}

func testMover(direction types.Direction) types.MoverEntry {
	return types.MoverEntry{
		Symbol:    "AAPL",
		Date:      "2026-03-02",
		Direction: direction,
		Rank:      1,
	}
}

func article(headline string, published time.Time) interfaces.Article {
	return interfaces.Article{
		Source:      "test",
		Headline:    headline,
		URL:         "https://example.com/" + strings.ReplaceAll(headline, " ", "-"),
		PublishedAt: published,
	}
}

func newTestEnricher(p, fb interfaces.NewsProvider, c interfaces.SentimentClassifier) *Enricher {
	return NewEnricher(p, fb, c, EnricherConfig{
		Lookback:     24 * time.Hour,
		MaxArticles:  20,
		TopHeadlines: 3,
		Concurrency:  2,
	})
}

func TestEnrichAlignsWithDirection(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	provider := &fakeProvider{articles: []interfaces.Article{
		article("shares up on earnings", at),
		article("analysts worry about down quarter", at),
		article("company releases statement", at),
	}}

	e := newTestEnricher(provider, nil, &fakeClassifier{})
	res := e.Enrich(context.Background(), testMover(types.DirectionGainer))

	if res.Outcome != types.EnrichmentOK {
		t.Fatalf("Expected ok outcome, got %s (%s)", res.Outcome, res.Detail)
	}
	if len(res.Items) != 1 {
		t.Fatalf("Expected 1 aligned headline, got %d", len(res.Items))
	}
	if res.Items[0].Sentiment != types.SentimentPositive {
		t.Errorf("Gainer must carry only positive headlines, got %s", res.Items[0].Sentiment)
	}
}

func TestEnrichLoserSelectsNegative(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	provider := &fakeProvider{articles: []interfaces.Article{
		article("stock up slightly", at),
		article("guidance revised down", at),
	}}

	e := newTestEnricher(provider, nil, &fakeClassifier{})
	res := e.Enrich(context.Background(), testMover(types.DirectionLoser))

	if res.Outcome != types.EnrichmentOK {
		t.Fatalf("Expected ok outcome, got %s", res.Outcome)
	}
	if len(res.Items) != 1 || res.Items[0].Sentiment != types.SentimentNegative {
		t.Errorf("Loser must carry only negative headlines, got %+v", res.Items)
	}
}

func TestEnrichSortsByConfidenceThenRecency(t *testing.T) {
	older := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	provider := &fakeProvider{articles: []interfaces.Article{
		article("weak up signal", older),
		article("strong up move", newer),
		article("another strong up move", older),
		article("fourth up headline", newer),
	}}
	classifier := &fakeClassifier{confidence: map[string]float64{
		"weak":    0.3,
		"strong":  0.9,
		"another": 0.9,
		"fourth":  0.6,
	}}

	e := newTestEnricher(provider, nil, classifier)
	res := e.Enrich(context.Background(), testMover(types.DirectionGainer))

	if len(res.Items) != 3 {
		t.Fatalf("Expected truncation to 3 headlines, got %d", len(res.Items))
	}
	// 0.9/newer, 0.9/older, 0.6; the 0.3 item falls off.
	if res.Items[0].Headline != "strong up move" {
		t.Errorf("Expected highest confidence newest first, got %q", res.Items[0].Headline)
	}
	if res.Items[1].Headline != "another strong up move" {
		t.Errorf("Expected same confidence older second, got %q", res.Items[1].Headline)
	}
	if res.Items[2].Score != 0.6 {
		t.Errorf("Expected 0.6 confidence third, got %.1f", res.Items[2].Score)
	}
}

func TestEnrichNoArticlesIsNoMatch(t *testing.T) {
	e := newTestEnricher(&fakeProvider{}, nil, &fakeClassifier{})
	res := e.Enrich(context.Background(), testMover(types.DirectionGainer))

	if res.Outcome != types.EnrichmentNoMatch {
		t.Errorf("Expected no_match for empty window, got %s", res.Outcome)
	}
}

func TestEnrichNoAlignedIsNoMatch(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	provider := &fakeProvider{articles: []interfaces.Article{
		article("neutral commentary", at),
		article("shares trend down", at),
	}}

	e := newTestEnricher(provider, nil, &fakeClassifier{})
	res := e.Enrich(context.Background(), testMover(types.DirectionGainer))

	if res.Outcome != types.EnrichmentNoMatch {
		t.Errorf("Expected no_match when nothing aligns, got %s", res.Outcome)
	}
	if res.Analyzed != 2 {
		t.Errorf("Expected 2 articles analyzed, got %d", res.Analyzed)
	}
}

func TestEnrichProviderFailureIsUnavailable(t *testing.T) {
	provider := &fakeProvider{err: errors.New("api down")}
	e := newTestEnricher(provider, nil, &fakeClassifier{})
	res := e.Enrich(context.Background(), testMover(types.DirectionGainer))

	if res.Outcome != types.EnrichmentUnavailable {
		t.Errorf("Expected unavailable on provider failure, got %s", res.Outcome)
	}
}

func TestEnrichFallbackUsedWhenPrimaryFails(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	primary := &fakeProvider{err: errors.New("api down")}
	fallback := &fakeProvider{articles: []interfaces.Article{article("shares up on news", at)}}

	e := newTestEnricher(primary, fallback, &fakeClassifier{})
	res := e.Enrich(context.Background(), testMover(types.DirectionGainer))

	if res.Outcome != types.EnrichmentOK {
		t.Fatalf("Expected fallback to rescue the lookup, got %s", res.Outcome)
	}
	if fallback.calls != 1 {
		t.Errorf("Expected fallback to be called once, got %d", fallback.calls)
	}
}

func TestEnrichAllClassificationsFailIsUnavailable(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	provider := &fakeProvider{articles: []interfaces.Article{article("shares up", at)}}
	classifier := &fakeClassifier{err: errors.New("llm down")}

	e := newTestEnricher(provider, nil, classifier)
	res := e.Enrich(context.Background(), testMover(types.DirectionGainer))

	if res.Outcome != types.EnrichmentUnavailable {
		t.Errorf("Expected unavailable when classification is down, got %s", res.Outcome)
	}
}

func TestEnrichAllPreservesInputOrder(t *testing.T) {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	provider := &fakeProvider{articles: []interfaces.Article{article("shares up", at)}}
	e := newTestEnricher(provider, nil, &fakeClassifier{})

	movers := []types.MoverEntry{
		{Symbol: "AAA", Date: "2026-03-02", Direction: types.DirectionGainer, Rank: 1},
		{Symbol: "BBB", Date: "2026-03-02", Direction: types.DirectionGainer, Rank: 2},
		{Symbol: "CCC", Date: "2026-03-02", Direction: types.DirectionLoser, Rank: 1},
	}

	results := e.EnrichAll(context.Background(), movers)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	for i, m := range movers {
		if results[i].Symbol != m.Symbol {
			t.Errorf("Result %d: expected %s, got %s", i, m.Symbol, results[i].Symbol)
		}
	}
}
