// Package news retrieves candidate articles for movers and selects
// sentiment-aligned headlines.
package news

import (
	"context"
	"time"

	"market-movers/internal/interfaces"
	"market-movers/internal/marketdata"
)

// FinnhubProvider serves company news from the Finnhub API.
type FinnhubProvider struct {
	client *marketdata.Client
}

var _ interfaces.NewsProvider = (*FinnhubProvider)(nil)

func NewFinnhubProvider(client *marketdata.Client) *FinnhubProvider {
	return &FinnhubProvider{client: client}
}

func (p *FinnhubProvider) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]interfaces.Article, error) {
	raw, err := p.client.CompanyNews(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]interfaces.Article, 0, len(raw))
	for _, a := range raw {
		published := time.Unix(a.Datetime, 0).UTC()
		// The API granularity is whole days; enforce the exact window here.
		if published.Before(from) || published.After(to) {
			continue
		}
		if a.Headline == "" {
			continue
		}
		out = append(out, interfaces.Article{
			Source:      a.Source,
			Headline:    a.Headline,
			Summary:     a.Summary,
			URL:         a.URL,
			PublishedAt: published,
		})
	}
	return out, nil
}
