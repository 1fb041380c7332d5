package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
)

// Scraper is the fallback news provider used when the API source is
// unavailable. It scrapes public finance sites for recent headlines.
type Scraper struct {
	sources []NewsSource
	timeout time.Duration
}

var _ interfaces.NewsProvider = (*Scraper)(nil)

// NewsSource defines a scrapeable news source.
type NewsSource struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g. "/quote/{symbol}/news"
	Selectors  ArticleSelectors
	RateLimit  time.Duration
}

// ArticleSelectors defines CSS selectors for extracting article data.
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Summary          string
}

// NewScraper creates a scraper with the default source list.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: getDefaultSources(),
		timeout: timeout,
	}
}

func getDefaultSources() []NewsSource {
	return []NewsSource{
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/quote/{symbol}/news",
			Selectors: ArticleSelectors{
				ArticleContainer: "li.stream-item",
				Title:            "h3 a",
				URL:              "h3 a",
				Summary:          "p",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "MarketWatch",
			BaseURL:    "https://www.marketwatch.com",
			SearchPath: "/investing/stock/{symbol}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.article__content",
				Title:            "a.link",
				URL:              "a.link",
				Summary:          "p.article__summary",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// CompanyNews scrapes headlines for a symbol. Scraped items carry no
// publication time, so they are stamped with the window end and pass any
// window filter; the caller's classifier decides their usefulness.
func (s *Scraper) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]interfaces.Article, error) {
	logger.Info(ctx, "Scraping news fallback", "symbol", symbol, "sources", len(s.sources))

	var all []interfaces.Article
	var lastErr error
	for i, source := range s.sources {
		articles, err := s.scrapeSource(ctx, source, symbol, to)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "symbol", symbol)
			lastErr = err
			continue
		}
		all = append(all, articles...)
		if i == len(s.sources)-1 {
			break
		}
		select {
		case <-time.After(source.RateLimit):
		case <-ctx.Done():
			return all, ctx.Err()
		}
	}

	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	logger.Info(ctx, "Scraping completed", "symbol", symbol, "articles", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source NewsSource, symbol string, stamp time.Time) ([]interfaces.Article, error) {
	var articles []interfaces.Article

	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		href := e.ChildAttr(source.Selectors.URL, "href")
		if title == "" || href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = source.BaseURL + href
		}
		articles = append(articles, interfaces.Article{
			Source:      source.Name,
			Headline:    title,
			Summary:     strings.TrimSpace(e.ChildText(source.Selectors.Summary)),
			URL:         href,
			PublishedAt: stamp,
		})
	})

	var visitErr error
	c.OnError(func(_ *colly.Response, err error) {
		visitErr = err
	})

	url := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(url); err != nil {
		return nil, err
	}
	c.Wait()

	if visitErr != nil && len(articles) == 0 {
		return nil, visitErr
	}
	return articles, nil
}

// ArticleText fetches an article page and extracts its paragraph text.
// Used to give the classifier more than a bare headline when the source
// returned no summary.
func ArticleText(ctx context.Context, url string, timeout time.Duration) (string, error) {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("article fetch http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	doc.Find("article p, div.article-body p, p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
		return sb.Len() < 4000
	})
	return strings.TrimSpace(sb.String()), nil
}
