package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Index struct {
		Symbol          string  `yaml:"symbol"`
		Name            string  `yaml:"name"`
		ProxySymbol     string  `yaml:"proxy_symbol"`
		ProxyMultiplier float64 `yaml:"proxy_multiplier"`
	} `yaml:"index"`
	Ranker struct {
		TopN           int     `yaml:"top_n"`
		MinPercentMove float64 `yaml:"min_percent_move"`
		WeightFunc     string  `yaml:"weight_func"`
	} `yaml:"ranker"`
	News struct {
		LookbackHours         int  `yaml:"lookback_hours"`
		MaxArticles           int  `yaml:"max_articles"`
		TopHeadlines          int  `yaml:"top_headlines"`
		ScraperFallback       bool `yaml:"scraper_fallback"`
		ScraperTimeoutSeconds int  `yaml:"scraper_timeout_seconds"`
		FetchArticleBody      bool `yaml:"fetch_article_body"`
		Concurrency           int  `yaml:"concurrency"`
	} `yaml:"news"`
	Sentiment struct {
		Provider  string `yaml:"provider"` // OPENAI, CLAUDE, or NOOP
		Model     string `yaml:"model"`
		MaxTokens int    `yaml:"max_tokens"`
	} `yaml:"sentiment"`
	Retry struct {
		Attempts       int `yaml:"attempts"`
		BackoffSeconds int `yaml:"backoff_seconds"`
	} `yaml:"retry"`
	Report struct {
		Time     string   `yaml:"time"`     // HH:MM local to Timezone
		Timezone string   `yaml:"timezone"` // e.g. America/New_York
		Holidays []string `yaml:"holidays"` // YYYY-MM-DD, markets closed
	} `yaml:"report"`
	Storage struct {
		Dir string `yaml:"dir"`
	} `yaml:"storage"`
	Email struct {
		Enabled    bool     `yaml:"enabled"`
		From       string   `yaml:"from"`
		FromName   string   `yaml:"from_name"`
		Recipients []string `yaml:"recipients"`
	} `yaml:"email"`
	Finnhub struct {
		RateLimitPerSecond int `yaml:"rate_limit_per_second"`
		TimeoutSeconds     int `yaml:"timeout_seconds"`
	} `yaml:"finnhub"`
}

func (c *Config) Validate() error {
	if c.Index.Symbol == "" {
		return errors.New("index.symbol cannot be empty")
	}
	if c.Ranker.TopN <= 0 || c.Ranker.TopN > 25 {
		return fmt.Errorf("ranker.top_n must be between 1-25, got %d", c.Ranker.TopN)
	}
	if c.Ranker.MinPercentMove < 0 {
		return fmt.Errorf("ranker.min_percent_move must be >= 0, got %.2f", c.Ranker.MinPercentMove)
	}
	if c.News.TopHeadlines <= 0 || c.News.TopHeadlines > c.News.MaxArticles {
		return fmt.Errorf("news.top_headlines must be between 1 and news.max_articles, got %d", c.News.TopHeadlines)
	}
	if c.News.Concurrency <= 0 {
		return fmt.Errorf("news.concurrency must be >= 1, got %d", c.News.Concurrency)
	}
	p := strings.ToUpper(c.Sentiment.Provider)
	if p != "OPENAI" && p != "CLAUDE" && p != "NOOP" {
		return fmt.Errorf("sentiment.provider must be 'OPENAI', 'CLAUDE', or 'NOOP', got '%s'", c.Sentiment.Provider)
	}
	if _, err := time.Parse("15:04", c.Report.Time); err != nil {
		return fmt.Errorf("report.time must be HH:MM, got '%s'", c.Report.Time)
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("report.timezone invalid: %w", err)
	}
	for _, h := range c.Report.Holidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			return fmt.Errorf("report.holidays entry '%s' must be YYYY-MM-DD", h)
		}
	}
	if c.Email.Enabled && len(c.Email.Recipients) == 0 {
		return errors.New("email.recipients cannot be empty when email is enabled")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Index.Symbol == "" {
		c.Index.Symbol = "^GSPC"
	}
	if c.Index.Name == "" {
		c.Index.Name = "S&P 500"
	}
	if c.Index.ProxySymbol == "" {
		c.Index.ProxySymbol = "SPY"
	}
	if c.Index.ProxyMultiplier == 0 {
		c.Index.ProxyMultiplier = 10
	}
	if c.Ranker.TopN == 0 {
		c.Ranker.TopN = 5
	}
	if c.Ranker.WeightFunc == "" {
		c.Ranker.WeightFunc = "cap-weight/v1"
	}
	if c.News.LookbackHours == 0 {
		c.News.LookbackHours = 24
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 20
	}
	if c.News.TopHeadlines == 0 {
		c.News.TopHeadlines = 3
	}
	if c.News.ScraperTimeoutSeconds == 0 {
		c.News.ScraperTimeoutSeconds = 30
	}
	if c.News.Concurrency == 0 {
		c.News.Concurrency = 4
	}
	if c.Sentiment.Provider == "" {
		c.Sentiment.Provider = "NOOP"
	}
	if c.Sentiment.MaxTokens == 0 {
		c.Sentiment.MaxTokens = 300
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.BackoffSeconds == 0 {
		c.Retry.BackoffSeconds = 2
	}
	if c.Report.Time == "" {
		c.Report.Time = "16:05"
	}
	if c.Report.Timezone == "" {
		c.Report.Timezone = "America/New_York"
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}
	if c.Finnhub.RateLimitPerSecond == 0 {
		c.Finnhub.RateLimitPerSecond = 10
	}
	if c.Finnhub.TimeoutSeconds == 0 {
		c.Finnhub.TimeoutSeconds = 30
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// IsHoliday reports whether the date is a configured market holiday.
func (c *Config) IsHoliday(date string) bool {
	for _, h := range c.Report.Holidays {
		if h == date {
			return true
		}
	}
	return false
}
