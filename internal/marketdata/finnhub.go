// Package marketdata provides a client for the Finnhub API. This package
// centralizes all Finnhub interactions: quotes, company news, and market
// status.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Finnhub API.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10
)

// APIError represents an error response from the Finnhub API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("finnhub API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Client is a Finnhub API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new Finnhub API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Quote is a real-time quote for a symbol.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PrevClose     float64 `json:"pc"`
}

// Quote fetches the latest quote for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var q Quote
	if err := c.get(ctx, "/quote", params, &q); err != nil {
		return nil, err
	}
	if q.Current == 0 && q.PrevClose == 0 {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "empty quote for " + symbol, Endpoint: "/quote"}
	}
	return &q, nil
}

// NewsArticle is a company news item as returned by Finnhub.
type NewsArticle struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// CompanyNews fetches news for a symbol within a date range (inclusive).
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]NewsArticle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var articles []NewsArticle
	if err := c.get(ctx, "/company-news", params, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// MarketStatus describes whether an exchange is open.
type MarketStatus struct {
	Exchange string `json:"exchange"`
	Holiday  string `json:"holiday"`
	IsOpen   bool   `json:"isOpen"`
	Session  string `json:"session"`
	Timezone string `json:"timezone"`
}

// MarketStatus fetches the current status of an exchange.
func (c *Client) MarketStatus(ctx context.Context, exchange string) (*MarketStatus, error) {
	params := url.Values{}
	params.Set("exchange", exchange)

	var st MarketStatus
	if err := c.get(ctx, "/stock/market-status", params, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// CompanyProfile is a subset of the Finnhub company profile.
type CompanyProfile struct {
	Name                 string  `json:"name"`
	MarketCapitalization float64 `json:"marketCapitalization"` // in millions
	Industry             string  `json:"finnhubIndustry"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
}

// CompanyProfile fetches the company profile for a symbol.
func (c *Client) CompanyProfile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var p CompanyProfile
	if err := c.get(ctx, "/stock/profile2", params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
