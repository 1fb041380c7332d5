package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(100))
}

func TestQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quote" {
			t.Errorf("Expected /quote path, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "test-key" {
			t.Error("Expected API key in query")
		}
		if r.URL.Query().Get("symbol") != "AAPL" {
			t.Errorf("Expected AAPL symbol, got %s", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`{"c": 195.5, "d": 2.3, "dp": 1.19, "h": 196.0, "l": 193.1, "o": 193.5, "pc": 193.2}`))
	})

	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.Current != 195.5 {
		t.Errorf("Expected current 195.5, got %f", q.Current)
	}
	if q.PercentChange != 1.19 {
		t.Errorf("Expected percent change 1.19, got %f", q.PercentChange)
	}
}

func TestQuoteEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Finnhub returns all zeros for unknown symbols.
		w.Write([]byte(`{"c": 0, "d": 0, "dp": 0, "h": 0, "l": 0, "o": 0, "pc": 0}`))
	})

	_, err := c.Quote(context.Background(), "NOSUCH")
	if err == nil {
		t.Fatal("Expected error for empty quote")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("Expected APIError, got %T", err)
	}
}

func TestAPIErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`API limit reached`))
	})

	_, err := c.Quote(context.Background(), "AAPL")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", apiErr.StatusCode)
	}
}

func TestCompanyNewsDateParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from"); got != "2026-03-01" {
			t.Errorf("Expected from=2026-03-01, got %s", got)
		}
		if got := r.URL.Query().Get("to"); got != "2026-03-02" {
			t.Errorf("Expected to=2026-03-02, got %s", got)
		}
		w.Write([]byte(`[{"datetime": 1772450000, "headline": "AAPL ships new product", "source": "wire", "url": "https://example.com/1"}]`))
	})

	from := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	articles, err := c.CompanyNews(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("CompanyNews returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].Headline != "AAPL ships new product" {
		t.Errorf("Unexpected articles: %+v", articles)
	}
}

func TestMarketStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"exchange": "US", "isOpen": false, "holiday": "Christmas", "session": "", "timezone": "America/New_York"}`))
	})

	st, err := c.MarketStatus(context.Background(), "US")
	if err != nil {
		t.Fatalf("MarketStatus returned error: %v", err)
	}
	if st.IsOpen {
		t.Error("Expected market closed")
	}
	if st.Holiday != "Christmas" {
		t.Errorf("Expected holiday name, got %s", st.Holiday)
	}
}
