package types

import "time"

// DateLayout is the canonical trading-date format used as storage keys.
const DateLayout = "2006-01-02"

// DateKey normalizes a time to its trading-date key.
func DateKey(t time.Time) string { return t.Format(DateLayout) }

type Direction string

const (
	DirectionGainer Direction = "gainer"
	DirectionLoser  Direction = "loser"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Aligned reports whether a sentiment label agrees with a price direction.
func (s Sentiment) Aligned(d Direction) bool {
	return (d == DirectionGainer && s == SentimentPositive) ||
		(d == DirectionLoser && s == SentimentNegative)
}

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusRunning  ReportStatus = "running"
	StatusComplete ReportStatus = "complete"
	StatusPartial  ReportStatus = "partial"
	StatusFailed   ReportStatus = "failed"
)

// Terminal reports whether the status permits no further writes for the date.
func (s ReportStatus) Terminal() bool {
	return s == StatusComplete || s == StatusPartial || s == StatusFailed
}

// Constituent is an index member with its approximate index weight.
// Mutated only on membership changes, never mid-day.
type Constituent struct {
	Symbol      string    `json:"symbol" badgerhold:"key"`
	CompanyName string    `json:"company_name"`
	Weight      float64   `json:"weight"` // index weight in percent
	Active      bool      `json:"active" badgerhold:"index"`
	AddedDate   string    `json:"added_date"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DailyPrice is one immutable close record per (symbol, date).
type DailyPrice struct {
	Symbol        string    `json:"symbol"`
	Date          string    `json:"date" badgerhold:"index"`
	Close         float64   `json:"close"`
	PrevClose     float64   `json:"prev_close"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percent_change"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	IngestedAt    time.Time `json:"ingested_at"`
}

// IndexSummary is the index-level close for a date. One per date.
type IndexSummary struct {
	Date          string  `json:"date" badgerhold:"key"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Close         float64 `json:"close"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PrevClose     float64 `json:"prev_close"`
}

// MoverEntry is a ranked top gainer or loser for a trading date.
type MoverEntry struct {
	Symbol             string    `json:"symbol"`
	CompanyName        string    `json:"company_name"`
	Date               string    `json:"date"`
	PointsContribution float64   `json:"points_contribution"`
	PercentChange      float64   `json:"percent_change"`
	ClosePrice         float64   `json:"close_price"`
	Rank               int       `json:"rank"`
	Direction          Direction `json:"direction"`
}

// NewsItem is a sentiment-scored headline attached to a mover.
type NewsItem struct {
	SourceID    string    `json:"source_id"`
	Headline    string    `json:"headline"`
	Summary     string    `json:"summary,omitempty"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Sentiment   Sentiment `json:"sentiment"`
	Score       float64   `json:"score"` // classifier confidence in [0,1]
}

// EnrichmentOutcome classifies how a mover's news lookup ended. The
// orchestrator uses it to distinguish a content gap from a source outage.
type EnrichmentOutcome string

const (
	EnrichmentOK          EnrichmentOutcome = "ok"
	EnrichmentNoMatch     EnrichmentOutcome = "no_match"
	EnrichmentUnavailable EnrichmentOutcome = "unavailable"
)

// EnrichmentResult is the per-mover output of the news enricher.
type EnrichmentResult struct {
	Symbol   string            `json:"symbol"`
	Items    []NewsItem        `json:"items"`
	Outcome  EnrichmentOutcome `json:"outcome"`
	Analyzed int               `json:"analyzed"` // candidate articles classified
	Detail   string            `json:"detail,omitempty"`
}

// ReportMover is a mover with its selected headlines, as it appears in a report.
type ReportMover struct {
	MoverEntry
	Headlines []NewsItem `json:"headlines"`
}

// Report is the immutable daily artifact. Exactly one per trading date;
// the date is the idempotency key.
type Report struct {
	Date              string        `json:"date" badgerhold:"key"`
	Status            ReportStatus  `json:"status" badgerhold:"index"`
	RunID             string        `json:"run_id"`
	Index             IndexSummary  `json:"index"`
	Gainers           []ReportMover `json:"gainers"`
	Losers            []ReportMover `json:"losers"`
	GeneratedAt       time.Time     `json:"generated_at"`
	GenerationSeconds float64       `json:"generation_seconds"`
	Constituents      int           `json:"constituents_processed"`
	ArticlesAnalyzed  int           `json:"news_articles_analyzed"`
	Error             string        `json:"error,omitempty"`
}
