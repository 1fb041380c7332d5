package ranker

import (
	"context"
	"errors"
	"testing"

	"market-movers/internal/types"
)

func testIndex() types.IndexSummary {
	return types.IndexSummary{Date: "2026-03-02", Close: 6000, Change: 12.5, PercentChange: 0.21}
}

func testConfig() Config {
	return Config{TopN: 2, WeightName: "cap-weight/v1", Weight: CapWeightV1}
}

func price(symbol string, close, prev float64) types.DailyPrice {
	pct := 0.0
	if prev != 0 {
		pct = (close - prev) / prev * 100
	}
	return types.DailyPrice{Symbol: symbol, Date: "2026-03-02", Close: close, PrevClose: prev, Change: close - prev, PercentChange: pct}
}

func TestRankSelectsTopMoversBothDirections(t *testing.T) {
	cons := []types.Constituent{
		{Symbol: "AAA", CompanyName: "Alpha", Weight: 5.0, Active: true},
		{Symbol: "BBB", CompanyName: "Beta", Weight: 3.0, Active: true},
		{Symbol: "CCC", CompanyName: "Gamma", Weight: 2.0, Active: true},
		{Symbol: "DDD", CompanyName: "Delta", Weight: 4.0, Active: true},
	}
	prices := map[string]types.DailyPrice{
		"AAA": price("AAA", 105, 100), // +5%, strong gainer
		"BBB": price("BBB", 101, 100), // +1%
		"CCC": price("CCC", 95, 100),  // -5%
		"DDD": price("DDD", 98, 100),  // -2%
	}

	res, err := Rank(context.Background(), cons, prices, testIndex(), testConfig())
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}

	if len(res.Gainers) != 2 {
		t.Fatalf("Expected 2 gainers, got %d", len(res.Gainers))
	}
	if res.Gainers[0].Symbol != "AAA" || res.Gainers[0].Rank != 1 {
		t.Errorf("Expected AAA at rank 1, got %s at rank %d", res.Gainers[0].Symbol, res.Gainers[0].Rank)
	}
	if res.Gainers[1].Symbol != "BBB" || res.Gainers[1].Rank != 2 {
		t.Errorf("Expected BBB at rank 2, got %s at rank %d", res.Gainers[1].Symbol, res.Gainers[1].Rank)
	}

	if len(res.Losers) != 2 {
		t.Fatalf("Expected 2 losers, got %d", len(res.Losers))
	}
	if res.Losers[0].Symbol != "CCC" {
		t.Errorf("Expected CCC as top loser, got %s", res.Losers[0].Symbol)
	}
	if res.Losers[0].Direction != types.DirectionLoser {
		t.Errorf("Expected loser direction, got %s", res.Losers[0].Direction)
	}

	// cap-weight/v1: weight% x move% / 100 x indexClose / 100
	// AAA: 5.0 * 5.0 / 100 * 6000 / 100 = 15.00
	if res.Gainers[0].PointsContribution != 15.00 {
		t.Errorf("Expected AAA contribution 15.00, got %.2f", res.Gainers[0].PointsContribution)
	}
}

func TestRankDeterministicTieBreak(t *testing.T) {
	cons := []types.Constituent{
		{Symbol: "ZZZ", Weight: 2.0, Active: true},
		{Symbol: "AAA", Weight: 2.0, Active: true},
	}
	prices := map[string]types.DailyPrice{
		"ZZZ": price("ZZZ", 102, 100),
		"AAA": price("AAA", 102, 100),
	}

	first, err := Rank(context.Background(), cons, prices, testIndex(), testConfig())
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if first.Gainers[0].Symbol != "AAA" {
		t.Errorf("Expected tie broken by symbol, got %s first", first.Gainers[0].Symbol)
	}

	// Reversed input order must not change the output.
	reversed := []types.Constituent{cons[1], cons[0]}
	second, err := Rank(context.Background(), reversed, prices, testIndex(), testConfig())
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	for i := range first.Gainers {
		if first.Gainers[i].Symbol != second.Gainers[i].Symbol {
			t.Errorf("Ranking not deterministic: %s vs %s at %d", first.Gainers[i].Symbol, second.Gainers[i].Symbol, i)
		}
	}
}

func TestRankFewerThanTopN(t *testing.T) {
	cons := []types.Constituent{{Symbol: "AAA", Weight: 5.0, Active: true}}
	prices := map[string]types.DailyPrice{"AAA": price("AAA", 105, 100)}

	cfg := testConfig()
	cfg.TopN = 5
	res, err := Rank(context.Background(), cons, prices, testIndex(), cfg)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(res.Gainers) != 1 {
		t.Errorf("Expected 1 gainer without padding, got %d", len(res.Gainers))
	}
	if len(res.Losers) != 0 {
		t.Errorf("Expected 0 losers, got %d", len(res.Losers))
	}
}

func TestRankSkipsMissingPriorClose(t *testing.T) {
	cons := []types.Constituent{
		{Symbol: "AAA", Weight: 5.0, Active: true},
		{Symbol: "IPO", Weight: 1.0, Active: true}, // listed today, no prior close
		{Symbol: "MISSING", Weight: 1.0, Active: true},
	}
	prices := map[string]types.DailyPrice{
		"AAA": price("AAA", 105, 100),
		"IPO": price("IPO", 50, 0),
	}

	res, err := Rank(context.Background(), cons, prices, testIndex(), testConfig())
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if res.Skipped != 2 {
		t.Errorf("Expected 2 skipped constituents, got %d", res.Skipped)
	}
	if len(res.Gainers) != 1 {
		t.Errorf("Expected only AAA ranked, got %d gainers", len(res.Gainers))
	}
}

func TestRankMinPercentMoveFilter(t *testing.T) {
	cons := []types.Constituent{
		{Symbol: "AAA", Weight: 5.0, Active: true},
		{Symbol: "BBB", Weight: 5.0, Active: true},
	}
	prices := map[string]types.DailyPrice{
		"AAA": price("AAA", 105, 100),   // +5%
		"BBB": price("BBB", 100.4, 100), // +0.4%
	}

	cfg := testConfig()
	cfg.MinPercentMove = 0.5
	res, err := Rank(context.Background(), cons, prices, testIndex(), cfg)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(res.Gainers) != 1 || res.Gainers[0].Symbol != "AAA" {
		t.Errorf("Expected only AAA above threshold, got %v", res.Gainers)
	}
}

func TestRankMissingIndexClose(t *testing.T) {
	cons := []types.Constituent{{Symbol: "AAA", Weight: 5.0, Active: true}}
	prices := map[string]types.DailyPrice{"AAA": price("AAA", 105, 100)}

	_, err := Rank(context.Background(), cons, prices, types.IndexSummary{Date: "2026-03-02"}, testConfig())
	if !errors.Is(err, types.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable for missing index close, got %v", err)
	}
}

func TestWeightByName(t *testing.T) {
	if _, err := ByName("cap-weight/v1"); err != nil {
		t.Errorf("Expected cap-weight/v1 to resolve, got %v", err)
	}
	if _, err := ByName("price-delta/v1"); err != nil {
		t.Errorf("Expected price-delta/v1 to resolve, got %v", err)
	}
	if _, err := ByName("bogus/v9"); err == nil {
		t.Error("Expected unknown weight function to error")
	}
}

func TestPriceDeltaWeight(t *testing.T) {
	p := price("AAA", 105, 100)
	got := PriceDeltaV1(p, 2.0, 6000)
	if got != 10.00 {
		t.Errorf("Expected price delta contribution 10.00, got %.2f", got)
	}
}

func TestCapWeightRounding(t *testing.T) {
	p := price("AAA", 101.234, 100)
	got := CapWeightV1(p, 3.333, 6000)
	// 3.333 * 1.234 / 100 * 6000 / 100 = 2.4676... -> 2.47
	if got != 2.47 {
		t.Errorf("Expected rounded contribution 2.47, got %.4f", got)
	}
}
