// Package ranker computes daily index-points contributions and selects
// the top gainers and losers.
package ranker

import (
	"context"
	"fmt"
	"sort"

	"market-movers/internal/logger"
	"market-movers/internal/types"
)

// Config holds the explicit knobs of a ranking run. All of them are
// threaded through calls so a run is reproducible from its config.
type Config struct {
	TopN           int
	MinPercentMove float64 // movers below this absolute percent move are ignored
	WeightName     string
	Weight         PointsFunc
}

// Result is the ranker output: both ordered lists plus the summary they
// were computed against.
type Result struct {
	Index   types.IndexSummary
	Gainers []types.MoverEntry
	Losers  []types.MoverEntry
	// Skipped counts constituents excluded for missing price data.
	Skipped int
}

// Rank computes each constituent's index-points contribution and returns
// the top movers in both directions. Pure: no side effects beyond the
// returned result.
func Rank(ctx context.Context, cons []types.Constituent, prices map[string]types.DailyPrice, index types.IndexSummary, cfg Config) (*Result, error) {
	if cfg.TopN <= 0 {
		return nil, fmt.Errorf("ranker top_n must be positive, got %d", cfg.TopN)
	}
	if cfg.Weight == nil {
		return nil, fmt.Errorf("ranker weight function is required")
	}
	if index.Close == 0 {
		return nil, fmt.Errorf("index close missing for %s: %w", index.Date, types.ErrDataUnavailable)
	}

	res := &Result{Index: index}
	var gainers, losers []types.MoverEntry

	for _, c := range cons {
		p, ok := prices[c.Symbol]
		if !ok || p.PrevClose == 0 {
			// Missing prior close excludes the constituent, never fails the run.
			logger.Debug(ctx, "Constituent excluded from ranking", "symbol", c.Symbol, "reason", "missing prior close")
			res.Skipped++
			continue
		}
		if abs(p.PercentChange) <= cfg.MinPercentMove {
			continue
		}

		points := cfg.Weight(p, c.Weight, index.Close)
		if points == 0 {
			continue
		}

		entry := types.MoverEntry{
			Symbol:             c.Symbol,
			CompanyName:        c.CompanyName,
			Date:               index.Date,
			PointsContribution: points,
			PercentChange:      p.PercentChange,
			ClosePrice:         p.Close,
		}
		if points > 0 {
			entry.Direction = types.DirectionGainer
			gainers = append(gainers, entry)
		} else {
			entry.Direction = types.DirectionLoser
			losers = append(losers, entry)
		}
	}

	// Gainers by contribution descending, losers by contribution
	// ascending (largest drag first); symbol breaks ties for determinism.
	sort.Slice(gainers, func(i, j int) bool {
		if gainers[i].PointsContribution != gainers[j].PointsContribution {
			return gainers[i].PointsContribution > gainers[j].PointsContribution
		}
		return gainers[i].Symbol < gainers[j].Symbol
	})
	sort.Slice(losers, func(i, j int) bool {
		if losers[i].PointsContribution != losers[j].PointsContribution {
			return losers[i].PointsContribution < losers[j].PointsContribution
		}
		return losers[i].Symbol < losers[j].Symbol
	})

	res.Gainers = truncateAndRank(gainers, cfg.TopN)
	res.Losers = truncateAndRank(losers, cfg.TopN)

	for _, m := range res.Gainers {
		logger.Mover(ctx, m.Symbol, string(m.Direction), m.Rank, m.PointsContribution)
	}
	for _, m := range res.Losers {
		logger.Mover(ctx, m.Symbol, string(m.Direction), m.Rank, m.PointsContribution)
	}

	return res, nil
}

// truncateAndRank caps a list at topN and assigns 1-based ranks. Fewer
// than topN qualifying movers returns fewer, never padded.
func truncateAndRank(movers []types.MoverEntry, topN int) []types.MoverEntry {
	if len(movers) > topN {
		movers = movers[:topN]
	}
	for i := range movers {
		movers[i].Rank = i + 1
	}
	return movers
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
