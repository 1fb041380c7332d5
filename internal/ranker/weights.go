package ranker

import (
	"fmt"
	"math"

	"market-movers/internal/types"
)

// PointsFunc converts a constituent's daily move into index points. The
// function is an explicit, versioned parameter of the ranker: changing it
// changes historical comparability, so callers select one by name and the
// name travels with the configuration.
type PointsFunc func(price types.DailyPrice, weightPct, indexClose float64) float64

// CapWeightV1 estimates index-points contribution from the constituent's
// cap weight: the weighted percent move applied to the index level.
// Rounded to two decimals.
func CapWeightV1(price types.DailyPrice, weightPct, indexClose float64) float64 {
	contributionPct := (weightPct * price.PercentChange) / 100
	points := (contributionPct * indexClose) / 100
	return round2(points)
}

// PriceDeltaV1 is the simpler proxy: the raw close-to-close delta scaled
// by the constituent's weight. Independent of the index level.
func PriceDeltaV1(price types.DailyPrice, weightPct, _ float64) float64 {
	return round2((price.Close - price.PrevClose) * weightPct)
}

// ByName resolves a weighting function from its versioned name.
func ByName(name string) (PointsFunc, error) {
	switch name {
	case "cap-weight/v1":
		return CapWeightV1, nil
	case "price-delta/v1":
		return PriceDeltaV1, nil
	default:
		return nil, fmt.Errorf("unknown weight function '%s'", name)
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
