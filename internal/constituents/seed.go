package constituents

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"market-movers/internal/types"
)

//go:embed sp500_top.json
var seedData []byte

type seedEntry struct {
	Symbol  string  `json:"symbol"`
	Company string  `json:"company"`
	Weight  float64 `json:"weight"`
}

// Seed returns the bundled S&P 500 top-constituent list with index
// weights. Used to create the first membership snapshot.
func Seed() ([]types.Constituent, error) {
	var entries []seedEntry
	if err := json.Unmarshal(seedData, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse constituent seed: %w", err)
	}
	out := make([]types.Constituent, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.Constituent{
			Symbol:      e.Symbol,
			CompanyName: e.Company,
			Weight:      e.Weight,
		})
	}
	return out, nil
}
