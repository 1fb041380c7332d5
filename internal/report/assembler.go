package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"market-movers/internal/types"
)

// AssemblyError means the assembler's inputs violate a structural
// invariant. It is fatal for the run: retrying cannot fix bad input.
type AssemblyError struct {
	Reason string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("report assembly: %s", e.Reason)
}

// Assembler combines ranked movers and enrichment results into a report.
// It performs no I/O; given the same inputs it produces the same report
// apart from RunID and timestamps.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds a report for date. Enrichment results must be in the
// same order as the concatenation of gainers then losers; a symbol
// mismatch or rank violation fails assembly.
func (a *Assembler) Assemble(date string, index types.IndexSummary, gainers, losers []types.MoverEntry, enrichments []types.EnrichmentResult) (*types.Report, error) {
	if len(enrichments) != len(gainers)+len(losers) {
		return nil, &AssemblyError{Reason: fmt.Sprintf("have %d enrichment results for %d movers", len(enrichments), len(gainers)+len(losers))}
	}

	if err := validateMovers(gainers, "gainer"); err != nil {
		return nil, err
	}
	if err := validateMovers(losers, "loser"); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(gainers)+len(losers))
	for _, m := range append(append([]types.MoverEntry{}, gainers...), losers...) {
		if seen[m.Symbol] {
			return nil, &AssemblyError{Reason: fmt.Sprintf("symbol %s appears in both lists", m.Symbol)}
		}
		seen[m.Symbol] = true
	}

	report := &types.Report{
		Date:        date,
		RunID:       uuid.New().String(),
		Index:       index,
		Gainers:     make([]types.ReportMover, 0, len(gainers)),
		Losers:      make([]types.ReportMover, 0, len(losers)),
		GeneratedAt: time.Now().UTC(),
	}

	for i, m := range gainers {
		rm, err := attach(m, enrichments[i])
		if err != nil {
			return nil, err
		}
		report.Gainers = append(report.Gainers, rm)
	}
	for i, m := range losers {
		rm, err := attach(m, enrichments[len(gainers)+i])
		if err != nil {
			return nil, err
		}
		report.Losers = append(report.Losers, rm)
	}

	return report, nil
}

func attach(m types.MoverEntry, e types.EnrichmentResult) (types.ReportMover, error) {
	if e.Symbol != m.Symbol {
		return types.ReportMover{}, &AssemblyError{Reason: fmt.Sprintf("enrichment for %s paired with mover %s", e.Symbol, m.Symbol)}
	}
	return types.ReportMover{MoverEntry: m, Headlines: e.Items}, nil
}

func validateMovers(movers []types.MoverEntry, kind string) error {
	for i, m := range movers {
		if m.Rank != i+1 {
			return &AssemblyError{Reason: fmt.Sprintf("%s %s has rank %d at position %d", kind, m.Symbol, m.Rank, i+1)}
		}
		if kind == "gainer" && m.Direction != types.DirectionGainer {
			return &AssemblyError{Reason: fmt.Sprintf("gainer list contains %s with direction %s", m.Symbol, m.Direction)}
		}
		if kind == "loser" && m.Direction != types.DirectionLoser {
			return &AssemblyError{Reason: fmt.Sprintf("loser list contains %s with direction %s", m.Symbol, m.Direction)}
		}
	}
	return nil
}
