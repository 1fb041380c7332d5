package newsobs

import (
	"context"
	"time"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/trace"
	"market-movers/internal/types"
)

type observableEnricher struct {
	enricher interfaces.Enricher
}

var _ interfaces.Enricher = (*observableEnricher)(nil)

func Wrap(enricher interfaces.Enricher) interfaces.Enricher {
	return &observableEnricher{
		enricher: enricher,
	}
}

func (oe *observableEnricher) Enrich(ctx context.Context, mover types.MoverEntry) types.EnrichmentResult {
	ctx, span := trace.StartSpan(ctx, "news.Enrich")
	defer span.End()

	timer := logger.StartOperation(ctx, "enrich_mover")

	res := oe.enricher.Enrich(ctx, mover)

	switch res.Outcome {
	case types.EnrichmentOK:
		timer.End(
			"symbol", mover.Symbol,
			"direction", string(mover.Direction),
			"headlines", len(res.Items),
		)
	case types.EnrichmentNoMatch:
		timer.End(
			"symbol", mover.Symbol,
			"direction", string(mover.Direction),
			"outcome", string(res.Outcome),
			"detail", res.Detail,
		)
	default:
		logger.WarnSkip(ctx, 1, "Mover enrichment degraded",
			"symbol", mover.Symbol,
			"outcome", string(res.Outcome),
			"detail", res.Detail,
		)
		timer.End(
			"symbol", mover.Symbol,
			"outcome", string(res.Outcome),
		)
	}

	return res
}

func (oe *observableEnricher) EnrichAll(ctx context.Context, movers []types.MoverEntry) []types.EnrichmentResult {
	ctx, span := trace.StartSpan(ctx, "news.EnrichAll")
	defer span.End()

	start := time.Now()
	logger.InfoSkip(ctx, 1, "Starting mover enrichment",
		"movers", len(movers),
	)

	results := oe.enricher.EnrichAll(ctx, movers)

	var ok, noMatch, unavailable int
	for _, r := range results {
		switch r.Outcome {
		case types.EnrichmentOK:
			ok++
		case types.EnrichmentNoMatch:
			noMatch++
		case types.EnrichmentUnavailable:
			unavailable++
		}
	}

	logger.InfoSkip(ctx, 1, "Mover enrichment complete",
		"movers", len(movers),
		"ok", ok,
		"no_match", noMatch,
		"unavailable", unavailable,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return results
}
