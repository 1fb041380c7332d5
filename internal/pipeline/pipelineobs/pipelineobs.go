package pipelineobs

import (
	"context"
	"time"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/trace"
	"market-movers/internal/types"
)

type observableOrchestrator struct {
	orchestrator interfaces.Orchestrator
}

var _ interfaces.Orchestrator = (*observableOrchestrator)(nil)

func Wrap(orchestrator interfaces.Orchestrator) interfaces.Orchestrator {
	return &observableOrchestrator{
		orchestrator: orchestrator,
	}
}

func (oo *observableOrchestrator) Run(ctx context.Context, date time.Time, opts interfaces.RunOptions) (*types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()

	key := types.DateKey(date)
	timer := logger.StartOperation(ctx, "pipeline_run",
		"date", key,
		"force", opts.Force,
		"subset", opts.Subset,
	)

	report, err := oo.orchestrator.Run(ctx, date, opts)
	if err != nil {
		status := ""
		if report != nil {
			status = string(report.Status)
		}
		timer.EndWithError(err,
			"date", key,
			"status", status,
		)
		return report, err
	}

	timer.End(
		"date", key,
		"status", string(report.Status),
		"run_id", report.RunID,
		"gainers", len(report.Gainers),
		"losers", len(report.Losers),
		"articles_analyzed", report.ArticlesAnalyzed,
	)

	return report, nil
}
