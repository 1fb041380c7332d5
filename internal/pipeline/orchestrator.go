// Package pipeline runs the daily report generation end to end:
// membership and prices in, ranked movers enriched with news out, one
// immutable report per trading date.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/ranker"
	"market-movers/internal/report"
	"market-movers/internal/runlog"
	"market-movers/internal/store"
	"market-movers/internal/types"
)

// Orchestrator owns run state transitions. It is the only writer of
// report status; collaborators report degradation through their return
// values and never touch the stored report.
type Orchestrator struct {
	cfg       *store.Config
	cons      interfaces.ConstituentStore
	enricher  interfaces.Enricher
	reports   interfaces.ReportStore
	assembler *report.Assembler

	rankCfg ranker.Config
	backoff time.Duration
}

var _ interfaces.Orchestrator = (*Orchestrator)(nil)

func NewOrchestrator(cfg *store.Config, cons interfaces.ConstituentStore, enricher interfaces.Enricher, reports interfaces.ReportStore) (*Orchestrator, error) {
	weight, err := ranker.ByName(cfg.Ranker.WeightFunc)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		cfg:       cfg,
		cons:      cons,
		enricher:  enricher,
		reports:   reports,
		assembler: report.NewAssembler(),
		rankCfg: ranker.Config{
			TopN:           cfg.Ranker.TopN,
			MinPercentMove: cfg.Ranker.MinPercentMove,
			WeightName:     cfg.Ranker.WeightFunc,
			Weight:         weight,
		},
		backoff: time.Duration(cfg.Retry.BackoffSeconds) * time.Second,
	}, nil
}

// Run generates the report for a trading date. A terminal complete or
// partial report already stored for the date is returned as-is unless
// opts.Force is set; a stored failed report is always regenerated.
func (o *Orchestrator) Run(ctx context.Context, date time.Time, opts interfaces.RunOptions) (*types.Report, error) {
	key := types.DateKey(date)
	start := time.Now()

	existing, err := o.reports.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.Force {
		switch existing.Status {
		case types.StatusComplete, types.StatusPartial:
			logger.Run(ctx, key, string(existing.Status), "already_generated")
			return existing, nil
		}
		// A failed report is retryable; fall through and regenerate.
	}

	if reason, closed := o.marketClosed(date); closed {
		return o.finishClosed(ctx, key, reason, opts, start)
	}

	rep, runErr := o.generate(ctx, date, key, opts)

	// A cancelled run is never persisted. Enrichment under a cancelled
	// context reports every source as unavailable, which would finalize
	// the date as a protected partial report; leaving nothing stored
	// keeps the date re-runnable without force.
	if cerr := ctx.Err(); cerr != nil {
		logger.Run(ctx, key, "aborted", "cancelled")
		return nil, cerr
	}

	rep.GenerationSeconds = time.Since(start).Seconds()

	if err := o.reports.Put(ctx, rep, opts.Force || (existing != nil && existing.Status == types.StatusFailed)); err != nil {
		return nil, err
	}

	o.logRun(ctx, rep, opts, "")
	return rep, runErr
}

// generate produces a terminal report. The returned error is non-nil
// only for failed status; partial degradation is not an error.
func (o *Orchestrator) generate(ctx context.Context, date time.Time, key string, opts interfaces.RunOptions) (*types.Report, error) {
	var cons []types.Constituent
	err := retry(ctx, o.cfg.Retry.Attempts, o.backoff, "load_constituents", func() error {
		var e error
		cons, e = o.cons.ActiveConstituents(ctx, date)
		return e
	})
	if err != nil {
		return o.failedReport(key, fmt.Errorf("loading constituents: %w", err)), err
	}
	if opts.Subset > 0 && len(cons) > opts.Subset {
		logger.Info(ctx, "Restricting run to constituent subset", "subset", opts.Subset, "total", len(cons))
		cons = cons[:opts.Subset]
	}

	var prices map[string]types.DailyPrice
	err = retry(ctx, o.cfg.Retry.Attempts, o.backoff, "load_prices", func() error {
		var e error
		prices, e = o.cons.Prices(ctx, date)
		return e
	})
	if err != nil {
		return o.failedReport(key, fmt.Errorf("loading prices for %s: %w", key, err)), err
	}

	var index types.IndexSummary
	err = retry(ctx, o.cfg.Retry.Attempts, o.backoff, "load_index_summary", func() error {
		var e error
		index, e = o.cons.IndexSummary(ctx, date)
		return e
	})
	if err != nil {
		return o.failedReport(key, fmt.Errorf("loading index summary for %s: %w", key, err)), err
	}

	ranked, err := ranker.Rank(ctx, cons, prices, index, o.rankCfg)
	if err != nil {
		return o.failedReport(key, fmt.Errorf("ranking movers for %s: %w", key, err)), err
	}

	movers := make([]types.MoverEntry, 0, len(ranked.Gainers)+len(ranked.Losers))
	movers = append(movers, ranked.Gainers...)
	movers = append(movers, ranked.Losers...)

	enrichments := o.enricher.EnrichAll(ctx, movers)

	rep, err := o.assembler.Assemble(key, index, ranked.Gainers, ranked.Losers, enrichments)
	if err != nil {
		// Structural violation in assembled output. Not retryable: the
		// same inputs produce the same failure.
		var aerr *report.AssemblyError
		if errors.As(err, &aerr) {
			logger.ErrorWithErr(ctx, "Report assembly rejected pipeline output", err, "date", key)
		}
		return o.failedReport(key, err), err
	}

	rep.Status = types.StatusComplete
	rep.Constituents = len(cons)
	for _, e := range enrichments {
		rep.ArticlesAnalyzed += e.Analyzed
		if e.Outcome == types.EnrichmentUnavailable {
			// A source outage degrades the report; a content gap does not.
			rep.Status = types.StatusPartial
		}
	}

	return rep, nil
}

// marketClosed reports whether the date is a weekend or configured holiday.
func (o *Orchestrator) marketClosed(date time.Time) (string, bool) {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return "weekend", true
	}
	if o.cfg.IsHoliday(types.DateKey(date)) {
		return "holiday", true
	}
	return "", false
}

// finishClosed stores the empty no-movers report for a non-trading date.
func (o *Orchestrator) finishClosed(ctx context.Context, key, reason string, opts interfaces.RunOptions, start time.Time) (*types.Report, error) {
	rep, err := o.assembler.Assemble(key, types.IndexSummary{Date: key, Symbol: o.cfg.Index.Symbol, Name: o.cfg.Index.Name}, nil, nil, nil)
	if err != nil {
		return nil, err
	}
	rep.Status = types.StatusComplete
	rep.GenerationSeconds = time.Since(start).Seconds()

	if err := o.reports.Put(ctx, rep, opts.Force); err != nil {
		return nil, err
	}

	o.logRun(ctx, rep, opts, reason)
	return rep, nil
}

func (o *Orchestrator) failedReport(key string, err error) *types.Report {
	rep, aerr := o.assembler.Assemble(key, types.IndexSummary{Date: key}, nil, nil, nil)
	if aerr != nil {
		rep = &types.Report{Date: key, GeneratedAt: time.Now().UTC()}
	}
	rep.Status = types.StatusFailed
	rep.Error = err.Error()
	return rep
}

func (o *Orchestrator) logRun(ctx context.Context, rep *types.Report, opts interfaces.RunOptions, reason string) {
	logger.Run(ctx, rep.Date, string(rep.Status), reason,
		"run_id", rep.RunID,
		"gainers", len(rep.Gainers),
		"losers", len(rep.Losers),
		"duration_s", rep.GenerationSeconds,
	)
	if err := runlog.Append(runlog.Entry{
		RunID:           rep.RunID,
		Date:            rep.Date,
		Status:          string(rep.Status),
		Trigger:         opts.Trigger,
		DurationSeconds: rep.GenerationSeconds,
		Constituents:    rep.Constituents,
		Articles:        rep.ArticlesAnalyzed,
		Error:           rep.Error,
	}); err != nil {
		logger.Warn(ctx, "Failed to append run log entry", "date", rep.Date, "error", err)
	}
}
