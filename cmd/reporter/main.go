package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"market-movers/internal/interfaces"
	"market-movers/internal/logger"
	"market-movers/internal/storage"
	"market-movers/internal/store"
	"market-movers/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dateFlag := flag.String("date", "", "trading date YYYY-MM-DD (default: today)")
	force := flag.Bool("force", false, "regenerate even when a terminal report exists")
	subset := flag.Int("subset", 0, "cap the number of constituents (test runs)")
	daemon := flag.Bool("daemon", false, "run on the configured daily schedule")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = logger.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx, *configPath)
	must(err)

	compressOldRunLogs(ctx)

	db, err := storage.Open(cfg.Storage.Dir)
	must(err)
	defer db.Close()

	client := initializeMarketData(ctx, cfg)
	cons := initializeConstituentStore(db, client, cfg)
	enricher, err := initializeEnricher(ctx, cfg, client)
	must(err)
	reports := storage.NewReportStorage(db)
	orch, err := initializeOrchestrator(cfg, cons, enricher, reports)
	must(err)
	delivery := initializeDelivery(cfg)

	if *daemon {
		runDaemon(ctx, cancel, cfg, orch, delivery)
		return
	}

	date := time.Now()
	if *dateFlag != "" {
		date, err = time.Parse(types.DateLayout, *dateFlag)
		must(err)
	}

	opts := interfaces.RunOptions{Force: *force, Subset: *subset, Trigger: "manual"}
	if err := runOnce(ctx, orch, delivery, date, opts); err != nil {
		os.Exit(1)
	}
}

// runOnce generates a report for one date and delivers the outcome.
func runOnce(ctx context.Context, orch interfaces.Orchestrator, delivery interfaces.Delivery, date time.Time, opts interfaces.RunOptions) error {
	report, err := orch.Run(ctx, date, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		detail := err.Error()
		if report != nil {
			detail = fmt.Sprintf("status: %s\n\n%s", report.Status, report.Error)
		}
		if derr := delivery.SendFailureNotice(ctx, types.DateKey(date), detail); derr != nil {
			logger.ErrorWithErr(ctx, "Failed to send failure notice", derr, "date", types.DateKey(date))
		}
		return err
	}

	if report.Status.Terminal() && report.Status != types.StatusFailed {
		if derr := delivery.SendReport(ctx, report); derr != nil {
			// Delivery failure never alters the stored report.
			logger.ErrorWithErr(ctx, "Failed to deliver report", derr, "date", report.Date)
		}
	}
	return nil
}

// runDaemon schedules a daily run at the configured local time and
// blocks until interrupted.
func runDaemon(ctx context.Context, cancel context.CancelFunc, cfg *store.Config, orch interfaces.Orchestrator, delivery interfaces.Delivery) {
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	must(err)

	t, err := time.Parse("15:04", cfg.Report.Time)
	must(err)
	spec := fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour())

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(spec, func() {
		date := time.Now().In(loc)
		opts := interfaces.RunOptions{Trigger: "cron"}
		if err := runOnce(ctx, orch, delivery, date, opts); err != nil {
			logger.ErrorWithErr(ctx, "Scheduled run failed", err, "date", types.DateKey(date))
		}
	})
	must(err)

	c.Start()
	logger.Info(ctx, "Reporter daemon started",
		"schedule", spec,
		"timezone", cfg.Report.Timezone,
	)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
	case <-ctx.Done():
	}

	stopped := c.Stop()
	<-stopped.Done()
	cancel()
}
