package storage

import (
	"context"
	"testing"
	"time"

	"market-movers/internal/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReportPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := NewReportStorage(db)
	ctx := context.Background()

	got, err := s.Get(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Fatal("Expected nil for missing report")
	}

	rep := &types.Report{Date: "2026-03-02", Status: types.StatusComplete, RunID: "run-1", GeneratedAt: time.Now().UTC()}
	if err := s.Put(ctx, rep, false); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err = s.Get(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil || got.RunID != "run-1" {
		t.Fatalf("Expected stored report back, got %+v", got)
	}
}

func TestReportPutRejectsFinalizedOverwrite(t *testing.T) {
	db := openTestDB(t)
	s := NewReportStorage(db)
	ctx := context.Background()

	first := &types.Report{Date: "2026-03-02", Status: types.StatusComplete, RunID: "run-1"}
	if err := s.Put(ctx, first, false); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	second := &types.Report{Date: "2026-03-02", Status: types.StatusComplete, RunID: "run-2"}
	if err := s.Put(ctx, second, false); err == nil {
		t.Fatal("Expected error overwriting a finalized report without force")
	}

	if err := s.Put(ctx, second, true); err != nil {
		t.Fatalf("Expected forced overwrite to succeed: %v", err)
	}
	got, _ := s.Get(ctx, "2026-03-02")
	if got.RunID != "run-2" {
		t.Errorf("Expected forced report stored, got %s", got.RunID)
	}
}

func TestReportPutAllowsFailedRetry(t *testing.T) {
	db := openTestDB(t)
	s := NewReportStorage(db)
	ctx := context.Background()

	failed := &types.Report{Date: "2026-03-02", Status: types.StatusFailed, Error: "data unavailable"}
	if err := s.Put(ctx, failed, false); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	retry := &types.Report{Date: "2026-03-02", Status: types.StatusComplete, RunID: "run-2"}
	if err := s.Put(ctx, retry, false); err != nil {
		t.Fatalf("Expected failed report to be replaceable without force: %v", err)
	}
}

func TestReportLatest(t *testing.T) {
	db := openTestDB(t)
	s := NewReportStorage(db)
	ctx := context.Background()

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if latest != nil {
		t.Fatal("Expected nil latest for empty store")
	}

	for _, date := range []string{"2026-03-02", "2026-03-04", "2026-03-03"} {
		if err := s.Put(ctx, &types.Report{Date: date, Status: types.StatusComplete}, false); err != nil {
			t.Fatalf("Put returned error: %v", err)
		}
	}

	latest, err = s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if latest == nil || latest.Date != "2026-03-04" {
		t.Errorf("Expected latest 2026-03-04, got %+v", latest)
	}
}

func TestPriceInsertImmutable(t *testing.T) {
	db := openTestDB(t)
	s := NewPriceStorage(db)
	ctx := context.Background()

	p := types.DailyPrice{Symbol: "AAA", Date: "2026-03-02", Close: 105, PrevClose: 100, PercentChange: 5}
	if err := s.Insert(ctx, p); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	// A second insert for the same (symbol, date) must not change the record.
	p.Close = 999
	if err := s.Insert(ctx, p); err != nil {
		t.Fatalf("Duplicate insert returned error: %v", err)
	}

	prices, err := s.ForDate(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("ForDate returned error: %v", err)
	}
	if prices["AAA"].Close != 105 {
		t.Errorf("Expected first write to win, got close %.0f", prices["AAA"].Close)
	}
}

func TestIngestionMark(t *testing.T) {
	db := openTestDB(t)
	s := NewPriceStorage(db)
	ctx := context.Background()

	done, err := s.Ingested(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("Ingested returned error: %v", err)
	}
	if done {
		t.Fatal("Expected no ingestion mark yet")
	}

	if err := s.MarkComplete(ctx, "2026-03-02", 3); err != nil {
		t.Fatalf("MarkComplete returned error: %v", err)
	}

	done, err = s.Ingested(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("Ingested returned error: %v", err)
	}
	if !done {
		t.Error("Expected ingestion mark after MarkComplete")
	}
}

func TestConstituentActiveSorted(t *testing.T) {
	db := openTestDB(t)
	s := NewConstituentStorage(db)
	ctx := context.Background()

	for _, c := range []types.Constituent{
		{Symbol: "ZZZ", Weight: 1.0, Active: true},
		{Symbol: "AAA", Weight: 2.0, Active: true},
		{Symbol: "MMM", Weight: 3.0, Active: false},
	} {
		if err := s.Upsert(ctx, c); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}

	active, err := s.Active(ctx)
	if err != nil {
		t.Fatalf("Active returned error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("Expected 2 active constituents, got %d", len(active))
	}
	if active[0].Symbol != "AAA" || active[1].Symbol != "ZZZ" {
		t.Errorf("Expected symbol-sorted order, got %s then %s", active[0].Symbol, active[1].Symbol)
	}

	if err := s.DeactivateAll(ctx); err != nil {
		t.Fatalf("DeactivateAll returned error: %v", err)
	}
	active, err = s.Active(ctx)
	if err != nil {
		t.Fatalf("Active returned error: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active constituents after deactivation, got %d", len(active))
	}
}

func TestIndexSummaryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := NewPriceStorage(db)
	ctx := context.Background()

	got, err := s.IndexSummaryFor(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("IndexSummaryFor returned error: %v", err)
	}
	if got != nil {
		t.Fatal("Expected nil for missing summary")
	}

	sum := types.IndexSummary{Date: "2026-03-02", Symbol: "^GSPC", Close: 6000, Change: 12.5}
	if err := s.SaveIndexSummary(ctx, sum); err != nil {
		t.Fatalf("SaveIndexSummary returned error: %v", err)
	}

	got, err = s.IndexSummaryFor(ctx, "2026-03-02")
	if err != nil {
		t.Fatalf("IndexSummaryFor returned error: %v", err)
	}
	if got == nil || got.Close != 6000 {
		t.Errorf("Expected stored summary back, got %+v", got)
	}
}
